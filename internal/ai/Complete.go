package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"site_ai_server/internal/utils"
)

// Complete sends one chat completion request and returns the raw response
// text. Transient failures are retried once after a short delay; any error
// after that is returned to the caller, which decides whether it is fatal.
func (g *Generator) Complete(ctx context.Context, prompt, systemPrompt string, cfg GenConfig) (string, error) {
	if systemPrompt == "" {
		systemPrompt = "You are a helpful AI assistant that generates code based on user prompts and specific formatting instructions."
	}

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil && utils.ShouldRetry(err) {
		log.Printf("OpenAI call failed, retrying once after delay... Error: %v", err)
		time.Sleep(2 * time.Second)
		resp, err = g.client.CreateChatCompletion(ctx, req)
	}
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Printf("OpenAI usage for empty response: %+v", resp.Usage)
		return "", errors.New("openai returned empty response")
	}

	return resp.Choices[0].Message.Content, nil
}
