package ai

import (
	openai "github.com/sashabaranov/go-openai"
)

// GenConfig carries the per-call tuning for a completion request.
type GenConfig struct {
	Temperature float32
	MaxTokens   int
}

// DefaultConfig keeps the temperature low for predictable code generation.
func DefaultConfig() GenConfig {
	return GenConfig{Temperature: 0.3, MaxTokens: 4096}
}

// Generator wraps the OpenAI client behind the single completion operation
// the pipeline consumes.
type Generator struct {
	client *openai.Client
	model  string
}

func NewGenerator(apiKey, model string) *Generator {
	if model == "" {
		model = openai.GPT4o
	}
	return &Generator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}
