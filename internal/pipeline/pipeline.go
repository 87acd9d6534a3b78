package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"site_ai_server/internal/ai"
	"site_ai_server/internal/ai/prompts"
	"site_ai_server/internal/classify"
	"site_ai_server/internal/parse"
	"site_ai_server/internal/site"
	"site_ai_server/internal/store"
	"site_ai_server/internal/types"
	"site_ai_server/internal/utils"
	"site_ai_server/internal/validate"
)

// Completer is the consumed text-completion interface. *ai.Generator
// implements it; tests substitute scripted fakes.
type Completer interface {
	Complete(ctx context.Context, prompt, systemPrompt string, cfg ai.GenConfig) (string, error)
}

// HistorySink records prompt/filename pairs after a successful run. Failures
// are logged and swallowed; the sink never affects the generation result.
type HistorySink interface {
	CreateWebsite(prompt string, filenames []string) (int64, error)
	AddPromptHistory(websiteID int64, promptText, promptType string) error
}

// Fatal error conditions surfaced to the caller.
var (
	// ErrNoParsableFiles means the completion succeeded but the parser found
	// zero files, so nothing downstream can proceed.
	ErrNoParsableFiles = errors.New("could not parse any files from the AI response")
)

const defaultMaxGapRounds = 3

// Pipeline is the generation orchestrator: classify, generate, parse,
// validate, gap-fill, finalize, persist.
type Pipeline struct {
	completer      Completer
	workspace      *site.Workspace
	history        HistorySink
	maxGapRounds   int
	minScriptChars int
}

// Option tunes a Pipeline.
type Option func(*Pipeline)

// WithMaxGapRounds bounds the gap-filling loop.
func WithMaxGapRounds(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxGapRounds = n
		}
	}
}

// WithMinScriptChars sets the undersized-script threshold for fallback
// synthesis.
func WithMinScriptChars(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.minScriptChars = n
		}
	}
}

// New builds a Pipeline. history may be nil when no sink is configured.
func New(completer Completer, workspace *site.Workspace, history HistorySink, opts ...Option) *Pipeline {
	p := &Pipeline{
		completer:      completer,
		workspace:      workspace,
		history:        history,
		maxGapRounds:   defaultMaxGapRounds,
		minScriptChars: defaultMinScriptChars,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one full generation for the given prompt and returns the
// written filenames. Completion failure or an unparseable response during
// the initial call is fatal; gap-filling failures are not.
func (p *Pipeline) Run(ctx context.Context, userPrompt string) (*types.GenerationResult, error) {
	sessionID := uuid.New().String()

	// INIT: prior files become the conversational context; the classifier
	// decides whether this run needs a backend.
	priorFiles, err := p.workspace.PriorFiles()
	if err != nil {
		return nil, err
	}
	refinement := len(priorFiles) > 0
	requiresBackend := classify.IsDataDriven(userPrompt)
	log.Printf("Session %s: starting generation (backend=%v, refinement=%v)", sessionID, requiresBackend, refinement)

	// GENERATING_INITIAL: one completion call, no retry at this stage beyond
	// what the completer does internally.
	var initialPrompt string
	if refinement {
		initialPrompt = prompts.RefinementPrompt(userPrompt, priorFiles)
	} else {
		initialPrompt = prompts.InitialPrompt(userPrompt, requiresBackend)
	}

	raw, err := p.completer.Complete(ctx, initialPrompt, prompts.SystemPrompt(), ai.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("initial generation failed: %w", err)
	}

	files := parse.Response(raw)
	if len(files) == 0 {
		return nil, ErrNoParsableFiles
	}
	log.Printf("Session %s: parsed %d files from initial response", sessionID, len(files))

	// Validate, then gap-fill for backend-required runs that came up short.
	complete, missing := validate.Files(files, requiresBackend)
	if !complete && requiresBackend {
		missing = p.fillGaps(ctx, sessionID, userPrompt, files, requiresBackend)
	}
	if len(missing) > 0 {
		log.Printf("Session %s: proceeding with missing artifacts: %v", sessionID, missing)
	}

	// FINALIZING: deterministic fallback content for the fragile cases, then
	// write everything. A write failure is fatal and already-written files
	// are left in place.
	p.applyFallbacks(sessionID, userPrompt, files, requiresBackend)

	written, err := p.workspace.WriteFiles(files)
	if err != nil {
		return nil, fmt.Errorf("writing generated files: %w", err)
	}
	for _, name := range written {
		log.Printf("Session %s: wrote %s (%s)", sessionID, name, utils.DetermineFileType(name))
	}

	// DONE. History is fire-and-forget.
	p.persist(sessionID, userPrompt, written, refinement)

	_, missingAfter := validate.Files(files, requiresBackend)
	return &types.GenerationResult{
		SessionID:       sessionID,
		Files:           written,
		RequiresBackend: requiresBackend,
		MissingRequired: missingAfter,
		Refinement:      refinement,
	}, nil
}

// fillGaps re-prompts for each missing artifact category, up to
// maxGapRounds rounds. A round that adds no new files stops the loop early;
// individual request failures are skipped, never fatal. Returns whatever is
// still missing afterwards.
func (p *Pipeline) fillGaps(ctx context.Context, sessionID, userPrompt string, files types.FileMap, requiresBackend bool) []string {
	_, missing := validate.Files(files, requiresBackend)

	for round := 1; round <= p.maxGapRounds && len(missing) > 0; round++ {
		log.Printf("Session %s: gap-filling round %d/%d, missing: %v", sessionID, round, p.maxGapRounds, missing)

		newFiles := 0
		for _, label := range missing {
			gapPrompt := prompts.GapFillPrompt(label, userPrompt)
			raw, err := p.completer.Complete(ctx, gapPrompt, prompts.SystemPrompt(), ai.DefaultConfig())
			if err != nil {
				log.Printf("Session %s: gap-fill request for %q failed, skipping: %v", sessionID, label, err)
				continue
			}
			for name, content := range parse.Response(raw) {
				if _, exists := files[name]; !exists {
					newFiles++
				}
				files[name] = content
			}
		}

		var complete bool
		complete, missing = validate.Files(files, requiresBackend)
		if complete {
			log.Printf("Session %s: gap-filling complete after round %d", sessionID, round)
			return nil
		}
		if newFiles == 0 {
			log.Printf("Session %s: gap-filling round %d produced no new files, stopping early", sessionID, round)
			return missing
		}
	}
	return missing
}

func (p *Pipeline) persist(sessionID, userPrompt string, written []string, refinement bool) {
	if p.history == nil {
		return
	}
	promptType := store.PromptTypeInitial
	if refinement {
		promptType = store.PromptTypeRefinement
	}
	websiteID, err := p.history.CreateWebsite(userPrompt, written)
	if err != nil {
		log.Printf("WARN: session %s: failed to record website history: %v", sessionID, err)
		return
	}
	if err := p.history.AddPromptHistory(websiteID, userPrompt, promptType); err != nil {
		log.Printf("WARN: session %s: failed to record prompt history: %v", sessionID, err)
	}
}
