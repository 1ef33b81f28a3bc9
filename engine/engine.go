// Package engine orchestrates the question-answering pipeline:
// retrieval, context assembly, answer synthesis, structuring, text
// transforms, tooltip resolution, and quality validation.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/richinex/mentor/answer"
	"github.com/richinex/mentor/config"
	"github.com/richinex/mentor/llm"
	"github.com/richinex/mentor/tooltip"
	"github.com/richinex/mentor/usage"
)

// Retriever finds the k stored passages most similar to a query
// vector, best first. *storage.SqliteStore satisfies it.
type Retriever interface {
	Search(ctx context.Context, vector []float32, k int) ([]string, error)
}

// Generator produces answer text. *llm.Client satisfies it.
type Generator interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (llm.Completion, error)
}

// Result is one fully-processed answer.
type Result struct {
	QueryID         string
	Answer          string
	Tooltips        map[string]string
	Report          answer.QualityReport
	Sources         int
	ContextChars    int
	EstimatedTokens int
	Elapsed         time.Duration
}

// Engine wires the pipeline stages together. Safe for concurrent use;
// the profile and random source are guarded by the mutex.
type Engine struct {
	embedder   llm.Embedder
	retriever  Retriever
	generator  Generator
	tooltips   *tooltip.Engine
	tracker    *usage.Tracker
	recognizer answer.Recognizer
	settings   config.Settings

	mu      sync.Mutex
	profile config.Profile
	rng     *rand.Rand
}

// New assembles an engine from its collaborators. The tracker may be
// nil when telemetry is not wanted.
func New(embedder llm.Embedder, retriever Retriever, generator Generator,
	tooltips *tooltip.Engine, tracker *usage.Tracker,
	profile config.Profile, settings config.Settings) *Engine {
	return &Engine{
		embedder:   embedder,
		retriever:  retriever,
		generator:  generator,
		tooltips:   tooltips,
		tracker:    tracker,
		recognizer: answer.HeuristicRecognizer{},
		settings:   settings,
		profile:    profile,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed fixes the random source used by the style normalizer, making
// output reproducible for a given seed.
func (e *Engine) Seed(seed int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rng = rand.New(rand.NewSource(seed))
}

// Profile returns the active personalization profile.
func (e *Engine) Profile() config.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile
}

// SetProfile replaces the active personalization profile.
func (e *Engine) SetProfile(p config.Profile) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profile = p
}

// Tooltips exposes the tooltip engine for stats reporting.
func (e *Engine) Tooltips() *tooltip.Engine {
	return e.tooltips
}

// Ask answers a question from the ingested corpus. A query that
// retrieves nothing returns ErrRetrievalMiss without invoking
// generation; generation failures surface as *llm.GenerationError.
func (e *Engine) Ask(ctx context.Context, query string) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	start := time.Now()

	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	passages, err := e.retriever.Search(ctx, vector, e.settings.Pipeline.RetrievalK)
	if err != nil {
		return nil, fmt.Errorf("searching corpus: %w", err)
	}

	assembled := AssembleContext(passages, e.settings.Pipeline.ContextBudget)
	if assembled == "" {
		return nil, ErrRetrievalMiss
	}

	prompt := config.AnswerPrompt(e.Profile(), assembled, query)
	maxTokens := llm.TokenBudget(len(prompt), e.settings.LLM.MaxTokens)

	completion, err := e.generator.Complete(ctx, llm.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: float32(e.settings.LLM.Temperature),
	})
	if err != nil {
		return nil, err
	}

	text := e.processAnswer(ctx, completion.Content, assembled)
	report := answer.Validate(text)

	concepts := answer.FoundConcepts(text + "\n" + assembled)
	tooltips := make(map[string]string, len(concepts))
	for _, entry := range e.tooltips.ResolveAll(ctx, concepts, assembled) {
		tooltips[entry.Label] = entry.Definition
	}

	elapsed := time.Since(start)
	tokens := (len(prompt) + len(text)) / 4
	if e.tracker != nil {
		e.tracker.Record(query, elapsed, tokens, report.IsValid)
	}

	return &Result{
		QueryID:         uuid.New().String(),
		Answer:          text,
		Tooltips:        tooltips,
		Report:          report,
		Sources:         len(passages),
		ContextChars:    len(assembled),
		EstimatedTokens: tokens,
		Elapsed:         elapsed,
	}, nil
}

// processAnswer runs the fixed transform sequence over raw model
// output. Order matters: structure first, then privacy, then
// enhancement, then layout.
func (e *Engine) processAnswer(ctx context.Context, raw, assembled string) string {
	text := answer.Parse(raw).Render()
	text = answer.Anonymize(text, e.recognizer)
	text = answer.HighlightFrameworks(text)

	e.mu.Lock()
	text = answer.NormalizeStyle(text, e.rng)
	e.mu.Unlock()

	text = answer.InjectTooltips(text, func(concept string) (string, bool) {
		def, prebuilt, _ := e.tooltips.Resolve(ctx, concept, assembled)
		return def, prebuilt && def != ""
	})
	text = answer.DedupeReferences(text)
	text = answer.InsertReadabilityBreak(text)
	return text
}
