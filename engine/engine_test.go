package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/richinex/mentor/config"
	"github.com/richinex/mentor/llm"
	"github.com/richinex/mentor/tooltip"
	"github.com/richinex/mentor/usage"
)

type fakeEmbedder struct{ err error }

func (f fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{1, 0, 0}, nil
}

type fakeRetriever struct {
	passages []string
	err      error
}

func (f fakeRetriever) Search(ctx context.Context, vector []float32, k int) ([]string, error) {
	return f.passages, f.err
}

type fakeGenerator struct {
	response string
	err      error
	calls    int
}

func (f *fakeGenerator) Complete(ctx context.Context, req llm.CompletionRequest) (llm.Completion, error) {
	f.calls++
	if f.err != nil {
		return llm.Completion{}, f.err
	}
	return llm.Completion{Content: f.response}, nil
}

const rawAnswer = `Strategy or Explanation
A decision tree helps you lay out both job offers and score each branch against what you value most. Walk each path to its outcome before committing.

Story or Analogy
An engineer once mapped two offers on a whiteboard overnight and saw the choice clearly by morning.

Reflection Prompts
1. What would you regret not trying?
2. Which offer aligns with your five-year picture?

Concept/Tool References
- Decision Tree: A visual tool for mapping decision options and their consequences.`

func testSettings() config.Settings {
	return config.Settings{
		LLM: config.LLMConfig{MaxTokens: 1000, Temperature: 0.3},
		Pipeline: config.PipelineConfig{
			ContextBudget:    8000,
			TooltipMaxWords:  50,
			TooltipThreshold: 50,
			RetrievalK:       5,
		},
	}
}

func newTestEngine(gen *fakeGenerator, retriever Retriever) *Engine {
	tooltips := tooltip.NewEngine(gen, nil, tooltip.Options{})
	eng := New(fakeEmbedder{}, retriever, gen, tooltips, usage.NewTracker(),
		config.DefaultProfile(), testSettings())
	eng.Seed(1)
	return eng
}

func TestAskEmptyQuery(t *testing.T) {
	gen := &fakeGenerator{response: rawAnswer}
	eng := newTestEngine(gen, fakeRetriever{passages: []string{"passage"}})

	if _, err := eng.Ask(context.Background(), "   "); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("generation must not run for empty query, got %d calls", gen.calls)
	}
}

func TestAskRetrievalMissSkipsGeneration(t *testing.T) {
	gen := &fakeGenerator{response: rawAnswer}
	eng := newTestEngine(gen, fakeRetriever{passages: nil})

	_, err := eng.Ask(context.Background(), "should I take the new job")
	if !errors.Is(err, ErrRetrievalMiss) {
		t.Fatalf("expected ErrRetrievalMiss, got %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("generation must not run on a retrieval miss, got %d calls", gen.calls)
	}
}

func TestAskHappyPath(t *testing.T) {
	gen := &fakeGenerator{response: rawAnswer}
	passages := []string{
		"Decision trees are a core framework for structuring choices under uncertainty. They map options to outcomes.",
		"When comparing job offers, weigh compensation against growth and fit.",
	}
	eng := newTestEngine(gen, fakeRetriever{passages: passages})

	result, err := eng.Ask(context.Background(), "should I take the new job")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	for _, header := range []string{"**Strategy or Explanation**", "**Story or Analogy**", "**Reflection Prompts**", "**Concept/Tool References**"} {
		if !strings.Contains(result.Answer, header) {
			t.Errorf("answer missing header %s", header)
		}
	}
	if result.QueryID == "" {
		t.Error("expected a query ID")
	}
	if result.Sources != 2 {
		t.Errorf("expected 2 sources, got %d", result.Sources)
	}
	if result.ContextChars == 0 {
		t.Error("expected non-zero context size")
	}
	if _, ok := result.Tooltips["Decision Tree"]; !ok {
		t.Errorf("expected decision-tree tooltip, got %v", result.Tooltips)
	}
}

func TestAskRecordsUsage(t *testing.T) {
	gen := &fakeGenerator{response: rawAnswer}
	eng := newTestEngine(gen, fakeRetriever{passages: []string{"A long enough passage about decision frameworks and options."}})

	if _, err := eng.Ask(context.Background(), "how do I choose between two offers"); err != nil {
		t.Fatalf("Ask: %v", err)
	}

	s := eng.tracker.Summary()
	if s.TotalQueries != 1 {
		t.Errorf("expected 1 recorded query, got %d", s.TotalQueries)
	}
	if s.TotalTokens == 0 {
		t.Error("expected non-zero token estimate")
	}
}

func TestAskGenerationErrorPropagates(t *testing.T) {
	genErr := &llm.GenerationError{Provider: "test", Attempts: 3, Err: errors.New("down")}
	gen := &fakeGenerator{err: genErr}
	eng := newTestEngine(gen, fakeRetriever{passages: []string{"A passage about decision frameworks."}})

	_, err := eng.Ask(context.Background(), "should I move cities")
	var ge *llm.GenerationError
	if !errors.As(err, &ge) {
		t.Errorf("expected *llm.GenerationError, got %v", err)
	}
}

func TestAskDeterministicWithFixedSeed(t *testing.T) {
	styled := strings.Replace(rawAnswer, "A decision tree helps",
		"That's a great question! A decision tree helps", 1)
	passages := []string{"Decision trees map options to outcomes under uncertainty in a structured way."}

	run := func() string {
		gen := &fakeGenerator{response: styled}
		eng := newTestEngine(gen, fakeRetriever{passages: passages})
		result, err := eng.Ask(context.Background(), "should I take the new job")
		if err != nil {
			t.Fatalf("Ask: %v", err)
		}
		return result.Answer
	}

	first, second := run(), run()
	if first != second {
		t.Error("expected identical output for identical seed and inputs")
	}
	if strings.Contains(first, "That's a great question") {
		t.Error("expected banned opening to be replaced")
	}
}

func TestSetProfileVisible(t *testing.T) {
	gen := &fakeGenerator{response: rawAnswer}
	eng := newTestEngine(gen, fakeRetriever{})

	p := eng.Profile()
	p.Role = "socratic mentor"
	eng.SetProfile(p)

	if eng.Profile().Role != "socratic mentor" {
		t.Errorf("profile update not visible: %+v", eng.Profile())
	}
}
