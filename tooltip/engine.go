// Package tooltip resolves concept names to short definitions through
// a tiered lookup: static catalog, curated sidecar, per-process cache,
// context-keyed cache, on-demand generation, generic fallback. Each
// tier is strictly cheaper than the next; first match wins.
package tooltip

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/richinex/mentor/config"
	"github.com/richinex/mentor/frameworks"
	"github.com/richinex/mentor/llm"
)

// Kind is the provenance tier that produced a definition.
type Kind string

const (
	KindStatic        Kind = "static"
	KindCurated       Kind = "curated"
	KindCachedCustom  Kind = "cached-custom"
	KindContextCached Kind = "context-cached"
	KindGenerated     Kind = "generated"
	KindFallback      Kind = "fallback"
)

// Generator is the text-generation collaborator used for on-demand
// tooltip generation. *llm.Client satisfies it.
type Generator interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (llm.Completion, error)
}

// Options tunes the resolution engine.
type Options struct {
	MaxWords         int     // word cap for definitions (default 50)
	ContextThreshold int     // minimum context chars before generating (default 50)
	Temperature      float32 // generation temperature
}

// generation cap for a single tooltip call; definitions are short.
const tooltipMaxTokens = 100

func (o Options) withDefaults() Options {
	if o.MaxWords <= 0 {
		o.MaxWords = 50
	}
	if o.ContextThreshold <= 0 {
		o.ContextThreshold = 50
	}
	return o
}

// Stats counts resolutions per provenance tier.
type Stats struct {
	Static        int
	Curated       int
	CachedCustom  int
	ContextCached int
	Generated     int
	Fallback      int
}

// Total returns the number of resolutions across all tiers.
func (s Stats) Total() int {
	return s.Static + s.Curated + s.CachedCustom + s.ContextCached + s.Generated + s.Fallback
}

// Efficiency is the fraction of resolutions served without generation.
func (s Stats) Efficiency() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return float64(total-s.Generated) / float64(total)
}

// Engine owns the tooltip caches. Both caches live for the process
// lifetime and are only mutated under the engine's mutex, so one
// instance is safe to share across concurrent sessions.
type Engine struct {
	mu       sync.Mutex
	curated  map[string]string
	custom   map[string]string            // lowercased concept -> cleaned definition
	contexts map[string]map[string]string // context fingerprint -> concept -> definition
	gen      Generator
	opts     Options
	stats    Stats
}

// NewEngine creates a resolution engine. The generator may be nil, in
// which case the generation tier is skipped entirely. The curated map
// may be nil or empty; see LoadCurated.
func NewEngine(gen Generator, curated map[string]string, opts Options) *Engine {
	if curated == nil {
		curated = map[string]string{}
	}
	return &Engine{
		curated:  curated,
		custom:   make(map[string]string),
		contexts: make(map[string]map[string]string),
		gen:      gen,
		opts:     opts.withDefaults(),
	}
}

// Resolve looks up a definition for the concept, walking the tiers in
// cost order. The returned definition is always cleaned: non-empty,
// at most MaxWords words, ending in terminal punctuation. prebuilt
// reports whether the text came from an authored source rather than
// generation.
func (e *Engine) Resolve(ctx context.Context, concept, contextText string) (definition string, prebuilt bool, kind Kind) {
	key := strings.ToLower(concept)

	e.mu.Lock()

	if def, ok := frameworks.Catalog[key]; ok {
		e.stats.Static++
		e.mu.Unlock()
		return Clean(def, e.opts.MaxWords), true, KindStatic
	}

	if def, ok := e.curated[key]; ok {
		e.stats.Curated++
		e.mu.Unlock()
		return Clean(def, e.opts.MaxWords), true, KindCurated
	}

	if def, ok := e.custom[key]; ok {
		e.stats.CachedCustom++
		e.mu.Unlock()
		return Clean(def, e.opts.MaxWords), false, KindCachedCustom
	}

	fingerprint := Fingerprint(contextText)
	if sub, ok := e.contexts[fingerprint]; ok {
		if def, ok := sub[key]; ok {
			e.stats.ContextCached++
			e.mu.Unlock()
			return Clean(def, e.opts.MaxWords), false, KindContextCached
		}
	}
	e.mu.Unlock()

	if e.gen != nil && len(contextText) > e.opts.ContextThreshold {
		if def, err := e.generate(ctx, concept, contextText); err == nil {
			cleaned := Clean(def, e.opts.MaxWords)

			e.mu.Lock()
			e.custom[key] = cleaned
			if _, ok := e.contexts[fingerprint]; !ok {
				e.contexts[fingerprint] = make(map[string]string)
			}
			e.contexts[fingerprint][key] = cleaned
			e.stats.Generated++
			e.mu.Unlock()

			return cleaned, false, KindGenerated
		}
	}

	e.mu.Lock()
	e.stats.Fallback++
	e.mu.Unlock()
	return Clean(fmt.Sprintf("Concept: %s.", concept), e.opts.MaxWords), true, KindFallback
}

func (e *Engine) generate(ctx context.Context, concept, contextText string) (string, error) {
	completion, err := e.gen.Complete(ctx, llm.CompletionRequest{
		Prompt:      config.TooltipPrompt(concept, contextText),
		MaxTokens:   tooltipMaxTokens,
		Temperature: e.opts.Temperature,
	})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(completion.Content)
	if text == "" {
		return "", fmt.Errorf("empty tooltip for %q", concept)
	}
	return text, nil
}

// UsageStats returns a snapshot of per-tier resolution counts.
func (e *Engine) UsageStats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Entry is one reference-list item: a display label, its definition,
// and the tier that produced it.
type Entry struct {
	Label      string
	Definition string
	Kind       Kind
}

// ResolveAll resolves every concept and assembles the deduplicated
// reference list, labels sorted and entries with identical definition
// text merged under a comma-joined label.
func (e *Engine) ResolveAll(ctx context.Context, concepts []string, contextText string) []Entry {
	sorted := make([]string, len(concepts))
	copy(sorted, concepts)
	sort.Strings(sorted)

	entries := make([]Entry, 0, len(sorted))
	for _, concept := range sorted {
		def, _, kind := e.Resolve(ctx, concept, contextText)
		entries = append(entries, Entry{
			Label:      frameworks.DisplayName(concept),
			Definition: def,
			Kind:       kind,
		})
	}
	return Dedupe(entries)
}

// Dedupe merges entries that share identical definition text,
// concatenating their labels with commas so the same explanation is
// never shown twice under different names. Order of first occurrence
// is preserved.
func Dedupe(entries []Entry) []Entry {
	index := make(map[string]int)
	result := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if at, ok := index[entry.Definition]; ok {
			result[at].Label = result[at].Label + ", " + entry.Label
			continue
		}
		index[entry.Definition] = len(result)
		result = append(result, entry)
	}
	return result
}

// Fingerprint derives the context cache key: word count plus the
// lowercased first 100 characters with spaces collapsed to
// underscores. Cheap, and stable across near-identical contexts.
func Fingerprint(contextText string) string {
	words := len(strings.Fields(contextText))
	head := []rune(contextText)
	if len(head) > 100 {
		head = head[:100]
	}
	prefix := strings.ReplaceAll(strings.ToLower(string(head)), " ", "_")
	return fmt.Sprintf("%d_%s", words, prefix)
}

// Clean normalizes a definition: trims whitespace, guarantees
// terminal punctuation, and enforces the word cap. Over-long text is
// truncated at the last sentence boundary past 70% of the cap window;
// when no boundary exists there, it is hard-truncated with an
// ellipsis. Cleaning already-clean text is a no-op.
func Clean(text string, maxWords int) string {
	if maxWords <= 0 {
		maxWords = 50
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	words := strings.Fields(text)
	if len(words) <= maxWords {
		if !endsWithTerminal(text) {
			return text + "."
		}
		return text
	}

	truncated := strings.Join(words[:maxWords], " ")

	best := -1
	for _, ending := range []string{".", "!", "?"} {
		if idx := strings.LastIndex(truncated, ending); idx > best {
			best = idx
		}
	}

	if best > 0 && float64(best) > float64(len(truncated))*0.7 {
		return truncated[:best+1]
	}

	if !endsWithTerminal(truncated) {
		truncated += "..."
	}
	return truncated
}

func endsWithTerminal(text string) bool {
	return strings.HasSuffix(text, ".") || strings.HasSuffix(text, "!") || strings.HasSuffix(text, "?")
}
