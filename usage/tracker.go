// Package usage accumulates per-process query metrics: counts, token
// totals, response times, quality outcomes, and a rough cost estimate.
// All state is bounded so a long-running server never grows without
// limit.
package usage

import (
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	maxQualityScores = 50  // most recent scores kept
	maxPatterns      = 20  // distinct query patterns kept after pruning
	pruneEvery       = 100 // queries between prune passes

	// Blended per-token rates, assuming roughly 70% of tokens are
	// input and 30% output.
	inputRatePerK  = 0.0015
	outputRatePerK = 0.002
)

// Tracker records query telemetry. Safe for concurrent use.
type Tracker struct {
	mu            sync.Mutex
	totalQueries  int
	totalTokens   int
	avgResponse   time.Duration
	estimatedCost float64
	scores        []float64
	patterns      map[string]int
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{patterns: make(map[string]int)}
}

// Record logs one completed query. tokens is the estimated combined
// prompt and answer token count; qualityOK reports whether the answer
// passed validation.
func (t *Tracker) Record(query string, elapsed time.Duration, tokens int, qualityOK bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.totalQueries++
	t.totalTokens += tokens

	if t.avgResponse == 0 {
		t.avgResponse = elapsed
	} else {
		t.avgResponse = (t.avgResponse + elapsed) / 2
	}

	// The cost estimate only ever accumulates; pruning never lowers it.
	in := float64(tokens) * 0.7 * inputRatePerK / 1000
	out := float64(tokens) * 0.3 * outputRatePerK / 1000
	t.estimatedCost += in + out

	score := 0.0
	if qualityOK {
		score = 1.0
	}
	t.scores = append(t.scores, score)
	if len(t.scores) > maxQualityScores {
		t.scores = t.scores[len(t.scores)-maxQualityScores:]
	}

	t.patterns[queryPattern(query)]++

	if t.totalQueries%pruneEvery == 0 {
		t.prune()
	}
}

// prune trims the pattern histogram back to the most frequent entries.
// Caller holds the lock.
func (t *Tracker) prune() {
	if len(t.patterns) <= maxPatterns {
		return
	}
	type pc struct {
		pattern string
		count   int
	}
	all := make([]pc, 0, len(t.patterns))
	for p, c := range t.patterns {
		all = append(all, pc{p, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].pattern < all[j].pattern
	})
	kept := make(map[string]int, maxPatterns)
	for _, e := range all[:maxPatterns] {
		kept[e.pattern] = e.count
	}
	t.patterns = kept
}

// queryPattern buckets a query by its first three lowercased words.
func queryPattern(query string) string {
	words := strings.Fields(strings.ToLower(query))
	if len(words) > 3 {
		words = words[:3]
	}
	if len(words) == 0 {
		return "(empty)"
	}
	return strings.Join(words, " ")
}

// Summary is a point-in-time snapshot of accumulated metrics.
type Summary struct {
	TotalQueries    int            `json:"total_queries"`
	TotalTokens     int            `json:"total_tokens"`
	AvgTokens       float64        `json:"avg_tokens_per_query"`
	AvgResponseTime time.Duration  `json:"avg_response_time"`
	QualityRate     float64        `json:"quality_rate"`
	EstimatedCost   float64        `json:"estimated_cost_usd"`
	TopPatterns     map[string]int `json:"top_patterns"`
}

// Summary returns a snapshot. The pattern map is copied so callers may
// hold it without racing subsequent Records.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Summary{
		TotalQueries:    t.totalQueries,
		TotalTokens:     t.totalTokens,
		AvgResponseTime: t.avgResponse,
		EstimatedCost:   t.estimatedCost,
		TopPatterns:     make(map[string]int, len(t.patterns)),
	}
	if t.totalQueries > 0 {
		s.AvgTokens = float64(t.totalTokens) / float64(t.totalQueries)
	}
	if len(t.scores) > 0 {
		var sum float64
		for _, v := range t.scores {
			sum += v
		}
		s.QualityRate = sum / float64(len(t.scores))
	}
	for p, c := range t.patterns {
		s.TopPatterns[p] = c
	}
	return s
}
