package engine

import (
	"sort"
	"strings"
)

// passageDelimiter separates passages in the assembled context and is
// counted against the character budget.
const passageDelimiter = "\n\n---\n\n"

// AssembleContext packs retrieved passages into a single context block
// within the character budget. Passages are ordered by a rank-and-length
// score, then appended greedily; a passage that does not fit whole is
// truncated at the last sentence boundary past 70% of the remaining
// budget, or hard-cut with an ellipsis when no boundary lands there.
// An empty passage set yields an empty context.
func AssembleContext(passages []string, budget int) string {
	if len(passages) == 0 || budget <= 0 {
		return ""
	}

	type scored struct {
		text  string
		score float64
	}
	docs := make([]scored, 0, len(passages))
	for rank, text := range passages {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		length := float64(len(text)) / 1000
		if length > 2.0 {
			length = 2.0
		}
		docs = append(docs, scored{
			text:  text,
			score: 1.0 / float64(rank+1) * length,
		})
	}

	// Stable so equal scores keep retrieval order.
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].score > docs[j].score
	})

	var b strings.Builder
	for _, doc := range docs {
		remaining := budget - b.Len()
		if b.Len() > 0 {
			remaining -= len(passageDelimiter)
		}
		if remaining <= 0 {
			break
		}

		text := doc.text
		if len(text) > remaining {
			text = truncateAtSentence(text, remaining)
			if text == "" {
				break
			}
		}

		if b.Len() > 0 {
			b.WriteString(passageDelimiter)
		}
		b.WriteString(text)
	}
	return b.String()
}

// truncateAtSentence cuts text to at most limit characters, preferring
// the last sentence-ending mark past 70% of the window.
func truncateAtSentence(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	cut := text[:limit]

	best := -1
	for _, ending := range []string{".", "!", "?"} {
		if idx := strings.LastIndex(cut, ending); idx > best {
			best = idx
		}
	}
	if best > 0 && float64(best) > float64(limit)*0.7 {
		return cut[:best+1]
	}
	return strings.TrimRight(cut, " ") + "..."
}
