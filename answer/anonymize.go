// Anonymization pass: personal names found by the entity recognizer
// are replaced with a neutral word. Known UI labels are protected
// with sentinel tokens around the recognizer call so they are never
// mistaken for personal names and redacted.

package answer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Span is a character range [Start, End) inside the analyzed text.
type Span struct {
	Start int
	End   int
}

// Recognizer finds personal-name spans in text. Implementations are
// external collaborators; a heuristic default ships with the package.
type Recognizer interface {
	FindPersonSpans(text string) []Span
}

// replacement for recognized personal names.
const anonymousName = "individual"

// protectedLabels are substituted with sentinels before recognition
// and restored afterward.
var protectedLabels = []string{
	"Strategy or Explanation",
	"Story or Analogy",
	"Reflection Prompts",
	"Concept/Tool References",
	"Coach's take",
}

func sentinel(i int) string {
	return fmt.Sprintf("<<PROTECTED_LABEL_%d>>", i)
}

// Anonymize replaces recognized personal-name spans with a neutral
// word. Idempotent: the replacement word is never itself recognized.
func Anonymize(text string, rec Recognizer) string {
	if rec == nil {
		return text
	}

	for i, label := range protectedLabels {
		text = strings.ReplaceAll(text, label, sentinel(i))
	}

	spans := rec.FindPersonSpans(text)
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	var b strings.Builder
	last := 0
	for _, span := range spans {
		if span.Start < last || span.End > len(text) || span.Start >= span.End {
			continue
		}
		b.WriteString(text[last:span.Start])
		b.WriteString(anonymousName)
		last = span.End
	}
	b.WriteString(text[last:])
	text = b.String()

	for i, label := range protectedLabels {
		text = strings.ReplaceAll(text, sentinel(i), label)
	}

	return text
}

// HeuristicRecognizer is a lightweight stand-in for a real NER
// collaborator: it matches honorific-prefixed names and a small set
// of common given names with an optional capitalized surname.
type HeuristicRecognizer struct{}

var personPattern = regexp.MustCompile(
	`\b(?:(?:Mr|Mrs|Ms|Dr)\.\s+[A-Z][a-z]+` +
		`|(?:Sarah|John|Mary|David|Emma|Michael|Lisa|James|Anna|Robert|Maria|Alice|Priya|Ahmed|Sofia|Carlos|Elena|Raj|Mei|Omar)(?:\s+[A-Z][a-z]+)?)\b`,
)

// FindPersonSpans returns spans of likely personal names.
func (HeuristicRecognizer) FindPersonSpans(text string) []Span {
	matches := personPattern.FindAllStringIndex(text, -1)
	spans := make([]Span, 0, len(matches))
	for _, m := range matches {
		spans = append(spans, Span{Start: m[0], End: m[1]})
	}
	return spans
}
