// Package frameworks holds the compiled-in catalog of decision-making
// frameworks, tools, and cognitive biases that the answer pipeline
// recognizes. The catalog doubles as the zero-cost tier of tooltip
// resolution and as the match list for highlighting and validation.
package frameworks

import (
	"sort"
	"strings"
)

// Catalog maps lowercased concept names to one-line definitions.
var Catalog = map[string]string{
	"decision tree":            "A visual tool that maps out different options and their potential outcomes to help make confident choices when faced with uncertainty.",
	"swot analysis":            "A framework that helps identify strengths, weaknesses, opportunities, and threats to assess your situation comprehensively.",
	"cost-benefit analysis":    "A systematic approach to compare the pros and cons of different options by weighing their advantages and disadvantages.",
	"expected utility":         "A method for calculating the value of different scenarios when dealing with uncertainty and multiple possible outcomes.",
	"ooda loop":                "A decision cycle (Observe, Orient, Decide, Act) that helps you stay agile and responsive in fast-changing situations.",
	"bounded rationality":      "The recognition that good decisions don't require perfect information when time or information is limited.",
	"prospect theory":          "Shows how people often value avoiding losses more than achieving gains when evaluating options.",
	"anchoring bias":           "The tendency to rely too heavily on the first piece of information when making decisions.",
	"confirmation bias":        "The tendency to seek out information that confirms existing beliefs while ignoring contradictory evidence.",
	"status quo bias":          "The preference to keep things as they are rather than making changes, even when change might be beneficial.",
	"sunk cost fallacy":        "The tendency to continue investing in a decision based on past investments rather than future benefits.",
	"framing effect":           "How the way information is presented influences decision-making, even when the underlying facts are the same.",
	"endowment effect":         "The tendency to value something more highly simply because you own it.",
	"escalation of commitment": "The tendency to continue investing in a failing course of action to justify previous investments.",
	"satisficing":              "Choosing an option that is good enough rather than searching for the optimal solution.",
	"utility theory":           "A framework for measuring the satisfaction or value derived from different outcomes and choices.",
	"premortem":                "Imagining that a decision has already failed and working backward to identify what could cause that failure.",
	"weighted scoring":         "Ranking options by scoring them against criteria that are weighted by how much each criterion matters.",
	"grow model":               "A coaching structure (Goal, Reality, Options, Will) for moving from a desired outcome to a committed action.",
	"second-order thinking":    "Considering the consequences of the consequences, not just the immediate effects of a choice.",
}

// Definition returns the canonical definition for a concept, matched
// case-insensitively. The second return reports whether the concept
// is in the catalog.
func Definition(concept string) (string, bool) {
	def, ok := Catalog[strings.ToLower(concept)]
	return def, ok
}

// Names returns all catalog concept names sorted longest-first.
// Longest-first ordering prevents partial-substring collisions when
// matching compound names (e.g. "cost-benefit analysis" before "analysis").
func Names() []string {
	names := make([]string, 0, len(Catalog))
	for name := range Catalog {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

// DisplayName title-cases a concept name for presentation.
// Lookups stay case-insensitive; only rendering uses this form.
func DisplayName(concept string) string {
	words := strings.Fields(concept)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}
