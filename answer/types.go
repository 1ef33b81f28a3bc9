// Package answer converts free-form generated text into the rigid
// four-section coaching answer and applies the cleanup transforms
// that make the output presentable and measurable.
package answer

import "strings"

// Section identifies one of the four canonical answer sections.
type Section int

const (
	// SectionStrategy is the coaching strategy/explanation section.
	SectionStrategy Section = iota
	// SectionStory is the illustrative story/analogy section.
	SectionStory
	// SectionReflection is the reflection prompts section.
	SectionReflection
	// SectionReferences is the concept/tool reference list.
	SectionReferences

	sectionCount
)

// Canonical headers in canonical order. The parser recognizes these
// with or without surrounding emphasis markers; the renderer always
// emits them bold.
var sectionHeaders = [sectionCount]string{
	SectionStrategy:   "Strategy or Explanation",
	SectionStory:      "Story or Analogy",
	SectionReflection: "Reflection Prompts",
	SectionReferences: "Concept/Tool References",
}

// Header returns the canonical header text for the section.
func (s Section) Header() string {
	if s < 0 || s >= sectionCount {
		return ""
	}
	return sectionHeaders[s]
}

// Sections returns all canonical sections in canonical order.
func Sections() []Section {
	return []Section{SectionStrategy, SectionStory, SectionReflection, SectionReferences}
}

// Placeholder marks a section the upstream generation failed to produce.
const Placeholder = "_[This section was not generated — please revise your prompt or add logic to fill this in.]_"

// Section-specific fallbacks. Reflection gets generic prompts and the
// story section gets a generic narrative so the answer still reads as
// coaching rather than as an error report.
const (
	reflectionFallback = "1. What assumptions are you making about this decision? 2. How would this choice look to you in five years? 3. What would you advise a friend facing the same situation?"
	storyFallback      = "Picture someone at a similar crossroads: they listed their options, weighed the tradeoffs that mattered most, and committed to a choice they could stand behind. Your situation deserves the same deliberate walkthrough."
)

func fallbackFor(s Section) string {
	switch s {
	case SectionReflection:
		return reflectionFallback
	case SectionStory:
		return storyFallback
	default:
		return Placeholder
	}
}

// StructuredAnswer holds the body text of all four canonical sections.
// Every section is guaranteed non-empty after parsing.
type StructuredAnswer struct {
	bodies [sectionCount]string
}

// Body returns the text of a section.
func (a StructuredAnswer) Body(s Section) string {
	if s < 0 || s >= sectionCount {
		return ""
	}
	return a.bodies[s]
}

// WithBody returns a copy with the given section body replaced.
func (a StructuredAnswer) WithBody(s Section, body string) StructuredAnswer {
	if s >= 0 && s < sectionCount {
		a.bodies[s] = body
	}
	return a
}

// Render produces the canonical markdown form: each section as a bold
// header line followed by its body, in canonical order.
func (a StructuredAnswer) Render() string {
	var b strings.Builder
	for _, s := range Sections() {
		b.WriteString("**")
		b.WriteString(s.Header())
		b.WriteString("**\n")
		b.WriteString(a.bodies[s])
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}
