// Section parser: a small finite-state scanner that turns free-form
// generated text into the four canonical sections.
//
// Information Hiding:
// - Header matching tolerance (emphasis markers) hidden
// - Fallback policy per section hidden

package answer

import "strings"

// parseState carries the scanner state between lines: the active
// section, if any, and the accumulated bodies.
type parseState struct {
	active    Section
	hasActive bool
	bodies    [sectionCount][]string
}

// Parse scans raw text line by line and produces a StructuredAnswer.
// Lines before the first recognized header are discarded. A section
// whose buffer ends up empty, or holds only the "not generated"
// placeholder, is replaced with its fallback, so all four sections
// are always non-empty regardless of input.
func Parse(raw string) StructuredAnswer {
	state := parseState{}
	for _, line := range strings.Split(raw, "\n") {
		state = reduce(state, line)
	}

	var result StructuredAnswer
	for _, s := range Sections() {
		body := strings.TrimSpace(strings.Join(state.bodies[s], " "))
		if body == "" || body == Placeholder {
			body = fallbackFor(s)
		}
		result.bodies[s] = body
	}
	return result
}

// reduce is the pure per-line transition function.
func reduce(state parseState, line string) parseState {
	trimmed := strings.TrimSpace(line)

	if section, ok := matchHeader(trimmed); ok {
		state.active = section
		state.hasActive = true
		return state
	}

	if !state.hasActive || trimmed == "" {
		return state
	}

	state.bodies[state.active] = append(state.bodies[state.active], trimmed)
	return state
}

// matchHeader reports whether a line is a canonical section header,
// tolerating surrounding emphasis markers.
func matchHeader(line string) (Section, bool) {
	stripped := strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
	for _, s := range Sections() {
		if stripped == s.Header() {
			return s, true
		}
	}
	return 0, false
}
