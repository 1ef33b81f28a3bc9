// Quality validation: structural and stylistic checks over the final
// rendered answer. Validation never blocks output — a coaching answer
// is better delivered imperfect than withheld — so every check runs
// and accumulates issues.

package answer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/richinex/mentor/frameworks"
)

// QualityReport is the outcome of validation: a validity flag and the
// itemized issues behind it. Produced fresh per answer, never stored.
type QualityReport struct {
	IsValid bool
	Issues  []string
}

// Word-count bounds for a coaching answer.
const (
	minAnswerWords   = 50
	maxAnswerWords   = 800
	breakNeededWords = 500
)

// variedOpenings are the conversational openers the prompt asks for;
// at least one should survive into the final answer.
var variedOpenings = []string{
	"here's one way to frame your thinking",
	"let's think it through",
	"coach's take",
	"worth noting",
	"one way to look at this",
	"keep in mind",
}

// repetitiveOpenings are banned boilerplate openers.
var repetitiveOpenings = []string{
	"that's a great question",
	"great question",
	"it is important to note that",
	"in today's fast-paced world",
	"at the end of the day",
}

// roboticPhrases are banned filler or grammar-fragment patterns.
var roboticPhrases = []string{
	"as an ai",
	"in conclusion,",
	"firstly,",
	"it goes without saying",
	"needless to say",
	"as mentioned above",
}

var validatorBulletPattern = regexp.MustCompile(`(?m)^-\s*\*\*(.+?)\*\*:`)

// Validate runs all checks over a rendered answer and returns the
// accumulated report. No single failure is fatal.
func Validate(text string) QualityReport {
	var issues []string
	lower := strings.ToLower(text)
	words := countWords(text)

	for _, s := range Sections() {
		if !strings.Contains(text, "**"+s.Header()+"**") {
			issues = append(issues, fmt.Sprintf("missing %s section", s.Header()))
		}
	}

	if words < minAnswerWords {
		issues = append(issues, fmt.Sprintf("answer too short (%d words, minimum %d)", words, minAnswerWords))
	}
	if words > maxAnswerWords {
		issues = append(issues, fmt.Sprintf("answer too long (%d words, maximum %d)", words, maxAnswerWords))
	}

	if !containsAnyConcept(text) {
		issues = append(issues, "no recognized decision framework mentioned")
	}

	if !containsAny(lower, variedOpenings) {
		issues = append(issues, "no varied-style opening phrase present")
	}

	for _, phrase := range repetitiveOpenings {
		if strings.Contains(lower, phrase) {
			issues = append(issues, fmt.Sprintf("contains repetitive opening %q", phrase))
		}
	}

	for _, phrase := range roboticPhrases {
		if strings.Contains(lower, phrase) {
			issues = append(issues, fmt.Sprintf("contains robotic phrasing %q", phrase))
		}
	}

	issues = append(issues, duplicateReferenceIssues(text)...)

	if words > breakNeededWords && !breakPattern.MatchString(text) {
		issues = append(issues, "missing readability break in long answer")
	}

	return QualityReport{IsValid: len(issues) == 0, Issues: issues}
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func containsAnyConcept(text string) bool {
	for _, cp := range conceptPatterns {
		if cp.re.MatchString(text) {
			return true
		}
	}
	return false
}

// duplicateReferenceIssues reports tooltip names that appear more
// than once in the reference section.
func duplicateReferenceIssues(text string) []string {
	header := "**" + SectionReferences.Header() + "**"
	idx := strings.Index(text, header)
	if idx < 0 {
		return nil
	}

	seen := make(map[string]bool)
	reported := make(map[string]bool)
	var issues []string
	for _, m := range validatorBulletPattern.FindAllStringSubmatch(text[idx:], -1) {
		name := frameworks.DisplayName(m[1])
		if seen[name] && !reported[name] {
			issues = append(issues, fmt.Sprintf("duplicate tooltip entry %q", name))
			reported[name] = true
		}
		seen[name] = true
	}
	return issues
}
