package answer

import (
	"strings"
	"testing"
)

// goodAnswer builds an answer that passes every check, with roughly
// the requested word count.
func goodAnswer(words int) string {
	filler := strings.Repeat("The tradeoffs here reward a slow careful look at each option in turn. ", words/12)
	text := "**Strategy or Explanation**\n" +
		"Here's one way to frame your thinking: a decision tree gives the choice a shape. " + filler + "\n\n" +
		"**Story or Analogy**\nAn engineer once mapped both offers on paper overnight.\n\n" +
		"**Reflection Prompts**\n1. What matters most to you here?\n\n" +
		"**Concept/Tool References**\n- **Decision Tree**: A visual tool for mapping options.\n"
	if countWords(text) > 500 {
		text = InsertReadabilityBreak(text)
	}
	return text
}

func TestValidatePassesGoodAnswer(t *testing.T) {
	report := Validate(goodAnswer(200))
	if !report.IsValid {
		t.Errorf("expected valid answer, issues: %v", report.Issues)
	}
}

func TestValidateMissingSection(t *testing.T) {
	text := strings.Replace(goodAnswer(200), "**Story or Analogy**", "Story or Analogy", 1)
	report := Validate(text)
	if report.IsValid {
		t.Fatal("expected invalid report")
	}
	if !hasIssueContaining(report, "missing Story or Analogy") {
		t.Errorf("expected missing-section issue, got %v", report.Issues)
	}
}

func TestValidateTooShort(t *testing.T) {
	report := Validate("**Strategy or Explanation**\nshort")
	if report.IsValid {
		t.Fatal("expected invalid report")
	}
	if !hasIssueContaining(report, "too short") {
		t.Errorf("expected too-short issue, got %v", report.Issues)
	}
}

func TestValidateLongAnswerExactIssues(t *testing.T) {
	// 900 words, no break markers: exactly the too-long and
	// missing-break issues.
	text := goodAnswer(880)
	text = strings.ReplaceAll(text, "\n"+BreakMarker+"\n", "\n")
	for countWords(text) <= 800 {
		text = strings.Replace(text, "**Story or Analogy**\n", "**Story or Analogy**\n"+strings.Repeat("More words to push the count up beyond the upper bound now. ", 20), 1)
	}

	report := Validate(text)
	if report.IsValid {
		t.Fatal("expected invalid report")
	}
	if len(report.Issues) != 2 {
		t.Fatalf("expected exactly 2 issues, got %v", report.Issues)
	}
	if !hasIssueContaining(report, "too long") {
		t.Errorf("expected too-long issue, got %v", report.Issues)
	}
	if !hasIssueContaining(report, "readability break") {
		t.Errorf("expected missing-break issue, got %v", report.Issues)
	}
}

func TestValidateBannedOpening(t *testing.T) {
	text := strings.Replace(goodAnswer(200), "Here's one way to frame your thinking:",
		"That's a great question! Here's one way to frame your thinking:", 1)
	report := Validate(text)
	if !hasIssueContaining(report, "repetitive opening") {
		t.Errorf("expected repetitive-opening issue, got %v", report.Issues)
	}
}

func TestValidateRoboticPhrasing(t *testing.T) {
	text := goodAnswer(200) + "\nIn conclusion, decide."
	report := Validate(text)
	if !hasIssueContaining(report, "robotic phrasing") {
		t.Errorf("expected robotic-phrasing issue, got %v", report.Issues)
	}
}

func TestValidateDuplicateTooltips(t *testing.T) {
	text := goodAnswer(200) + "- **Decision Tree**: another definition.\n"
	report := Validate(text)
	if !hasIssueContaining(report, "duplicate tooltip") {
		t.Errorf("expected duplicate-tooltip issue, got %v", report.Issues)
	}
}

func TestValidateNoFramework(t *testing.T) {
	text := "**Strategy or Explanation**\n" +
		"Here's one way to frame your thinking: " + strings.Repeat("think about the options slowly and carefully before choosing. ", 10) + "\n\n" +
		"**Story or Analogy**\nA story.\n\n" +
		"**Reflection Prompts**\n1. Why?\n\n" +
		"**Concept/Tool References**\nnone\n"
	report := Validate(text)
	if !hasIssueContaining(report, "no recognized decision framework") {
		t.Errorf("expected no-framework issue, got %v", report.Issues)
	}
}

func hasIssueContaining(report QualityReport, substr string) bool {
	for _, issue := range report.Issues {
		if strings.Contains(issue, substr) {
			return true
		}
	}
	return false
}
