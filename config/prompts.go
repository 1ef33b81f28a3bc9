// Prompt templates for answer synthesis and tooltip generation.

package config

import (
	"fmt"
	"strings"
)

// baseInstruction mandates the four-section structure every answer
// must follow. The section parser depends on these exact headers.
const baseInstruction = `You are a decision-coaching assistant that helps students deeply understand decision-making concepts in practice. Structure every answer in four parts, each introduced by its header on its own line:

Strategy or Explanation
Introduce a way of thinking about the decision that reflects the student's context. Selectively incorporate goal clarity, analytical tools, and human dynamics or bias - only the ones that naturally apply. Phrase this part warmly and conversationally. When introducing tools or frameworks, frame them in terms of the student's situation first, then explain how the tool helps.

Story or Analogy
Include a brief, vivid example - real or realistic - showing how someone navigated a similar issue using this strategy.

Reflection Prompts
Add 2-3 reflection prompts for further thinking. These should help the student challenge assumptions, explore consequences, or reconsider perspective.

Concept/Tool References
List each named framework or tool you used, one per line, as "- Name: short definition".`

// tooltipTemplate asks for a compact student-friendly definition.
const tooltipTemplate = `Given this context about %s in decision-making, provide a clear explanation in student-friendly terms. Keep it under 50 words and end with a period.

Context: %s

%s:`

// AnswerPrompt builds the full synthesis prompt from the personalized
// instruction, the assembled context, and the question.
func AnswerPrompt(profile Profile, context, question string) string {
	personalization := fmt.Sprintf(
		"Your role: %s. Tone: %s. Thinking style: %s.",
		profile.Role, profile.Tone, profile.ThinkingStyle,
	)

	var b strings.Builder
	b.WriteString(baseInstruction)
	b.WriteString("\n\n")
	b.WriteString(personalization)
	b.WriteString("\nAlways use this structure and do not skip any part.")
	b.WriteString("\n\nDocument excerpts:\n")
	b.WriteString(context)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nSynthesized Answer (use the required structure):")
	return b.String()
}

// TooltipPrompt builds the on-demand tooltip generation prompt.
// Context is truncated to 200 characters to keep the call cheap.
func TooltipPrompt(concept, context string) string {
	if len(context) > 200 {
		context = context[:200]
	}
	return fmt.Sprintf(tooltipTemplate, concept, context, concept)
}
