package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/vestige/ai"
)

const writerPromptTemplate = `You are an expert content writer. Your task is to process the following content.
%s
Style: %s
Length: %s

Original content:
%s

Process this content according to the specified instructions, style, and length requirements.
Maintain the core meaning and key information while improving the writing quality.

Output ONLY valid JSON. Do not include any preamble, explanation, greeting, or acknowledgment.
Start your response directly with the opening brace { and end with the closing brace }:
{
  "status": "success",
  "result": "processed content",
  "feedback": "brief explanation of changes made",
  "confidence": 0.0-1.0
}`

const reviewPromptTemplate = `You are an expert content reviewer. Your task is to review the following content.

Review criteria:
%s

Content to review:
%s

Original content (for comparison):
%s

Provide a comprehensive review covering all specified criteria. Scores range from 0.0 to 1.0.

Output ONLY valid JSON. Do not include any preamble, explanation, greeting, or acknowledgment.
Start your response directly with the opening brace { and end with the closing brace }:
{
  "status": "success",
  "result": {
    "overall_score": 0.0-1.0,
    "criteria_scores": {%s},
    "strengths": ["list of strengths"],
    "weaknesses": ["list of areas for improvement"],
    "suggestions": ["specific suggestions for improvement"]
  },
  "feedback": "overall assessment",
  "confidence": 0.0-1.0
}`

// buildWriterPrompt fills the writer template. Unknown styles fall back to
// creative and unknown lengths to similar.
func buildWriterPrompt(content, style, length, instructions string) string {
	styleText, ok := ai.WriterStyles[style]
	if !ok {
		styleText = ai.WriterStyles["creative"]
	}
	lengthText, ok := ai.TargetLengths[length]
	if !ok {
		lengthText = ai.TargetLengths["similar"]
	}
	if instructions != "" {
		instructions = "\n" + instructions + "\n"
	}
	return fmt.Sprintf(writerPromptTemplate, instructions, styleText, lengthText, content)
}

// buildReviewPrompt fills the reviewer template. Unknown criteria are
// passed through by name.
func buildReviewPrompt(content, original string, criteria []string) string {
	lines := make([]string, len(criteria))
	scores := make([]string, len(criteria))
	for i, c := range criteria {
		desc, ok := ai.ReviewCriteria[c]
		if !ok {
			desc = c
		}
		lines[i] = "- " + desc
		scores[i] = fmt.Sprintf("%q: 0.0-1.0", c)
	}
	return fmt.Sprintf(reviewPromptTemplate,
		strings.Join(lines, "\n"),
		content,
		original,
		strings.Join(scores, ", "))
}
