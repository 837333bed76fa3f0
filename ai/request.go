package ai

import (
	"strings"
	"time"
)

// Agent names registered by every provider.
const (
	WriterAgent   = "writer"
	ReviewerAgent = "reviewer"
)

// Response statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Writer parameters.
const (
	ParamInstructions = "instructions"
	ParamStyle        = "style"
	ParamTargetLength = "target_length"
	ParamCriteria     = "criteria" // comma separated, reviewer only
)

// WriterStyles maps writer style names to their instruction text.
var WriterStyles = map[string]string{
	"creative":  "Rewrite this content in a creative and engaging style, adding vivid descriptions and emotional depth.",
	"academic":  "Rewrite this content in an academic style with formal language and analytical approach.",
	"casual":    "Rewrite this content in a casual, conversational style that's easy to read and understand.",
	"poetic":    "Rewrite this content in a poetic style with rhythmic language and metaphorical expressions.",
	"technical": "Rewrite this content in a technical style with precise language and detailed explanations.",
}

// TargetLengths maps target length names to their instruction text.
var TargetLengths = map[string]string{
	"shorter": "Make the content more concise while preserving key information.",
	"longer":  "Expand the content with additional details and examples.",
	"similar": "Maintain similar length while improving quality and style.",
}

// ReviewCriteria maps review criteria to their instruction text.
var ReviewCriteria = map[string]string{
	"grammar":      "Check for grammatical errors, punctuation, and sentence structure.",
	"style":        "Evaluate writing style, tone, and consistency.",
	"clarity":      "Assess clarity, readability, and logical flow.",
	"engagement":   "Evaluate how engaging and compelling the content is.",
	"accuracy":     "Check factual accuracy and consistency with the original.",
	"creativity":   "Assess originality and creative elements.",
	"completeness": "Check if all important information is included.",
}

// DefaultReviewCriteria is used when a request names no criteria.
var DefaultReviewCriteria = []string{"grammar", "style", "clarity", "engagement"}

// Request is the input to an agent.
type Request struct {
	// Content is the text to process or review.
	Content string

	// Original is the text Content was derived from, if any. Reviewers
	// compare against it.
	Original string

	// Parameters holds agent specific options, see the Param constants.
	Parameters map[string]string
}

// Param returns a parameter value, or def when unset or blank.
func (r Request) Param(name, def string) string {
	if v := strings.TrimSpace(r.Parameters[name]); v != "" {
		return v
	}
	return def
}

// Criteria returns the requested review criteria, or DefaultReviewCriteria.
func (r Request) Criteria() []string {
	raw := r.Param(ParamCriteria, "")
	if raw == "" {
		return DefaultReviewCriteria
	}
	var out []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return DefaultReviewCriteria
	}
	return out
}

// Response is the output of an agent.
type Response struct {
	Status      string
	Result      string  // Processed text, or a JSON document for reviews
	Feedback    string  // Explanation of changes or overall assessment
	Confidence  float64 // 0.0 - 1.0
	AgentName   string
	ModelName   string
	ProcessedAt time.Time
}
