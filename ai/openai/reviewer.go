package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/vestige/ai"
	"github.com/tmc/langchaingo/llms"
)

// Review is the report a Reviewer stores in Response.Result as JSON.
type Review struct {
	OverallScore   float64            `json:"overall_score"`
	CriteriaScores map[string]float64 `json:"criteria_scores"`
	Strengths      []string           `json:"strengths"`
	Weaknesses     []string           `json:"weaknesses"`
	Suggestions    []string           `json:"suggestions"`
}

// ParseReview decodes the Result of a reviewer response.
func ParseReview(result string) (*Review, error) {
	var r Review
	if err := json.Unmarshal([]byte(result), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Reviewer scores content against review criteria.
type Reviewer struct {
	chatAgent
}

var _ ai.Agent = (*Reviewer)(nil)

func newReviewer(client llms.Model, config *ai.Config) *Reviewer {
	r := &Reviewer{chatAgent{
		name:        ai.ReviewerAgent,
		model:       config.Model,
		temperature: config.Temperature,
		client:      client,
		logger:      slog.Default().With("component", "openai-reviewer"),
	}}
	r.decode = decodeObject
	r.fallback = func(string) *ai.Response {
		return &ai.Response{
			Status:     ai.StatusSuccess,
			Result:     fallbackReview(),
			Feedback:   "Content reviewed (JSON parsing failed)",
			Confidence: 0.6,
		}
	}
	return r
}

// Process reviews req.Content, comparing against req.Original when set.
// The criteria parameter is a comma separated list of review criteria.
func (r *Reviewer) Process(ctx context.Context, req ai.Request) (*ai.Response, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ai.ErrEmptyContent
	}
	return r.run(ctx, buildReviewPrompt(req.Content, req.Original, req.Criteria()))
}

// decodeObject accepts a JSON object and returns it compacted.
func decodeObject(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return "", false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", false
	}
	return buf.String(), true
}

func fallbackReview() string {
	data, _ := json.Marshal(Review{
		OverallScore: 0.7,
		CriteriaScores: map[string]float64{
			"grammar":    0.7,
			"style":      0.7,
			"clarity":    0.7,
			"engagement": 0.7,
		},
		Strengths:   []string{"Content reviewed successfully"},
		Weaknesses:  []string{"Unable to parse detailed feedback"},
		Suggestions: []string{"Review completed"},
	})
	return string(data)
}
