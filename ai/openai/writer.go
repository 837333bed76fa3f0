package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/vestige/ai"
	"github.com/tmc/langchaingo/llms"
)

// Writer rewrites content in a requested style and length.
type Writer struct {
	chatAgent
}

var _ ai.Agent = (*Writer)(nil)

func newWriter(client llms.Model, config *ai.Config) *Writer {
	w := &Writer{chatAgent{
		name:        ai.WriterAgent,
		model:       config.Model,
		temperature: config.Temperature,
		client:      client,
		logger:      slog.Default().With("component", "openai-writer"),
	}}
	w.decode = decodeText
	w.fallback = func(raw string) *ai.Response {
		return &ai.Response{
			Status:     ai.StatusSuccess,
			Result:     strings.TrimSpace(raw),
			Feedback:   "Content generated (JSON parsing failed)",
			Confidence: 0.7,
		}
	}
	return w
}

// Process rewrites req.Content. Recognized parameters are style,
// target_length and instructions.
func (w *Writer) Process(ctx context.Context, req ai.Request) (*ai.Response, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ai.ErrEmptyContent
	}
	prompt := buildWriterPrompt(
		req.Content,
		req.Param(ai.ParamStyle, "creative"),
		req.Param(ai.ParamTargetLength, "similar"),
		req.Param(ai.ParamInstructions, ""),
	)
	return w.run(ctx, prompt)
}

// decodeText accepts a non-empty JSON string.
func decodeText(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
