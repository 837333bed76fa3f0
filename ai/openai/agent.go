package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/vestige/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

const maxParseAttempts = 3

var errNoChoices = errors.New("model returned no choices")

// envelope is the JSON object both agents are asked to reply with.
// Result is a string for the writer and an object for the reviewer.
type envelope struct {
	Status     string          `json:"status"`
	Result     json.RawMessage `json:"result"`
	Feedback   string          `json:"feedback"`
	Confidence *float64        `json:"confidence"`
}

// chatAgent holds what the writer and reviewer share: the client, the
// generation loop and response metadata.
type chatAgent struct {
	name        string
	model       string
	temperature float64
	client      llms.Model
	logger      *slog.Logger

	// decode turns an envelope result into Response.Result text.
	decode func(json.RawMessage) (string, bool)

	// fallback builds a response from raw model output that never parsed.
	fallback func(raw string) *ai.Response
}

func (a *chatAgent) Name() string {
	return a.name
}

// run sends prompt to the model and parses its reply, retrying generation
// when the reply is not a usable envelope.
func (a *chatAgent) run(ctx context.Context, prompt string) (*ai.Response, error) {
	content := []llms.MessageContent{
		{
			Role: schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	var raw string
	var lastErr error
	for attempt := 0; attempt < maxParseAttempts; attempt++ {
		response, err := a.client.GenerateContent(ctx, content, llms.WithTemperature(a.temperature), llms.WithJSONMode())
		if err != nil {
			a.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, fmt.Errorf("%s agent: %w", a.name, err)
		}
		if len(response.Choices) < 1 {
			return nil, fmt.Errorf("%s agent: %w", a.name, errNoChoices)
		}

		raw = response.Choices[0].Content
		resp, err := a.parse(raw)
		if err == nil {
			return a.stamp(resp), nil
		}
		lastErr = err
		a.logger.Warn("error parsing agent response",
			"attempt", attempt+1,
			"response", raw,
			"err", err)
	}

	a.logger.Warn("falling back to raw agent response", "err", lastErr)
	return a.stamp(a.fallback(raw)), nil
}

func (a *chatAgent) parse(raw string) (*ai.Response, error) {
	text := extractJSONObject(stripFences(raw))
	if text == "" {
		return nil, errors.New("no JSON object in response")
	}

	var env envelope
	if err := json.Unmarshal([]byte(repairJSON(text)), &env); err != nil {
		return nil, err
	}
	result, ok := a.decode(env.Result)
	if !ok {
		return nil, errors.New("response result missing or malformed")
	}

	status := strings.ToLower(strings.TrimSpace(env.Status))
	if status == "" {
		status = ai.StatusSuccess
	}
	confidence := 0.8
	if env.Confidence != nil {
		confidence = clampConfidence(*env.Confidence)
	}
	return &ai.Response{
		Status:     status,
		Result:     result,
		Feedback:   env.Feedback,
		Confidence: confidence,
	}, nil
}

func (a *chatAgent) stamp(resp *ai.Response) *ai.Response {
	resp.AgentName = a.name
	resp.ModelName = a.model
	resp.ProcessedAt = time.Now().UTC()
	return resp
}
