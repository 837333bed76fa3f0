package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/vestige/ai"
)

// MockModelName is reported as the model of every mock response.
const MockModelName = "mock"

// MockAgent is a test double for ai.Agent.
// It allows custom behavior injection via function fields and is safe for
// concurrent use.
type MockAgent struct {
	// ProcessFunc is called by Process if set.
	// If nil, the writer default prefixes the content with the requested
	// style and the reviewer default returns a fixed review.
	ProcessFunc func(ctx context.Context, req ai.Request) (*ai.Response, error)

	name string

	mu       sync.Mutex
	requests []ai.Request
}

// NewMockAgent creates a mock agent with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockAgent(name string) *MockAgent {
	return &MockAgent{name: name}
}

// Name returns the agent name.
func (m *MockAgent) Name() string {
	return m.name
}

// Process records req and returns a deterministic response.
func (m *MockAgent) Process(ctx context.Context, req ai.Request) (*ai.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	fn := m.ProcessFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, ai.ErrEmptyContent
	}

	resp := &ai.Response{
		Status:      ai.StatusSuccess,
		Confidence:  0.9,
		AgentName:   m.name,
		ModelName:   MockModelName,
		ProcessedAt: time.Now().UTC(),
	}
	if m.name == ai.ReviewerAgent {
		resp.Result = `{"overall_score":0.75,"criteria_scores":{},"strengths":[],"weaknesses":[],"suggestions":[]}`
		resp.Feedback = "mock review"
		return resp, nil
	}
	resp.Result = fmt.Sprintf("[%s] %s", req.Param(ai.ParamStyle, "creative"), req.Content)
	resp.Feedback = "mock rewrite"
	return resp, nil
}

// CallCount returns the number of times Process was called.
func (m *MockAgent) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of every request received, in call order.
func (m *MockAgent) Requests() []ai.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ai.Request(nil), m.requests...)
}

// Reset clears recorded requests and custom functions.
func (m *MockAgent) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.ProcessFunc = nil
}
