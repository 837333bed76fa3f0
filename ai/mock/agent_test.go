package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/vestige/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider(t *testing.T) {
	p := NewMockProvider()
	var _ ai.Provider = p

	assert.Equal(t, []string{ai.ReviewerAgent, ai.WriterAgent}, p.Agents())
	_, ok := p.Agent("missing")
	assert.False(t, ok)

	require.NoError(t, p.Close())
	assert.True(t, p.Closed())
}

func TestMockAgent_Defaults(t *testing.T) {
	ctx := context.Background()
	p := NewMockProvider()

	w, ok := p.Agent(ai.WriterAgent)
	require.True(t, ok)
	resp, err := w.Process(ctx, ai.Request{Content: "hello", Parameters: map[string]string{ai.ParamStyle: "casual"}})
	require.NoError(t, err)
	assert.Equal(t, "[casual] hello", resp.Result)
	assert.Equal(t, ai.WriterAgent, resp.AgentName)

	r, _ := p.Agent(ai.ReviewerAgent)
	resp, err = r.Process(ctx, ai.Request{Content: "hello"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"overall_score":0.75,"criteria_scores":{},"strengths":[],"weaknesses":[],"suggestions":[]}`, resp.Result)

	_, err = w.Process(ctx, ai.Request{})
	assert.ErrorIs(t, err, ai.ErrEmptyContent)
	assert.Equal(t, 2, p.GetMockAgent(ai.WriterAgent).CallCount())
}

func TestMockAgent_ProcessFunc(t *testing.T) {
	boom := errors.New("boom")
	a := NewMockAgent(ai.WriterAgent)
	a.ProcessFunc = func(ctx context.Context, req ai.Request) (*ai.Response, error) {
		return nil, boom
	}

	_, err := a.Process(context.Background(), ai.Request{Content: "x"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "x", a.Requests()[0].Content)

	a.Reset()
	assert.Zero(t, a.CallCount())
	_, err = a.Process(context.Background(), ai.Request{Content: "x"})
	assert.NoError(t, err)
}
