package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	assert.Equal(t, "qwen2.5:3b", cfg.Model)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, 0.7, cfg.Temperature)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithHost("http://custom:8080/v1"),
			WithModel("gpt-4o-mini"),
			WithAPIKey("secret"),
			WithTemperature(0.2),
		)

		assert.Equal(t, "http://custom:8080/v1", cfg.Host)
		assert.Equal(t, "gpt-4o-mini", cfg.Model)
		assert.Equal(t, "secret", cfg.APIKey)
		assert.Equal(t, 0.2, cfg.Temperature)
	})
}

func TestConfig_Normalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{name: "adds suffix", host: "http://localhost:11434", want: "http://localhost:11434/v1"},
		{name: "trims trailing slash", host: "http://localhost:11434/", want: "http://localhost:11434/v1"},
		{name: "keeps suffix", host: "http://localhost:11434/v1", want: "http://localhost:11434/v1"},
		{name: "leaves empty", host: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Host: tt.host}
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.Host)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid default", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	t.Run("normalizes host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://example:9000"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://example:9000/v1", cfg.Host)
	})

	tests := []struct {
		name string
		opts []ConfigOption
		msg  string
	}{
		{name: "missing host", opts: []ConfigOption{WithHost("")}, msg: "Host is required"},
		{name: "missing model", opts: []ConfigOption{WithModel("")}, msg: "Model is required"},
		{name: "negative temperature", opts: []ConfigOption{WithTemperature(-0.1)}, msg: "Temperature"},
		{name: "temperature too high", opts: []ConfigOption{WithTemperature(2.5)}, msg: "Temperature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfig(tt.opts...).Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestRequest_Param(t *testing.T) {
	req := Request{Parameters: map[string]string{ParamStyle: " casual ", ParamTargetLength: "  "}}

	assert.Equal(t, "casual", req.Param(ParamStyle, "creative"))
	assert.Equal(t, "similar", req.Param(ParamTargetLength, "similar"))
	assert.Equal(t, "x", Request{}.Param(ParamInstructions, "x"))
}

func TestRequest_Criteria(t *testing.T) {
	assert.Equal(t, DefaultReviewCriteria, Request{}.Criteria())
	assert.Equal(t, DefaultReviewCriteria, Request{Parameters: map[string]string{ParamCriteria: " , "}}.Criteria())

	req := Request{Parameters: map[string]string{ParamCriteria: "Grammar, accuracy"}}
	assert.Equal(t, []string{"grammar", "accuracy"}, req.Criteria())
}
