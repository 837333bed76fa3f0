package badger

import (
	"context"
	"testing"

	"github.com/poiesic/vestige/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOutput(t *testing.T) {
	_, outputRepo := newTestRepos(t)
	ctx := context.Background()

	digest := core.DigestFromContent("source")
	stored, err := outputRepo.AddOutput(ctx, &core.Output{
		Digest:   digest,
		Type:     "writer",
		Content:  "rewritten source",
		Metadata: map[string]string{"style": "poetic"},
	})
	require.NoError(t, err)
	assert.NotZero(t, stored.ID)
	assert.False(t, stored.Timestamp.IsZero())

	outputs, err := outputRepo.GetOutputs(ctx, digest)
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, stored.ID, outputs[0].ID)
	assert.Equal(t, "writer", outputs[0].Type)
	assert.Equal(t, "poetic", outputs[0].Metadata["style"])
}

func TestAddOutput_Invalid(t *testing.T) {
	_, outputRepo := newTestRepos(t)

	_, err := outputRepo.AddOutput(context.Background(), &core.Output{Type: "writer", Content: "x"})
	assert.ErrorIs(t, err, core.ErrInvalidOutput)
}

func TestGetOutputs_NewestFirstAndScopedToDigest(t *testing.T) {
	_, outputRepo := newTestRepos(t)
	ctx := context.Background()

	a := core.DigestFromContent("a")
	b := core.DigestFromContent("b")

	for _, typ := range []string{"writer", "reviewer", "human"} {
		_, err := outputRepo.AddOutput(ctx, &core.Output{Digest: a, Type: typ, Content: typ + " output"})
		require.NoError(t, err)
	}
	_, err := outputRepo.AddOutput(ctx, &core.Output{Digest: b, Type: "writer", Content: "other"})
	require.NoError(t, err)

	outputs, err := outputRepo.GetOutputs(ctx, a)
	require.NoError(t, err)
	require.Len(t, outputs, 3)
	assert.Equal(t, "human", outputs[0].Type)
	assert.Equal(t, "reviewer", outputs[1].Type)
	assert.Equal(t, "writer", outputs[2].Type)

	none, err := outputRepo.GetOutputs(ctx, core.DigestFromContent("c"))
	require.NoError(t, err)
	assert.Empty(t, none)
}
