package storage

import (
	"testing"
	"time"

	"github.com/poiesic/vestige/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalDigest(t *testing.T) {
	digest := core.DigestFromContent("test content")

	data := MarshalDigest(digest)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalDigest(data)
	require.NoError(t, err)
	assert.Equal(t, digest, decoded)
}

func TestMarshalUnmarshalDocument(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name string
		doc  *core.Document
	}{
		{
			name: "minimal document",
			doc: &core.Document{
				Digest:    core.DigestFromContent("Hello"),
				Body:      "Hello",
				Timestamp: now,
				Version:   1,
			},
		},
		{
			name: "document with metadata",
			doc: &core.Document{
				Digest:    core.DigestFromContent("The morning gate opens"),
				URL:       "https://example.com/gate",
				Title:     "Gate",
				Body:      "The morning gate opens",
				Metadata:  map[string]string{"type": "processed", "agent": "writer", "parent_version": "abc"},
				Timestamp: now,
				Version:   7,
			},
		},
		{
			name: "unicode body",
			doc: &core.Document{
				Digest:    core.DigestFromContent("Hello 世界 🌍 émojis"),
				Body:      "Hello 世界 🌍 émojis",
				Timestamp: now,
				Version:   2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalDocument(tt.doc)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalDocument(data)
			require.NoError(t, err)
			require.NotNil(t, decoded)

			assert.Equal(t, tt.doc.Digest, decoded.Digest)
			assert.Equal(t, tt.doc.URL, decoded.URL)
			assert.Equal(t, tt.doc.Title, decoded.Title)
			assert.Equal(t, tt.doc.Body, decoded.Body)
			assert.Equal(t, tt.doc.Version, decoded.Version)
			assert.True(t, tt.doc.Timestamp.Equal(decoded.Timestamp))
			if len(tt.doc.Metadata) == 0 {
				assert.Empty(t, decoded.Metadata)
			} else {
				assert.Equal(t, tt.doc.Metadata, decoded.Metadata)
			}
		})
	}
}

func TestMarshalDocument_DeterministicMetadataOrder(t *testing.T) {
	doc := &core.Document{
		Digest:   "d",
		Metadata: map[string]string{"a": "1", "b": "2", "c": "3", "d": "4", "e": "5"},
	}
	first := MarshalDocument(doc)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, MarshalDocument(doc))
	}
}

func TestUnmarshalDocument_Invalid(t *testing.T) {
	full := MarshalDocument(&core.Document{
		Digest:  core.DigestFromContent("body"),
		Title:   "title",
		Body:    "body",
		Version: 1,
	})

	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated data", full[:len(full)/2]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalDocument(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestMarshalUnmarshalOutput(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	output := &core.Output{
		ID:        42,
		Digest:    core.DigestFromContent("source"),
		Type:      "reviewer",
		Content:   `{"status":"success"}`,
		Metadata:  map[string]string{"confidence": "0.8"},
		Timestamp: now,
	}

	data := MarshalOutput(output)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalOutput(data)
	require.NoError(t, err)
	assert.Equal(t, output.ID, decoded.ID)
	assert.Equal(t, output.Digest, decoded.Digest)
	assert.Equal(t, output.Type, decoded.Type)
	assert.Equal(t, output.Content, decoded.Content)
	assert.Equal(t, output.Metadata, decoded.Metadata)
	assert.True(t, output.Timestamp.Equal(decoded.Timestamp))
}

func TestUnmarshalOutput_Invalid(t *testing.T) {
	_, err := UnmarshalOutput([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
