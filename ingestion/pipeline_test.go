package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/poiesic/vestige/ai"
	"github.com/poiesic/vestige/ai/mock"
	"github.com/poiesic/vestige/core"
	"github.com/poiesic/vestige/metrics"
	"github.com/poiesic/vestige/storage"
	"github.com/poiesic/vestige/storage/badger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingDocuments wraps a repository and fails stores of one body.
type failingDocuments struct {
	storage.DocumentRepository
	failBody string
}

func (f *failingDocuments) StoreDocument(ctx context.Context, url, body, title string, metadata map[string]string) (*core.Document, error) {
	if body == f.failBody {
		return nil, storage.ErrStorageFailure
	}
	return f.DocumentRepository.StoreDocument(ctx, url, body, title, metadata)
}

func setupTestRepositories(t *testing.T) (storage.DocumentRepository, storage.OutputRepository) {
	docs, outputs, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		outputs.Close()
		docs.Close()
		backend.Close()
	})
	return docs, outputs
}

func newTestPipeline(t *testing.T, opts ...Option) (*Pipeline, storage.DocumentRepository, storage.OutputRepository, *mock.MockProvider) {
	docs, outputs := setupTestRepositories(t)
	provider := mock.NewMockProvider()
	p, err := NewPipeline(docs, outputs, provider, append([]Option{WithPoolSize(4)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p, docs, outputs, provider
}

func TestNewPipeline_Validation(t *testing.T) {
	docs, outputs := setupTestRepositories(t)
	provider := mock.NewMockProvider()

	_, err := NewPipeline(nil, outputs, provider)
	assert.ErrorIs(t, err, ErrDocumentRepositoryRequired)

	_, err = NewPipeline(docs, nil, provider)
	assert.ErrorIs(t, err, ErrOutputRepositoryRequired)

	_, err = NewPipeline(docs, outputs, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)

	boom := errors.New("bad option")
	_, err = NewPipeline(docs, outputs, provider, func(*Pipeline) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestPipeline_Ingest(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	p, docs, _, _ := newTestPipeline(t, WithMetrics(metrics.New(reg)))

	items := make([]Item, 10)
	for i := range items {
		items[i] = Item{
			URL:   fmt.Sprintf("https://example.com/%d", i),
			Title: fmt.Sprintf("Chapter %d", i),
			Body:  fmt.Sprintf("Body of chapter %d", i),
		}
	}

	digests, err := p.Ingest(ctx, items...)
	require.NoError(t, err)
	require.Len(t, digests, len(items))

	for i, d := range digests {
		assert.Equal(t, core.DigestFromContent(items[i].Body), d, "digest order follows input")
		doc, err := docs.GetDocument(ctx, d)
		require.NoError(t, err)
		assert.Equal(t, items[i].Title, doc.Title)
	}

	count, err := docs.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, count)

	expected := `
# HELP vestige_documents_stored_total Documents stored, by whether the body was new
# TYPE vestige_documents_stored_total counter
vestige_documents_stored_total{outcome="created"} 10
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "vestige_documents_stored_total"))
}

func TestPipeline_Ingest_PartialFailure(t *testing.T) {
	ctx := context.Background()
	docs, outputs := setupTestRepositories(t)
	p, err := NewPipeline(&failingDocuments{DocumentRepository: docs, failBody: "bad"}, outputs, mock.NewMockProvider())
	require.NoError(t, err)
	defer p.Release()

	digests, err := p.Ingest(ctx, Item{Body: "good one"}, Item{Body: "bad"}, Item{Body: "good two"})
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrStorageFailure)
	assert.Contains(t, err.Error(), "item 1")

	assert.Equal(t, core.DigestFromContent("good one"), digests[0])
	assert.Empty(t, digests[1])
	assert.Equal(t, core.DigestFromContent("good two"), digests[2])
}

func TestPipeline_Ingest_Resubmission(t *testing.T) {
	ctx := context.Background()
	p, docs, _, _ := newTestPipeline(t)

	digests, err := p.Ingest(ctx, Item{Body: "same"}, Item{Body: "same"}, Item{Body: "same"})
	require.NoError(t, err)
	assert.Equal(t, digests[0], digests[1])
	assert.Equal(t, digests[1], digests[2])

	doc, err := docs.GetDocument(ctx, digests[0])
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Version)
}

func TestPipeline_Process(t *testing.T) {
	ctx := context.Background()
	p, docs, outputs, provider := newTestPipeline(t)

	source, err := docs.StoreDocument(ctx, "https://example.com/a", "The gate opened at dawn.", "Gate", nil)
	require.NoError(t, err)

	got, err := p.Process(ctx, source.Digest, ai.WriterAgent, map[string]string{ai.ParamStyle: "poetic"})
	require.NoError(t, err)

	assert.Equal(t, "[poetic] The gate opened at dawn.", got.Response.Result)

	// Output attached to the source document
	assert.Equal(t, source.Digest, got.Output.Digest)
	assert.Equal(t, ai.WriterAgent, got.Output.Type)
	stored, err := outputs.GetOutputs(ctx, source.Digest)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, got.Response.Result, stored[0].Content)

	// Processed text stored as a new version
	processed := got.Document
	assert.Equal(t, core.DigestFromContent(got.Response.Result), processed.Digest)
	assert.Equal(t, 1, processed.Version)
	assert.Equal(t, source.URL, processed.URL)
	assert.Equal(t, core.TypeProcessed, processed.Metadata[core.MetaType])
	assert.Equal(t, ai.WriterAgent, processed.Metadata[core.MetaAgent])
	assert.Equal(t, source.Digest.String(), processed.Metadata[core.MetaParentVersion])
	assert.Equal(t, "poetic", processed.Metadata[core.MetaParamPrefix+ai.ParamStyle])

	// Reviewing the processed version compares against its parent
	_, err = p.Process(ctx, processed.Digest, ai.ReviewerAgent, nil)
	require.NoError(t, err)
	reqs := provider.GetMockAgent(ai.ReviewerAgent).Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, source.Body, reqs[0].Original)
}

func TestPipeline_Process_Errors(t *testing.T) {
	ctx := context.Background()
	p, docs, outputs, provider := newTestPipeline(t)

	source, err := docs.StoreDocument(ctx, "", "some body", "", nil)
	require.NoError(t, err)

	t.Run("unknown agent", func(t *testing.T) {
		_, err := p.Process(ctx, source.Digest, "translator", nil)
		assert.ErrorIs(t, err, ai.ErrUnknownAgent)
	})

	t.Run("unknown document", func(t *testing.T) {
		_, err := p.Process(ctx, core.DigestFromContent("missing"), ai.WriterAgent, nil)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("agent error", func(t *testing.T) {
		boom := errors.New("model offline")
		writer := provider.GetMockAgent(ai.WriterAgent)
		writer.ProcessFunc = func(context.Context, ai.Request) (*ai.Response, error) { return nil, boom }
		defer writer.Reset()

		_, err := p.Process(ctx, source.Digest, ai.WriterAgent, nil)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("agent status error", func(t *testing.T) {
		writer := provider.GetMockAgent(ai.WriterAgent)
		writer.ProcessFunc = func(context.Context, ai.Request) (*ai.Response, error) {
			return &ai.Response{Status: ai.StatusError, Feedback: "refused"}, nil
		}
		defer writer.Reset()

		_, err := p.Process(ctx, source.Digest, ai.WriterAgent, nil)
		assert.ErrorIs(t, err, ErrAgentFailed)
		assert.Contains(t, err.Error(), "refused")
	})

	stored, err := outputs.GetOutputs(ctx, source.Digest)
	require.NoError(t, err)
	assert.Empty(t, stored, "failed runs store nothing")
}

func TestPipeline_Submit(t *testing.T) {
	ctx := context.Background()
	p, docs, outputs, provider := newTestPipeline(t)

	var digests []core.Digest
	for i := 0; i < 5; i++ {
		doc, err := docs.StoreDocument(ctx, "", fmt.Sprintf("document %d", i), "", nil)
		require.NoError(t, err)
		digests = append(digests, doc.Digest)
	}

	for _, d := range digests {
		require.NoError(t, p.Submit(ctx, d, ai.WriterAgent, nil))
	}
	// Failures are logged, not returned
	require.NoError(t, p.Submit(ctx, digests[0], "translator", nil))
	p.Wait()

	assert.Equal(t, 5, provider.GetMockAgent(ai.WriterAgent).CallCount())
	for _, d := range digests {
		stored, err := outputs.GetOutputs(ctx, d)
		require.NoError(t, err)
		assert.Len(t, stored, 1)
	}
}
