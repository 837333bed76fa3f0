package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/vestige/ai"
	"github.com/poiesic/vestige/core"
	"github.com/poiesic/vestige/metrics"
	"github.com/poiesic/vestige/storage"
)

// Pipeline orchestrates storing documents and processing them with agents.
// It manages concurrent work on two worker pools.
type Pipeline struct {
	documents storage.DocumentRepository
	outputs   storage.OutputRepository
	provider  ai.Provider
	storePool *ants.Pool
	agentPool *ants.Pool
	pending   sync.WaitGroup
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pools
		if p.storePool != nil {
			p.storePool.Release()
		}
		if p.agentPool != nil {
			p.agentPool.Release()
		}

		storePool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		agentPool, err := ants.NewPool(size)
		if err != nil {
			storePool.Release()
			return err
		}

		p.storePool = storePool
		p.agentPool = agentPool
		return nil
	}
}

// WithMetrics sets the collectors updated by the pipeline.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) error {
		p.metrics = m
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	documents storage.DocumentRepository,
	outputs storage.OutputRepository,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if outputs == nil {
		return nil, ErrOutputRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	storePool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	agentPool, err := ants.NewPool(poolSize)
	if err != nil {
		storePool.Release()
		return nil, err
	}

	p := &Pipeline{
		documents: documents,
		outputs:   outputs,
		provider:  provider,
		storePool: storePool,
		agentPool: agentPool,
		logger:    slog.Default().With("component", "ingestion"),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Item is one document to ingest.
type Item struct {
	URL      string
	Title    string
	Body     string
	Metadata map[string]string
}

// Ingest stores items concurrently and returns their digests in input order.
// Items that fail leave an empty digest at their position; their errors are
// joined into the returned error.
func (p *Pipeline) Ingest(ctx context.Context, items ...Item) ([]core.Digest, error) {
	digests := make([]core.Digest, len(items))
	errs := make([]error, len(items))

	var wg sync.WaitGroup
	for i := range items {
		i := i
		wg.Add(1)
		err := p.storePool.Submit(func() {
			defer wg.Done()
			doc, err := p.store(ctx, items[i])
			if err != nil {
				errs[i] = fmt.Errorf("item %d: %w", i, err)
				return
			}
			digests[i] = doc.Digest
		})
		if err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("item %d: %w", i, err)
		}
	}
	wg.Wait()

	return digests, errors.Join(errs...)
}

func (p *Pipeline) store(ctx context.Context, item Item) (*core.Document, error) {
	doc, err := p.documents.StoreDocument(ctx, item.URL, item.Body, item.Title, item.Metadata)
	if err != nil {
		return nil, err
	}
	p.metrics.DocumentStored(doc.Version)
	p.logger.Debug("stored document", "digest", doc.Digest.Short(), "version", doc.Version)
	return doc, nil
}

// Wait blocks until every job queued with Submit has finished.
func (p *Pipeline) Wait() {
	p.pending.Wait()
}

// Release waits for queued jobs and releases the worker pools.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	p.pending.Wait()
	if p.storePool != nil {
		p.storePool.Release()
	}
	if p.agentPool != nil {
		p.agentPool.Release()
	}
}
