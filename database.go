// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package vestige is a content versioning and retrieval database that learns
// from relevance feedback.
//
// Documents are stored under the digest of their body, so resubmitting the
// same body bumps its version instead of creating a copy. Searches rank the
// stored corpus by TF-IDF similarity and boost documents that resemble
// results rated well in similar earlier searches.
package vestige

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"strconv"
	"time"

	"github.com/poiesic/vestige/ai"
	"github.com/poiesic/vestige/ai/openai"
	"github.com/poiesic/vestige/core"
	"github.com/poiesic/vestige/feedback"
	"github.com/poiesic/vestige/ingestion"
	"github.com/poiesic/vestige/metrics"
	"github.com/poiesic/vestige/ranking"
	"github.com/poiesic/vestige/search"
	"github.com/poiesic/vestige/storage"
	"github.com/poiesic/vestige/storage/badger"
)

// DefaultCorpusLimit is the number of most recent documents a search ranks.
const DefaultCorpusLimit = 1000

// ErrNoStatePath is returned by Persist and Restore when neither a path
// argument nor a configured state path is available.
var ErrNoStatePath = errors.New("no feedback state path configured")

type Database struct {
	backend   *badger.Backend
	documents *badger.DocumentRepository
	outputs   *badger.OutputRepository
	memory    *feedback.Memory
	engine    *search.Engine
	pipeline  *ingestion.Pipeline
	provider  ai.Provider
	metrics   *metrics.Metrics
	options   *databaseOptions
	logger    *slog.Logger
}

// Stats summarizes the database and its feedback memory.
type Stats struct {
	Documents int
	Search    core.Statistics
	Agents    []string
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger
	if logger == nil {
		logger = slog.Default().With("component", "vestige")
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	documents := badger.NewDocumentRepository(backend)
	outputs, err := badger.NewOutputRepository(backend)
	if err != nil {
		documents.Close()
		backend.Close()
		return nil, err
	}

	closeStorage := func() {
		outputs.Close()
		documents.Close()
		backend.Close()
	}

	memory, err := feedback.NewMemory(options.memoryOpts...)
	if err != nil {
		closeStorage()
		return nil, err
	}
	if options.statePath != "" {
		err := memory.Restore(options.statePath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug("no feedback state to restore", "path", options.statePath)
		case err != nil:
			closeStorage()
			return nil, err
		}
	}

	ranker, err := ranking.NewRanker(options.rankerOpts...)
	if err != nil {
		closeStorage()
		return nil, err
	}

	engine, err := search.NewEngine(memory, ranker, search.WithResolver(documents))
	if err != nil {
		closeStorage()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			closeStorage()
			return nil, err
		}
	}

	m := metrics.New(options.registerer)
	pipeline, err := ingestion.NewPipeline(documents, outputs, provider,
		append([]ingestion.Option{ingestion.WithMetrics(m)}, options.pipelineOpts...)...)
	if err != nil {
		provider.Close()
		closeStorage()
		return nil, err
	}

	return &Database{
		backend:   backend,
		documents: documents,
		outputs:   outputs,
		memory:    memory,
		engine:    engine,
		pipeline:  pipeline,
		provider:  provider,
		metrics:   m,
		options:   options,
		logger:    logger,
	}, nil
}

// Close persists feedback state when a state path is configured and releases
// every resource. The first error encountered is returned.
func (db *Database) Close() error {
	var errs []error
	db.pipeline.Release()

	if db.options.statePath != "" {
		if err := db.memory.Persist(db.options.statePath); err != nil {
			db.logger.Error("error persisting feedback state", "err", err)
			errs = append(errs, err)
		}
	}

	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	// Close repositories
	if err := db.outputs.Close(); err != nil {
		db.logger.Error("error closing output repository", "err", err)
		errs = append(errs, err)
	}
	if err := db.documents.Close(); err != nil {
		db.logger.Error("error closing document repository", "err", err)
		errs = append(errs, err)
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// Store inserts body, or bumps its version when already stored.
func (db *Database) Store(ctx context.Context, url, body, title string, metadata map[string]string) (*core.Document, error) {
	doc, err := db.documents.StoreDocument(ctx, url, body, title, metadata)
	if err != nil {
		return nil, err
	}
	db.metrics.DocumentStored(doc.Version)
	return doc, nil
}

// Get retrieves a document. found is false when the digest was never stored.
func (db *Database) Get(ctx context.Context, digest core.Digest) (doc *core.Document, found bool, err error) {
	doc, err = db.documents.GetDocument(ctx, digest)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

// ListRecent returns up to limit documents, newest first.
func (db *Database) ListRecent(ctx context.Context, limit int) ([]*core.Document, error) {
	return db.documents.ListRecent(ctx, limit)
}

// SearchText returns up to limit documents containing query, newest first.
func (db *Database) SearchText(ctx context.Context, query string, limit int) ([]*core.Document, error) {
	return db.documents.SearchText(ctx, query, limit)
}

// Delete always fails with storage.ErrDeletionUnsupported.
func (db *Database) Delete(ctx context.Context, digest core.Digest) error {
	return db.documents.DeleteDocument(ctx, digest)
}

// Outputs returns the agent outputs recorded for digest, newest first.
func (db *Database) Outputs(ctx context.Context, digest core.Digest) ([]*core.Output, error) {
	return db.outputs.GetOutputs(ctx, digest)
}

// Search ranks the most recent documents against query and returns at most n.
func (db *Database) Search(ctx context.Context, query string, n int) (*search.Result, error) {
	return db.SearchWithMonitor(ctx, query, n, nil)
}

// SearchWithMonitor is Search with callbacks at each stage of the process.
func (db *Database) SearchWithMonitor(ctx context.Context, query string, n int, monitor search.SearchMonitor) (*search.Result, error) {
	start := time.Now()
	corpus, err := db.documents.ListRecent(ctx, db.options.corpusLimit)
	if err != nil {
		return nil, err
	}
	result, err := db.engine.SearchWithMonitor(ctx, query, corpus, n, monitor)
	if err != nil {
		return nil, err
	}
	db.metrics.SearchCompleted(string(result.Mode), time.Since(start))
	return result, nil
}

// Feedback records a relevance score in [0, 1] for a search result.
// Feedback for unknown searches is kept in the event log; known reports
// whether the search was found.
func (db *Database) Feedback(searchID string, digest core.Digest, score float64) (known bool, err error) {
	known, err = db.engine.Feedback(searchID, digest, score)
	if err != nil {
		return false, err
	}
	db.metrics.FeedbackRecorded(known)
	return known, nil
}

// Statistics reports document, search and agent statistics.
func (db *Database) Statistics(ctx context.Context) (*Stats, error) {
	count, err := db.documents.CountDocuments(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Documents: count,
		Search:    db.engine.Statistics(),
		Agents:    db.provider.Agents(),
	}, nil
}

// Review records a human review on a document. The body is unchanged, so
// the document keeps its digest and its version is bumped.
func (db *Database) Review(ctx context.Context, digest core.Digest, feedback string, approved bool) (*core.Document, error) {
	doc, err := db.documents.GetDocument(ctx, digest)
	if err != nil {
		return nil, err
	}

	meta := make(map[string]string, len(doc.Metadata)+4)
	for k, v := range doc.Metadata {
		meta[k] = v
	}
	meta[core.MetaHumanReviewed] = "true"
	meta[core.MetaHumanFeedback] = feedback
	meta[core.MetaApproved] = strconv.FormatBool(approved)
	meta[core.MetaReviewedAt] = time.Now().UTC().Format(time.RFC3339)

	return db.Store(ctx, doc.URL, doc.Body, doc.Title, meta)
}

// Process runs the named agent over a document and stores the result.
func (db *Database) Process(ctx context.Context, digest core.Digest, agent string, params map[string]string) (*ingestion.Processed, error) {
	return db.pipeline.Process(ctx, digest, agent, params)
}

// Ingest stores items concurrently and returns their digests in input order.
func (db *Database) Ingest(ctx context.Context, items ...ingestion.Item) ([]core.Digest, error) {
	return db.pipeline.Ingest(ctx, items...)
}

// Agents lists the available agent names.
func (db *Database) Agents() []string {
	return db.provider.Agents()
}

// Persist writes the feedback memory to path, or to the configured state
// path when path is empty.
func (db *Database) Persist(path string) error {
	path, err := db.statePath(path)
	if err != nil {
		return err
	}
	return db.memory.Persist(path)
}

// Restore replaces the feedback memory with the snapshot at path, or at the
// configured state path when path is empty.
func (db *Database) Restore(path string) error {
	path, err := db.statePath(path)
	if err != nil {
		return err
	}
	return db.memory.Restore(path)
}

func (db *Database) statePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	if db.options.statePath != "" {
		return db.options.statePath, nil
	}
	return "", ErrNoStatePath
}
