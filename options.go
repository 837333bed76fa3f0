package vestige

import (
	"log/slog"

	"github.com/poiesic/vestige/ai"
	"github.com/poiesic/vestige/config"
	"github.com/poiesic/vestige/feedback"
	"github.com/poiesic/vestige/ingestion"
	"github.com/poiesic/vestige/ranking"
	"github.com/prometheus/client_golang/prometheus"
)

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig     *ai.Config
	provider     ai.Provider
	inMemory     bool
	statePath    string
	corpusLimit  int
	rankerOpts   []ranking.Option
	memoryOpts   []feedback.Option
	pipelineOpts []ingestion.Option
	registerer   prometheus.Registerer
	logger       *slog.Logger
}

func defaultOptions() *databaseOptions {
	return &databaseOptions{
		aiConfig:    ai.DefaultConfig(),
		corpusLimit: DefaultCorpusLimit,
	}
}

// WithAIConfig sets the language model configuration for the default provider.
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithAIProvider replaces the default OpenAI-compatible provider.
func WithAIProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps all documents in memory; the path is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithStatePath sets the feedback snapshot file. It is restored on open
// when present and written on Close.
func WithStatePath(path string) DatabaseOption {
	return func(o *databaseOptions) {
		o.statePath = path
	}
}

// WithCorpusLimit sets how many recent documents a search ranks.
func WithCorpusLimit(limit int) DatabaseOption {
	return func(o *databaseOptions) {
		if limit > 0 {
			o.corpusLimit = limit
		}
	}
}

// WithRankerOptions passes options to the similarity ranker.
func WithRankerOptions(opts ...ranking.Option) DatabaseOption {
	return func(o *databaseOptions) {
		o.rankerOpts = append(o.rankerOpts, opts...)
	}
}

// WithFeedbackOptions passes options to the feedback memory.
func WithFeedbackOptions(opts ...feedback.Option) DatabaseOption {
	return func(o *databaseOptions) {
		o.memoryOpts = append(o.memoryOpts, opts...)
	}
}

// WithPipelineOptions passes options to the ingestion pipeline.
func WithPipelineOptions(opts ...ingestion.Option) DatabaseOption {
	return func(o *databaseOptions) {
		o.pipelineOpts = append(o.pipelineOpts, opts...)
	}
}

// WithRegisterer registers the database metrics with reg.
func WithRegisterer(reg prometheus.Registerer) DatabaseOption {
	return func(o *databaseOptions) {
		o.registerer = reg
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// ConfigOptions translates a loaded configuration into database options.
func ConfigOptions(cfg *config.Config) []DatabaseOption {
	opts := []DatabaseOption{
		WithAIConfig(cfg.AIConfig()),
		WithStatePath(cfg.Database.StatePath),
		WithCorpusLimit(cfg.Database.CorpusLimit),
		WithRankerOptions(
			ranking.WithMaxFeatures(cfg.Ranking.MaxFeatures),
			ranking.WithMinDocuments(cfg.Ranking.MinDocuments),
		),
	}
	if cfg.Database.InMemory {
		opts = append(opts, WithInMemory())
	}
	if r := cfg.Feedback.LearningRate; r != nil {
		opts = append(opts, WithFeedbackOptions(feedback.WithLearningRate(*r)))
	}
	if r := cfg.Feedback.ExplorationRate; r != nil {
		opts = append(opts, WithFeedbackOptions(feedback.WithExplorationRate(*r)))
	}
	if cfg.Ingestion.PoolSize > 0 {
		opts = append(opts, WithPipelineOptions(ingestion.WithPoolSize(cfg.Ingestion.PoolSize)))
	}
	return opts
}
