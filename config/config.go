// Package config loads Vestige settings from YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/poiesic/vestige/ai"
	"gopkg.in/yaml.v3"
)

// Config holds the Vestige configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Ranking   RankingConfig   `yaml:"ranking"`
	Feedback  FeedbackConfig  `yaml:"feedback"`
	AI        AIConfig        `yaml:"ai"`
	Ingestion IngestionConfig `yaml:"ingestion"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DatabaseConfig holds storage settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	InMemory    bool   `yaml:"in_memory"`
	StatePath   string `yaml:"state_path"`   // feedback snapshot; empty disables persistence
	CorpusLimit int    `yaml:"corpus_limit"` // documents considered per search
}

// RankingConfig holds TF-IDF settings.
type RankingConfig struct {
	MaxFeatures  int `yaml:"max_features"`
	MinDocuments int `yaml:"min_documents"`
}

// FeedbackConfig holds feedback memory settings.
type FeedbackConfig struct {
	LearningRate    *float64 `yaml:"learning_rate"`
	ExplorationRate *float64 `yaml:"exploration_rate"`
}

// AIConfig holds language model settings.
type AIConfig struct {
	Host        string   `yaml:"host"`
	Model       string   `yaml:"model"`
	APIKey      string   `yaml:"api_key"`
	Temperature *float64 `yaml:"temperature"`
}

// IngestionConfig holds worker pool settings.
type IngestionConfig struct {
	PoolSize int `yaml:"pool_size"` // 0 = half the CPUs
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns a configuration with every default applied.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// Load reads configuration from a YAML file. An empty path yields Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, substituting environment variables of
// the form ${VAR} and ${VAR:-default} first.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Database.Path == "" {
		c.Database.Path = "./data/vestige"
	}
	if c.Database.CorpusLimit <= 0 {
		c.Database.CorpusLimit = 1000
	}
	if c.Ranking.MaxFeatures <= 0 {
		c.Ranking.MaxFeatures = 1000
	}
	if c.Ranking.MinDocuments <= 0 {
		c.Ranking.MinDocuments = 2
	}
	if c.Feedback.LearningRate == nil {
		c.Feedback.LearningRate = float64Ptr(0.1)
	}
	if c.Feedback.ExplorationRate == nil {
		c.Feedback.ExplorationRate = float64Ptr(0.1)
	}
	def := ai.DefaultConfig()
	if c.AI.Host == "" {
		c.AI.Host = def.Host
	}
	if c.AI.Model == "" {
		c.AI.Model = def.Model
	}
	if c.AI.Temperature == nil {
		c.AI.Temperature = float64Ptr(def.Temperature)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if !c.Database.InMemory && c.Database.Path == "" {
		return fmt.Errorf("database.path is required unless database.in_memory is set")
	}
	if c.Ranking.MinDocuments < 2 {
		return fmt.Errorf("ranking.min_documents must be at least 2, got %d", c.Ranking.MinDocuments)
	}
	if r := c.Feedback.LearningRate; r != nil && (*r < 0 || *r > 1) {
		return fmt.Errorf("feedback.learning_rate must be between 0 and 1, got %v", *r)
	}
	if r := c.Feedback.ExplorationRate; r != nil && (*r < 0 || *r > 1) {
		return fmt.Errorf("feedback.exploration_rate must be between 0 and 1, got %v", *r)
	}
	if c.Ingestion.PoolSize < 0 {
		return fmt.Errorf("ingestion.pool_size must not be negative, got %d", c.Ingestion.PoolSize)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
		// ok
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return c.AIConfig().Validate()
}

// AIConfig converts the ai section to an ai.Config.
func (c *Config) AIConfig() *ai.Config {
	opts := []ai.ConfigOption{
		ai.WithHost(c.AI.Host),
		ai.WithModel(c.AI.Model),
		ai.WithAPIKey(c.AI.APIKey),
	}
	if c.AI.Temperature != nil {
		opts = append(opts, ai.WithTemperature(*c.AI.Temperature))
	}
	return ai.NewConfig(opts...)
}

func float64Ptr(v float64) *float64 {
	return &v
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
