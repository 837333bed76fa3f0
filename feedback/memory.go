package feedback

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/vestige/core"
)

const (
	// DefaultLearningRate is reported by Statistics. Scoring never reads it.
	DefaultLearningRate = 0.1

	// DefaultExplorationRate is reported by Statistics. Scoring never reads it.
	DefaultExplorationRate = 0.1
)

// Memory is the append-only log of past searches and feedback events.
// A single mutex guards both logs; Memory is safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	searches []core.SearchRecord
	index    map[string]int // search id -> position in searches
	events   []core.FeedbackEvent
	counter  uint64

	learningRate    float64
	explorationRate float64
	logger          *slog.Logger
}

// Option configures a Memory.
type Option func(*Memory) error

// WithLearningRate sets the reserved learning rate.
func WithLearningRate(rate float64) Option {
	return func(m *Memory) error {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%w: learning rate %v", ErrInvalidRate, rate)
		}
		m.learningRate = rate
		return nil
	}
}

// WithExplorationRate sets the reserved exploration rate.
func WithExplorationRate(rate float64) Option {
	return func(m *Memory) error {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%w: exploration rate %v", ErrInvalidRate, rate)
		}
		m.explorationRate = rate
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Memory) error {
		m.logger = logger
		return nil
	}
}

// NewMemory creates an empty feedback memory.
func NewMemory(opts ...Option) (*Memory, error) {
	m := &Memory{
		index:           make(map[string]int),
		learningRate:    DefaultLearningRate,
		explorationRate: DefaultExplorationRate,
		logger:          slog.Default().With("component", "feedback"),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordSearch appends an empty search record and returns its id.
// Ids combine a per-instance counter with the wall clock, so calls within
// the same instant never collide.
func (m *Memory) RecordSearch(query string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	id := fmt.Sprintf("search_%d_%d", m.counter, now.UnixNano())
	m.counter++

	m.index[id] = len(m.searches)
	m.searches = append(m.searches, core.SearchRecord{
		SearchID:  id,
		Query:     query,
		Timestamp: now,
	})
	return id
}

// AttachResults sets the result list of a recorded search.
// Unknown ids are ignored.
func (m *Memory) AttachResults(searchID string, results []core.ResultRef) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.index[searchID]
	if !ok {
		m.logger.Debug("attach results to unknown search", "search_id", searchID)
		return
	}
	m.searches[pos].Results = core.SearchRecord{Results: results}.Clone().Results
}

// RecordFeedback stores a relevance score for a search result.
// The cached score on the matching search record is overwritten; a result
// missing from that record is appended so the score is not lost. The event
// is always appended to the feedback log, even when searchID is unknown.
// Returns whether the search was known.
func (m *Memory) RecordFeedback(searchID string, resultID core.Digest, score float64) (bool, error) {
	if err := core.ValidateFeedbackScore(score); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, core.FeedbackEvent{
		SearchID:  searchID,
		ResultID:  resultID,
		Score:     score,
		Timestamp: time.Now().UTC(),
	})

	pos, ok := m.index[searchID]
	if !ok {
		m.logger.Debug("feedback for unknown search", "search_id", searchID)
		return false, nil
	}

	rec := &m.searches[pos]
	for i := range rec.Results {
		if rec.Results[i].ResultID == resultID {
			s := score
			rec.Results[i].FeedbackScore = &s
			return true, nil
		}
	}
	s := score
	rec.Results = append(rec.Results, core.ResultRef{ResultID: resultID, FeedbackScore: &s})
	return true, nil
}

// Statistics summarizes both logs.
func (m *Memory) Statistics() core.Statistics {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := core.Statistics{
		TotalSearches:       len(m.searches),
		TotalFeedbackEvents: len(m.events),
		LearningRate:        m.learningRate,
		ExplorationRate:     m.explorationRate,
	}
	if len(m.events) > 0 {
		var sum float64
		for _, e := range m.events {
			sum += e.Score
		}
		stats.AverageFeedbackScore = sum / float64(len(m.events))
	}
	return stats
}

// Len returns the number of recorded searches.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.searches)
}

// Recent returns copies of the last n search records, oldest first.
func (m *Memory) Recent(n int) []core.SearchRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n <= 0 {
		return nil
	}
	start := max(0, len(m.searches)-n)
	out := make([]core.SearchRecord, 0, len(m.searches)-start)
	for _, rec := range m.searches[start:] {
		out = append(out, rec.Clone())
	}
	return out
}

// Search returns a copy of the record for searchID.
func (m *Memory) Search(searchID string) (core.SearchRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.index[searchID]
	if !ok {
		return core.SearchRecord{}, false
	}
	return m.searches[pos].Clone(), true
}

// FeedbackLog returns a copy of every feedback event in arrival order.
func (m *Memory) FeedbackLog() []core.FeedbackEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]core.FeedbackEvent, len(m.events))
	copy(out, m.events)
	return out
}
