package feedback

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/poiesic/vestige/core"
)

// snapshot is the on-disk form of a Memory.
type snapshot struct {
	SearchHistory   []searchEntry `json:"search_history"`
	RewardHistory   []rewardEntry `json:"reward_history"`
	LearningRate    *float64      `json:"learning_rate,omitempty"`
	ExplorationRate *float64      `json:"exploration_rate,omitempty"`
}

type searchEntry struct {
	SearchID  string        `json:"search_id"`
	Query     string        `json:"query"`
	Timestamp time.Time     `json:"timestamp"`
	Results   []resultEntry `json:"results"`
}

type resultEntry struct {
	VersionID     string   `json:"version_id"`
	FeedbackScore *float64 `json:"feedback_score,omitempty"`
}

type rewardEntry struct {
	SearchID      string    `json:"search_id"`
	ResultID      string    `json:"result_id"`
	FeedbackScore float64   `json:"feedback_score"`
	Timestamp     time.Time `json:"timestamp"`
}

// Persist writes both logs and the reserved rates to path as one JSON
// document. The file is replaced atomically.
func (m *Memory) Persist(path string) error {
	m.mu.Lock()
	snap := m.snapshotLocked()
	m.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPersistFailed, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write: %w", ErrPersistFailed, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync: %w", ErrPersistFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ErrPersistFailed, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: rename: %w", ErrPersistFailed, err)
	}

	m.logger.Debug("persisted feedback memory", "path", path,
		"searches", len(snap.SearchHistory), "events", len(snap.RewardHistory))
	return nil
}

// Restore replaces the in-memory state with the snapshot at path.
// On any failure the current state is retained.
func (m *Memory) Restore(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRestoreFailed, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: decode: %w", ErrRestoreFailed, err)
	}

	searches, index, err := decodeSearches(snap.SearchHistory)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRestoreFailed, err)
	}
	events, err := decodeEvents(snap.RewardHistory)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRestoreFailed, err)
	}

	learningRate := DefaultLearningRate
	if snap.LearningRate != nil {
		learningRate = *snap.LearningRate
	}
	explorationRate := DefaultExplorationRate
	if snap.ExplorationRate != nil {
		explorationRate = *snap.ExplorationRate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = searches
	m.index = index
	m.events = events
	m.learningRate = learningRate
	m.explorationRate = explorationRate
	m.counter = max(m.counter, uint64(len(searches)))

	m.logger.Debug("restored feedback memory", "path", path,
		"searches", len(searches), "events", len(events))
	return nil
}

func (m *Memory) snapshotLocked() snapshot {
	lr, er := m.learningRate, m.explorationRate
	snap := snapshot{
		SearchHistory:   make([]searchEntry, 0, len(m.searches)),
		RewardHistory:   make([]rewardEntry, 0, len(m.events)),
		LearningRate:    &lr,
		ExplorationRate: &er,
	}
	for _, rec := range m.searches {
		entry := searchEntry{
			SearchID:  rec.SearchID,
			Query:     rec.Query,
			Timestamp: rec.Timestamp,
			Results:   make([]resultEntry, 0, len(rec.Results)),
		}
		for _, r := range rec.Clone().Results {
			entry.Results = append(entry.Results, resultEntry{
				VersionID:     string(r.ResultID),
				FeedbackScore: r.FeedbackScore,
			})
		}
		snap.SearchHistory = append(snap.SearchHistory, entry)
	}
	for _, e := range m.events {
		snap.RewardHistory = append(snap.RewardHistory, rewardEntry{
			SearchID:      e.SearchID,
			ResultID:      string(e.ResultID),
			FeedbackScore: e.Score,
			Timestamp:     e.Timestamp,
		})
	}
	return snap
}

func decodeSearches(entries []searchEntry) ([]core.SearchRecord, map[string]int, error) {
	searches := make([]core.SearchRecord, 0, len(entries))
	index := make(map[string]int, len(entries))
	for _, entry := range entries {
		if entry.SearchID == "" {
			return nil, nil, fmt.Errorf("search %d has no id", len(searches))
		}
		rec := core.SearchRecord{
			SearchID:  entry.SearchID,
			Query:     entry.Query,
			Timestamp: entry.Timestamp,
		}
		for _, r := range entry.Results {
			if r.FeedbackScore != nil {
				if err := core.ValidateFeedbackScore(*r.FeedbackScore); err != nil {
					return nil, nil, fmt.Errorf("search %s: %w", entry.SearchID, err)
				}
			}
			rec.Results = append(rec.Results, core.ResultRef{
				ResultID:      core.Digest(r.VersionID),
				FeedbackScore: r.FeedbackScore,
			})
		}
		index[rec.SearchID] = len(searches)
		searches = append(searches, rec)
	}
	return searches, index, nil
}

func decodeEvents(entries []rewardEntry) ([]core.FeedbackEvent, error) {
	events := make([]core.FeedbackEvent, 0, len(entries))
	for i, entry := range entries {
		if err := core.ValidateFeedbackScore(entry.FeedbackScore); err != nil {
			return nil, fmt.Errorf("feedback event %d: %w", i, err)
		}
		events = append(events, core.FeedbackEvent{
			SearchID:  entry.SearchID,
			ResultID:  core.Digest(entry.ResultID),
			Score:     entry.FeedbackScore,
			Timestamp: entry.Timestamp,
		})
	}
	return events, nil
}
