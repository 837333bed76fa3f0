package search

import (
	"github.com/poiesic/vestige/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track which path a search took.
type SearchMonitor interface {
	Start(searchID, query string)
	AfterSimilarityRanking(candidates []core.ScoredDocument, degraded bool)
	SkippedReranking(mode Mode)
	AuxiliaryScore(doc *core.Document, score float64, err error)
	Finish(mode Mode, results []core.ScoredDocument)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ string)                                      {}
func (n *noopMonitor) AfterSimilarityRanking(_ []core.ScoredDocument, _ bool) {}
func (n *noopMonitor) SkippedReranking(_ Mode)                                {}
func (n *noopMonitor) AuxiliaryScore(_ *core.Document, _ float64, _ error)    {}
func (n *noopMonitor) Finish(_ Mode, _ []core.ScoredDocument)                 {}
