// Package feedback keeps the history that drives feedback-aware re-ranking.
//
// Memory holds two append-only logs: the search log, one SearchRecord per
// search with its ordered results, and the feedback log, one FeedbackEvent
// per relevance judgement. Feedback also overwrites the cached score on the
// matching search result, which is what the re-ranker reads.
//
// Feedback for an unknown search id is accepted and logged but changes no
// search record.
//
// Persist and Restore move both logs to and from a single JSON file:
//
//	{"search_history": [...], "reward_history": [...],
//	 "learning_rate": 0.1, "exploration_rate": 0.1}
//
// The learning and exploration rates are carried and reported but are not
// used by any scoring.
package feedback
