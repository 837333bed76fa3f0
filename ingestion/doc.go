// Package ingestion provides pipeline orchestration for storing and processing documents.
//
// The Pipeline type manages two workflows:
//   - Ingest stores batches of documents concurrently
//   - Process runs an AI agent over a stored document and stores both the
//     agent output and the processed text as a new document version
//
// Work is performed on worker pools. Ingest waits for its batch; Submit queues
// agent processing and logs errors instead of returning them.
package ingestion
