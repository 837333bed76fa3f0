package ingestion

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrOutputRepositoryRequired is returned when an output repository is not provided.
	ErrOutputRepositoryRequired = errors.New("output repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrAgentFailed is returned when an agent responds with a non-success status.
	ErrAgentFailed = errors.New("agent failed")
)
