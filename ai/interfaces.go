package ai

import "context"

// Agent transforms or evaluates document content with a language model.
// Implementations must be thread-safe for concurrent use.
type Agent interface {
	// Name is the registry key of the agent, such as "writer".
	Name() string

	// Process runs the agent over req.Content.
	// Returns an error if the model could not be reached. A model reply that
	// is not valid JSON still yields a Response holding the raw text.
	Process(ctx context.Context, req Request) (*Response, error)
}

// Provider is a registry of agents sharing one model configuration.
type Provider interface {
	// Agent looks up an agent by name.
	Agent(name string) (Agent, bool)

	// Agents lists registered agent names in lexical order.
	Agents() []string

	// Close releases resources held by the provider and its agents.
	// After Close is called, the provider and its agents should not be used.
	Close() error
}
