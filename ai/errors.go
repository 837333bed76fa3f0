package ai

import "errors"

var (
	// ErrUnknownAgent indicates no agent is registered under the requested name.
	ErrUnknownAgent = errors.New("unknown agent")

	// ErrEmptyContent indicates a request carried no content.
	ErrEmptyContent = errors.New("request content is empty")
)
