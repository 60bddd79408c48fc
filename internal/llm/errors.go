package llm

import "errors"

var (
	// ErrUnavailable indicates a transport, authentication, or quota failure
	// reported by the model endpoint.
	ErrUnavailable = errors.New("llm endpoint unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrNotConfigured indicates no endpoint is bound for the requested stage.
	ErrNotConfigured = errors.New("llm endpoint not configured")

	// ErrCanceled indicates the caller's context ended before the endpoint
	// answered.
	ErrCanceled = errors.New("llm request canceled")
)
