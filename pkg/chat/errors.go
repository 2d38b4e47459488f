package chat

import "errors"

var (
	// ErrUnknownStrategy is returned when a strategy key has no registered
	// implementation. The pipeline never starts.
	ErrUnknownStrategy = errors.New("unknown retrieval strategy")

	// ErrRetrieval is returned when the vector store call fails.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrMalformedOverride is returned when a caller-supplied prompt
	// template breaks placeholder substitution. It is never downgraded to
	// the default template.
	ErrMalformedOverride = errors.New("malformed prompt template override")

	// ErrEmptyHistory is returned when Run is invoked without a turn to
	// answer.
	ErrEmptyHistory = errors.New("conversation history is empty")
)
