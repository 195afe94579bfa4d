package drafting

import "errors"

var (
	// ErrEmptyPrompt rejects a prompt or feedback that is blank after trimming.
	ErrEmptyPrompt = errors.New("prompt is empty")
	// ErrRequestInFlight rejects a request while the session awaits a response.
	ErrRequestInFlight = errors.New("request already in flight for session")
	ErrInvalidConfig   = errors.New("invalid drafting config")

	errTransportPanic = errors.New("agent transport panicked")
)
