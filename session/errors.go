package session

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidEntry    = errors.New("invalid entry")
	ErrNotInitialized  = errors.New("session store not initialized")
)
