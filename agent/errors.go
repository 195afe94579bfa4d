package agent

import "errors"

var (
	ErrMissingEndpoint = errors.New("agent endpoint not configured")
	ErrInvalidConfig   = errors.New("invalid agent config")
	ErrAgentNotFound   = errors.New("agent not found")
	ErrAgentExists     = errors.New("agent already registered")
	ErrEmptyAgentName  = errors.New("agent name is empty")
	ErrUnreachable     = errors.New("agent gateway unreachable")
)
