package agent

import (
	"fmt"
	"net/http"
	"time"
)

const (
	defaultEndpoint = "http://localhost:8080"
	defaultTimeout  = 2 * time.Minute
)

// Config describes how to reach one agent.
type Config struct {
	Endpoint string        `json:"endpoint" mapstructure:"endpoint"`
	AgentID  string        `json:"agent_id" mapstructure:"agent_id"`
	Timeout  time.Duration `json:"timeout" mapstructure:"timeout"`
}

// DefaultConfig targets the drafting agent on a local gateway.
func DefaultConfig() Config {
	return Config{
		Endpoint: defaultEndpoint,
		AgentID:  DefaultAgentID,
		Timeout:  defaultTimeout,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Endpoint != "" {
		c.Endpoint = source.Endpoint
	}
	if source.AgentID != "" {
		c.AgentID = source.AgentID
	}
	if source.Timeout > 0 {
		c.Timeout = source.Timeout
	}
}

// New creates the connect transport described by cfg.
func New(cfg *Config) (Transport, error) {
	if cfg.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	if cfg.AgentID == "" {
		return nil, fmt.Errorf("%w: agent id", ErrInvalidConfig)
	}

	client := &http.Client{Timeout: cfg.Timeout}
	return NewConnectTransport(client, cfg.Endpoint), nil
}
