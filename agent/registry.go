package agent

import (
	"fmt"
	"sort"
	"sync"
)

// Info describes a registered agent.
type Info struct {
	Name     string
	AgentID  string
	Endpoint string
}

// Registry holds named agent configurations and creates their transports on
// first use. Safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	configs    map[string]Config
	transports map[string]Transport
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		configs:    make(map[string]Config),
		transports: make(map[string]Transport),
	}
}

// Register adds a named configuration. Zero fields take DefaultConfig values.
func (r *Registry) Register(name string, cfg Config) error {
	if name == "" {
		return ErrEmptyAgentName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[name]; exists {
		return fmt.Errorf("%w: %s", ErrAgentExists, name)
	}

	merged := DefaultConfig()
	merged.Merge(&cfg)
	r.configs[name] = merged
	return nil
}

// Config returns the configuration registered under name.
func (r *Registry) Config(name string) (Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, exists := r.configs[name]
	if !exists {
		return Config{}, fmt.Errorf("%w: %s", ErrAgentNotFound, name)
	}
	return cfg, nil
}

// Get returns the transport of a named agent, creating it on first access.
func (r *Registry) Get(name string) (Transport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, registered := r.configs[name]
	if !registered {
		return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, name)
	}

	if t, exists := r.transports[name]; exists {
		return t, nil
	}

	t, err := New(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent %q: %w", name, err)
	}

	r.transports[name] = t
	return t, nil
}

// List returns all registered agents sorted by name.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.configs))
	for name, cfg := range r.configs {
		infos = append(infos, Info{Name: name, AgentID: cfg.AgentID, Endpoint: cfg.Endpoint})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}
