package drafting

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/tailored-agentic-units/drafter/agent"
	"github.com/tailored-agentic-units/drafter/knowledge"
	"github.com/tailored-agentic-units/drafter/kvstore"
	"github.com/tailored-agentic-units/drafter/policy"
	"github.com/tailored-agentic-units/drafter/session"
)

// EnvPrefix prefixes environment overrides, e.g. DRAFTER_AGENT_ENDPOINT.
const EnvPrefix = "DRAFTER"

const defaultObserver = "slog"

// envKeys are the settings that can be overridden from the environment.
var envKeys = []string{
	"agent.endpoint",
	"agent.agent_id",
	"agent.timeout",
	"knowledge.collection",
	"knowledge.bucket",
	"knowledge.region",
	"knowledge.endpoint",
	"knowledge.access_key",
	"knowledge.secret_key",
	"storage.backend",
	"storage.path",
	"storage.redis_url",
	"storage.prefix",
	"session_key",
	"observer",
}

// Config holds the settings of every subsystem the controller drives. Each
// section is handed to that subsystem's constructor.
type Config struct {
	Agent      agent.Config            `json:"agent" mapstructure:"agent"`
	Agents     map[string]agent.Config `json:"agents,omitempty" mapstructure:"agents"`
	Knowledge  knowledge.Config        `json:"knowledge" mapstructure:"knowledge"`
	Storage    kvstore.Config          `json:"storage" mapstructure:"storage"`
	SessionKey string                  `json:"session_key,omitempty" mapstructure:"session_key"`
	Defaults   policy.Selection        `json:"defaults" mapstructure:"defaults"`
	Observer   string                  `json:"observer,omitempty" mapstructure:"observer"`
}

// DefaultConfig returns a Config with defaults for all subsystems.
func DefaultConfig() Config {
	return Config{
		Agent:      agent.DefaultConfig(),
		Knowledge:  knowledge.DefaultConfig(),
		Storage:    kvstore.DefaultConfig(),
		SessionKey: session.DefaultKey,
		Defaults:   policy.DefaultSelection(),
		Observer:   defaultObserver,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	c.Agent.Merge(&source.Agent)
	c.Knowledge.Merge(&source.Knowledge)
	c.Storage.Merge(&source.Storage)
	c.Defaults.Merge(&source.Defaults)

	if source.SessionKey != "" {
		c.SessionKey = source.SessionKey
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
	if len(source.Agents) > 0 {
		c.Agents = source.Agents
	}
}

// Validate rejects selections outside the known catalogs.
func (c *Config) Validate() error {
	if !policy.IsKnownRegulation(c.Defaults.Regulation) {
		return fmt.Errorf("%w: unknown regulation %q", ErrInvalidConfig, c.Defaults.Regulation)
	}
	if !policy.IsKnownScope(c.Defaults.Scope) {
		return fmt.Errorf("%w: unknown scope %q", ErrInvalidConfig, c.Defaults.Scope)
	}
	return nil
}

// LoadConfig reads a JSON, YAML or TOML file (chosen by extension), applies
// DRAFTER_* environment overrides and merges the result over the defaults.
// An empty filename loads defaults and environment only.
func LoadConfig(filename string) (*Config, error) {
	return loadConfig(viper.New(), filename)
}

func loadConfig(v *viper.Viper, filename string) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if filename != "" {
		v.SetConfigFile(filename)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var loaded Config
	if err := v.Unmarshal(&loaded); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Merge(&loaded)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
