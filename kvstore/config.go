package kvstore

import (
	"fmt"
	"os"
	"path/filepath"
)

// Supported backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

const sqliteFileName = "drafter.db"

// Config selects and parameterizes a storage backend.
type Config struct {
	Backend  string `json:"backend,omitempty" mapstructure:"backend"`
	Path     string `json:"path,omitempty" mapstructure:"path"`           // directory for file and sqlite backends
	RedisURL string `json:"redis_url,omitempty" mapstructure:"redis_url"` // e.g. redis://localhost:6379/0
	Prefix   string `json:"prefix,omitempty" mapstructure:"prefix"`       // redis key prefix
}

// DefaultConfig returns a file-backed configuration with no path set; the
// caller chooses the directory.
func DefaultConfig() Config {
	return Config{Backend: BackendFile}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Backend != "" {
		c.Backend = source.Backend
	}
	if source.Path != "" {
		c.Path = source.Path
	}
	if source.RedisURL != "" {
		c.RedisURL = source.RedisURL
	}
	if source.Prefix != "" {
		c.Prefix = source.Prefix
	}
}

// NewStore creates the Store described by cfg. Stores holding connections
// (sqlite, redis) implement io.Closer.
func NewStore(cfg *Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemStore(), nil
	case BackendFile, "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("file backend requires a path")
		}
		return NewFileStore(cfg.Path), nil
	case BackendSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite backend requires a path")
		}
		if err := os.MkdirAll(cfg.Path, fileDirMode); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
		store, err := OpenSQLite(filepath.Join(cfg.Path, sqliteFileName))
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("redis backend requires a url")
		}
		store, err := NewRedisStore(cfg.RedisURL, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s (supported: file, sqlite, redis, memory)", cfg.Backend)
	}
}
