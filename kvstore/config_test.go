package kvstore_test

import (
	"io"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/drafter/kvstore"
)

func TestDefaultConfig(t *testing.T) {
	cfg := kvstore.DefaultConfig()
	assert.Equal(t, kvstore.BackendFile, cfg.Backend)
	assert.Empty(t, cfg.Path)
}

func TestConfig_Merge(t *testing.T) {
	cfg := kvstore.DefaultConfig()
	cfg.Merge(&kvstore.Config{Backend: kvstore.BackendRedis, RedisURL: "redis://localhost:6379/0"})

	assert.Equal(t, kvstore.BackendRedis, cfg.Backend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)

	cfg.Merge(&kvstore.Config{})
	assert.Equal(t, kvstore.BackendRedis, cfg.Backend, "empty source must preserve values")
}

func TestNewStore(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		cfg     kvstore.Config
		wantErr bool
	}{
		{name: "memory", cfg: kvstore.Config{Backend: kvstore.BackendMemory}},
		{name: "file", cfg: kvstore.Config{Backend: kvstore.BackendFile, Path: t.TempDir()}},
		{name: "file without path", cfg: kvstore.Config{Backend: kvstore.BackendFile}, wantErr: true},
		{name: "sqlite", cfg: kvstore.Config{Backend: kvstore.BackendSQLite, Path: t.TempDir()}},
		{name: "redis", cfg: kvstore.Config{Backend: kvstore.BackendRedis, RedisURL: "redis://" + mr.Addr()}},
		{name: "redis without url", cfg: kvstore.Config{Backend: kvstore.BackendRedis}, wantErr: true},
		{name: "unknown", cfg: kvstore.Config{Backend: "etcd"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := kvstore.NewStore(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, store)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, store)
			if c, ok := store.(io.Closer); ok {
				assert.NoError(t, c.Close())
			}
		})
	}
}
