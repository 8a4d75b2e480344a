package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/kizuna/internal/config"
	"github.com/at-ishikawa/kizuna/internal/docstore"
	"github.com/at-ishikawa/kizuna/internal/testutil"
)

func TestLoadConfig(t *testing.T) {
	original := configFile
	t.Cleanup(func() {
		configFile = original
	})
	configFile = testutil.SetupTestConfig(t, t.TempDir())

	cfg, err := loadConfig()

	require.NoError(t, err)
	assert.Equal(t, config.StoreBackendMemory, cfg.Store.Backend)
	assert.Equal(t, "local", cfg.Journal.Owner)
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		wantErr bool
	}{
		{
			name:    "memory backend",
			backend: config.StoreBackendMemory,
		},
		{
			name:    "unknown backend",
			backend: "filesystem",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Store.Backend = tt.backend

			store, cleanup, err := newStore(context.Background(), cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, &docstore.MemoryStore{}, store)
			assert.NoError(t, cleanup())
		})
	}
}

func TestNewResolver(t *testing.T) {
	cfg := &config.Config{}
	cfg.Journal.Owner = "local"
	cfg.Identity.Strategy = "normalized"

	resolver, err := newResolver(cfg, docstore.NewMemoryStore())

	require.NoError(t, err)
	assert.NotNil(t, resolver)

	cfg.Identity.Strategy = "guess"
	_, err = newResolver(cfg, docstore.NewMemoryStore())
	assert.Error(t, err)
}
