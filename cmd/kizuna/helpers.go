package main

import (
	"context"
	"fmt"
	"time"

	"github.com/at-ishikawa/kizuna/internal/config"
	"github.com/at-ishikawa/kizuna/internal/database"
	"github.com/at-ishikawa/kizuna/internal/docstore"
	"github.com/at-ishikawa/kizuna/internal/docstore/mysql"
	"github.com/at-ishikawa/kizuna/internal/docstore/rest"
	"github.com/at-ishikawa/kizuna/internal/resolve"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// newStore builds the configured document store. The returned cleanup
// releases whatever the backend holds open and must run on command exit.
func newStore(ctx context.Context, cfg *config.Config) (docstore.Store, func() error, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendMemory:
		return docstore.NewMemoryStore(), func() error { return nil }, nil

	case config.StoreBackendMySQL:
		db, err := database.Open(cfg.Store.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("database.Open() > %w", err)
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("database.Migrate() > %w", err)
		}
		return mysql.NewStore(db), db.Close, nil

	case config.StoreBackendREST:
		store := rest.NewStore(rest.Config{
			BaseURL:       cfg.Store.REST.BaseURL,
			APIKey:        cfg.Store.REST.APIKey,
			RetryAttempts: cfg.Store.REST.RetryAttempts,
			Timeout:       time.Duration(cfg.Store.REST.TimeoutSeconds) * time.Second,
		})
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func newResolver(cfg *config.Config, store docstore.Store) (*resolve.Resolver, error) {
	strategy, err := resolve.NewStrategy(cfg.Identity.Strategy, store, cfg.Journal.Owner)
	if err != nil {
		return nil, fmt.Errorf("resolve.NewStrategy() > %w", err)
	}
	return resolve.NewResolver(store, strategy), nil
}
