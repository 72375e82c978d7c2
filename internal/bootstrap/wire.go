package bootstrap

import (
	"context"
	"fmt"

	"github.com/rootasjey/pokestats/internal/catalog"
	"github.com/rootasjey/pokestats/internal/config"
	"github.com/rootasjey/pokestats/internal/controversy"
	"github.com/rootasjey/pokestats/internal/database"
	"github.com/rootasjey/pokestats/internal/errorlog"
	"github.com/rootasjey/pokestats/internal/pokeapi"
	"github.com/rootasjey/pokestats/internal/pokemon"
	"github.com/rootasjey/pokestats/internal/resolver"
	"github.com/rootasjey/pokestats/internal/sprites"
	"github.com/rootasjey/pokestats/internal/stats"
	"github.com/rootasjey/pokestats/internal/store"
)

// Components are the caches built from one configuration, sharing a store
// and an upstream client.
type Components struct {
	Store       store.Store
	ErrorLog    *errorlog.Log
	Stats       *stats.Aggregator
	Pokemon     *pokemon.Lookup
	Sprites     *sprites.Index
	Controversy *controversy.Ledger
	Catalog     *catalog.Catalog
	Resolver    *resolver.Resolver

	closers []func() error
}

// Close releases the store and the upstream client.
func (c *Components) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}

// OpenStore opens the backend named by cfg.Store.Driver. The returned close
// function is never nil.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Driver {
	case config.DriverFile, "":
		return store.NewFileStore(cfg.Store.DataDirectory), noop, nil
	case config.DriverMemory:
		return store.NewMemoryStore(), noop, nil
	case config.DriverMySQL:
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, noop, fmt.Errorf("database.Open() > %w", err)
		}
		return migrate(ctx, store.NewSQLStore(db, store.MySQL), db.Close)
	case config.DriverSQLite:
		db, err := database.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, noop, fmt.Errorf("database.OpenSQLite() > %w", err)
		}
		return migrate(ctx, store.NewSQLStore(db, store.SQLite), db.Close)
	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func migrate(ctx context.Context, st *store.SQLStore, closeDB func() error) (store.Store, func() error, error) {
	if err := st.Migrate(ctx); err != nil {
		_ = closeDB()
		return nil, func() error { return nil }, fmt.Errorf("SQLStore.Migrate() > %w", err)
	}
	return st, closeDB, nil
}

// Wire builds every cache on top of client and a store opened from cfg.
// A nil client is replaced by the HTTP client configured in cfg.PokeAPI.
func Wire(ctx context.Context, cfg *config.Config, client pokeapi.Client) (*Components, error) {
	policy, err := stats.NewStalenessPolicy(cfg.Cache.StalenessMode, cfg.Cache.StalenessDays)
	if err != nil {
		return nil, fmt.Errorf("stats.NewStalenessPolicy() > %w", err)
	}

	raw, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("OpenStore() > %w", err)
	}
	c := &Components{closers: []func() error{closeStore}}

	if client == nil {
		httpClient := pokeapi.NewClient(pokeapi.Options{
			BaseURL:           cfg.PokeAPI.BaseURL,
			Timeout:           cfg.PokeAPI.Timeout(),
			RequestsPerSecond: cfg.PokeAPI.RequestsPerSecond,
			Burst:             cfg.PokeAPI.Burst,
			MaxRetryAttempts:  cfg.PokeAPI.MaxRetryAttempts,
			RetryDelay:        cfg.PokeAPI.RetryDelay(),
			ListLimit:         cfg.PokeAPI.ListLimit,
		})
		c.closers = append(c.closers, httpClient.Close)
		client = httpClient
	}

	// The error log bypasses recovery: Record resets its own namespace.
	c.ErrorLog = errorlog.New(raw)
	c.Store = store.WithRecovery(raw, c.ErrorLog)

	c.Stats = stats.NewAggregator(client, c.Store, stats.Options{
		Policy:         policy,
		MaxConcurrency: cfg.Cache.MaxConcurrency,
	})
	c.Pokemon = pokemon.NewLookup(client)
	c.Sprites = sprites.NewIndex(client, c.Store)
	c.Controversy = controversy.NewLedger(client, c.Store)
	c.Catalog = catalog.New(client, c.Store)

	c.Resolver, err = resolver.New(resolver.Services{
		Stats:       c.Stats,
		Pokemon:     c.Pokemon,
		Sprites:     c.Sprites,
		Controversy: c.Controversy,
		Catalog:     c.Catalog,
	})
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("resolver.New() > %w", err)
	}
	return c, nil
}
