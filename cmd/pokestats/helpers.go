package main

import (
	"context"
	"fmt"

	"github.com/rootasjey/pokestats/internal/bootstrap"
	"github.com/rootasjey/pokestats/internal/config"
	"github.com/rootasjey/pokestats/internal/pokeapi"
)

// upstream replaces the configured HTTP client when set.
var upstream pokeapi.Client

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if storeDriver != "" {
		cfg.Store.Driver = string(storeDriver)
	}
	return cfg, nil
}

// withComponents wires the caches for one command and closes them after fn.
func withComponents(ctx context.Context, fn func(c *bootstrap.Components) error) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := bootstrap.Wire(ctx, cfg, upstream)
	if err != nil {
		return fmt.Errorf("bootstrap.Wire() > %w", err)
	}
	defer func() {
		if closeErr := c.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("Components.Close() > %w", closeErr)
		}
	}()
	return fn(c)
}
