// Package catalog serves pages of the Pokémon list, enriched with whatever
// sprites are already cached.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/rootasjey/pokestats/internal/pokeapi"
	"github.com/rootasjey/pokestats/internal/sprites"
	"github.com/rootasjey/pokestats/internal/store"
)

const listKey = "pokemon"

type Entity struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type entityList struct {
	Count   int      `json:"count"`
	Results []Entity `json:"results"`
}

type Item struct {
	ID      int              `json:"id" yaml:"id"`
	Name    string           `json:"name" yaml:"name"`
	URL     string           `json:"url" yaml:"url"`
	Sprites *sprites.Sprites `json:"sprites,omitempty" yaml:"sprites,omitempty"`
}

type Page struct {
	Count   int    `json:"count" yaml:"count"`
	End     int    `json:"end" yaml:"end"`
	Results []Item `json:"results" yaml:"results"`
	Start   int    `json:"start" yaml:"start"`
}

type Catalog struct {
	client pokeapi.Client
	store  store.Store
}

func New(client pokeapi.Client, st store.Store) *Catalog {
	return &Catalog{
		client: client,
		store:  st,
	}
}

// List returns the entities numbered start to end, both inclusive and
// starting at 1. start defaults to 1 and end to the last entity when they are
// not positive.
func (c *Catalog) List(ctx context.Context, start, end int) (Page, error) {
	if start <= 0 {
		start = 1
	}

	list, err := c.entities(ctx)
	if err != nil {
		slog.Default().Warn("pokemon list unavailable", slog.Any("error", err))
		list = entityList{}
	}

	from := min(start-1, len(list.Results))
	to := len(list.Results)
	if end > 0 {
		to = min(end, len(list.Results))
	}
	if to < from {
		to = from
	}

	items := c.withSprites(ctx, list.Results[from:to])
	pageEnd := end
	if end <= 0 {
		pageEnd = len(items)
	}
	return Page{
		Count:   len(items),
		End:     pageEnd,
		Results: items,
		Start:   start,
	}, nil
}

// entities reads the cached list, fetching and numbering it on first use.
func (c *Catalog) entities(ctx context.Context) (entityList, error) {
	list, ok, err := store.GetJSON[entityList](ctx, c.store, store.NamespaceList, listKey)
	if err == nil && ok {
		return list, nil
	}

	upstream, err := c.client.PokemonList(ctx)
	if err != nil {
		return entityList{}, fmt.Errorf("client.PokemonList() > %w", err)
	}

	list = entityList{
		Count:   upstream.Count,
		Results: make([]Entity, 0, len(upstream.Results)),
	}
	for i, result := range upstream.Results {
		list.Results = append(list.Results, Entity{ID: i + 1, Name: result.Name, URL: result.URL})
	}
	if err := store.PutJSON(ctx, c.store, store.NamespaceList, listKey, list); err != nil {
		slog.Default().Warn("failed to cache pokemon list", slog.Any("error", err))
	}
	return list, nil
}

func (c *Catalog) withSprites(ctx context.Context, entities []Entity) []Item {
	byID := c.spriteSnapshot(ctx, store.NamespaceSpritesByID)
	byName := c.spriteSnapshot(ctx, store.NamespaceSpritesByName)

	items := make([]Item, 0, len(entities))
	for _, entity := range entities {
		item := Item{ID: entity.ID, Name: entity.Name, URL: entity.URL}
		ns, key := store.NamespaceSpritesByID, strconv.Itoa(entity.ID)
		doc, ok := byID[key]
		if !ok {
			ns, key = store.NamespaceSpritesByName, entity.Name
			doc, ok = byName[key]
		}
		if ok {
			record, err := store.DecodeJSON[sprites.Record](ctx, c.store, ns, key, doc)
			if err == nil {
				item.Sprites = record.Sprites
			}
		}
		items = append(items, item)
	}
	return items
}

func (c *Catalog) spriteSnapshot(ctx context.Context, ns store.Namespace) map[string]json.RawMessage {
	docs, err := c.store.GetNamespace(ctx, ns)
	if err != nil {
		slog.Default().Warn("sprite index unreadable",
			slog.String("namespace", string(ns)),
			slog.Any("error", err))
		return nil
	}
	return docs
}
