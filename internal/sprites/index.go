// Package sprites keeps two synchronised caches of Pokémon sprite URLs, one
// keyed by id and one keyed by name, filled lazily from the upstream.
package sprites

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/rootasjey/pokestats/internal/pokeapi"
	"github.com/rootasjey/pokestats/internal/store"
)

type Sprites struct {
	DefaultBack       *string `json:"defaultBack" yaml:"defaultBack"`
	DefaultFront      *string `json:"defaultFront" yaml:"defaultFront"`
	DefaultShinyBack  *string `json:"defaultShinyBack" yaml:"defaultShinyBack"`
	DefaultShinyFront *string `json:"defaultShinyFront" yaml:"defaultShinyFront"`
	FemaleBack        *string `json:"femaleBack" yaml:"femaleBack"`
	FemaleFront       *string `json:"femaleFront" yaml:"femaleFront"`
	FemaleShinyBack   *string `json:"femaleShinyBack" yaml:"femaleShinyBack"`
	FemaleShinyFront  *string `json:"femaleShinyFront" yaml:"femaleShinyFront"`
}

// FromUpstream renames the upstream sprite fields.
func FromUpstream(s pokeapi.Sprites) Sprites {
	return Sprites{
		DefaultBack:       s.BackDefault,
		DefaultFront:      s.FrontDefault,
		DefaultShinyBack:  s.BackShiny,
		DefaultShinyFront: s.FrontShiny,
		FemaleBack:        s.BackFemale,
		FemaleFront:       s.FrontFemale,
		FemaleShinyBack:   s.BackShinyFemale,
		FemaleShinyFront:  s.FrontShinyFemale,
	}
}

// Record is the cached sprite set of one Pokémon. When the upstream could
// not resolve it, only the requested identity is set.
type Record struct {
	ID      *int     `json:"id" yaml:"id"`
	Name    *string  `json:"name" yaml:"name"`
	Sprites *Sprites `json:"sprites" yaml:"sprites"`
}

type Index struct {
	client pokeapi.Client
	store  store.Store
	group  singleflight.Group
}

func NewIndex(client pokeapi.Client, st store.Store) *Index {
	return &Index{
		client: client,
		store:  st,
	}
}

func (idx *Index) ByID(ctx context.Context, id int) Record {
	return idx.ByIDs(ctx, []int{id})[0]
}

func (idx *Index) ByName(ctx context.Context, name string) Record {
	return idx.ByNames(ctx, []string{name})[0]
}

// ByIDs resolves every id concurrently against one snapshot of the by-id
// index. Results follow the order of ids.
func (idx *Index) ByIDs(ctx context.Context, ids []int) []Record {
	snapshot := idx.snapshot(ctx, store.NamespaceSpritesByID)
	records := make([]Record, len(ids))

	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			records[i] = idx.resolve(ctx, snapshot, pokeapi.ByID(id))
			return nil
		})
	}
	_ = g.Wait()
	return records
}

// ByNames resolves every name concurrently against one snapshot of the
// by-name index. Results follow the order of names.
func (idx *Index) ByNames(ctx context.Context, names []string) []Record {
	snapshot := idx.snapshot(ctx, store.NamespaceSpritesByName)
	records := make([]Record, len(names))

	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			records[i] = idx.resolve(ctx, snapshot, pokeapi.ByName(name))
			return nil
		})
	}
	_ = g.Wait()
	return records
}

func (idx *Index) snapshot(ctx context.Context, ns store.Namespace) map[string]json.RawMessage {
	docs, err := idx.store.GetNamespace(ctx, ns)
	if err != nil {
		slog.Default().Warn("sprite index unreadable, starting empty",
			slog.String("namespace", string(ns)),
			slog.Any("error", err))
		return map[string]json.RawMessage{}
	}
	return docs
}

func (idx *Index) resolve(ctx context.Context, snapshot map[string]json.RawMessage, ref pokeapi.Ref) Record {
	key := ref.String()
	ns, flightKey := store.NamespaceSpritesByID, "id:"+key
	if _, byName := ref.Name(); byName {
		ns, flightKey = store.NamespaceSpritesByName, "name:"+key
	}

	if doc, ok := snapshot[key]; ok {
		record, err := store.DecodeJSON[Record](ctx, idx.store, ns, key, doc)
		if err == nil {
			return record
		}
		slog.Default().Warn("ignoring unreadable sprite record", slog.String("key", key))
	}

	// The flight outlives any single caller: a caller that gives up gets
	// the unresolved record while the others still receive the sprites.
	flight := idx.group.DoChan(flightKey, func() (any, error) {
		return idx.fetch(context.WithoutCancel(ctx), ref), nil
	})
	select {
	case result := <-flight:
		return result.Val.(Record)
	case <-ctx.Done():
		return unresolved(ref)
	}
}

func unresolved(ref pokeapi.Ref) Record {
	if id, ok := ref.ID(); ok {
		return Record{ID: &id}
	}
	name, _ := ref.Name()
	return Record{Name: &name}
}

// fetch loads the sprites of ref upstream and writes them to both indexes in
// one store write. The converse entry never replaces an existing one.
func (idx *Index) fetch(ctx context.Context, ref pokeapi.Ref) Record {
	id, byID := ref.ID()
	name, _ := ref.Name()

	pokemon, err := idx.client.Pokemon(ctx, ref)
	if err != nil || pokemon == nil {
		slog.Default().Debug("sprites unavailable",
			slog.String("ref", ref.String()),
			slog.Any("error", err))
		return unresolved(ref)
	}

	if byID {
		name = pokemon.Name
	} else {
		id = pokemon.ID
	}
	sprites := FromUpstream(pokemon.Sprites)
	record := Record{ID: &id, Name: &name, Sprites: &sprites}

	byIDEntry, err := store.NewEntry(store.NamespaceSpritesByID, strconv.Itoa(id), record, !byID)
	if err != nil {
		slog.Default().Warn("failed to encode sprites", slog.Any("error", err))
		return record
	}
	byNameEntry, err := store.NewEntry(store.NamespaceSpritesByName, name, record, byID)
	if err != nil {
		slog.Default().Warn("failed to encode sprites", slog.Any("error", err))
		return record
	}

	entries := []store.Entry{byIDEntry, byNameEntry}
	if !byID {
		entries = []store.Entry{byNameEntry, byIDEntry}
	}
	if err := idx.store.Write(ctx, entries...); err != nil {
		slog.Default().Warn("failed to cache sprites",
			slog.String("ref", ref.String()),
			slog.Any("error", err))
	}
	return record
}
