// Package pokemon serves full Pokémon records straight from the upstream,
// reshaped to camelCase field names. Nothing is cached.
package pokemon

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/rootasjey/pokestats/internal/pokeapi"
	"github.com/rootasjey/pokestats/internal/sprites"
)

type Ability struct {
	Ability  pokeapi.NamedResource `json:"ability" yaml:"ability"`
	IsHidden bool                  `json:"isHidden" yaml:"isHidden"`
	Slot     int                   `json:"slot" yaml:"slot"`
}

type GameIndex struct {
	GameIndex int                   `json:"gameIndex" yaml:"gameIndex"`
	Version   pokeapi.NamedResource `json:"version" yaml:"version"`
}

type HeldItem struct {
	Item           pokeapi.NamedResource     `json:"item" yaml:"item"`
	VersionDetails []pokeapi.HeldItemVersion `json:"versionDetails" yaml:"versionDetails"`
}

type Move struct {
	Move                pokeapi.NamedResource `json:"move" yaml:"move"`
	VersionGroupDetails []VersionGroupDetail  `json:"versionGroupDetails" yaml:"versionGroupDetails"`
}

type VersionGroupDetail struct {
	LevelLearnedAt  int                   `json:"levelLearnedAt" yaml:"levelLearnedAt"`
	MoveLearnMethod pokeapi.NamedResource `json:"moveLearnMethod" yaml:"moveLearnMethod"`
	VersionGroup    pokeapi.NamedResource `json:"versionGroup" yaml:"versionGroup"`
}

type Stat struct {
	BaseStat int                   `json:"baseStat" yaml:"baseStat"`
	Effort   int                   `json:"effort" yaml:"effort"`
	Stat     pokeapi.NamedResource `json:"stat" yaml:"stat"`
}

// Record is one Pokémon. When the upstream could not resolve it, only the
// requested identity is set and every other field is null.
type Record struct {
	Abilities              []Ability               `json:"abilities" yaml:"abilities"`
	BaseExperience         *int                    `json:"baseExperience" yaml:"baseExperience"`
	Forms                  []pokeapi.NamedResource `json:"forms" yaml:"forms"`
	GameIndices            []GameIndex             `json:"gameIndices" yaml:"gameIndices"`
	Height                 *int                    `json:"height" yaml:"height"`
	HeldItems              []HeldItem              `json:"heldItems" yaml:"heldItems"`
	ID                     *int                    `json:"id" yaml:"id"`
	IsDefault              *bool                   `json:"isDefault" yaml:"isDefault"`
	LocationAreaEncounters *string                 `json:"locationAreaEncounters" yaml:"locationAreaEncounters"`
	Moves                  []Move                  `json:"moves" yaml:"moves"`
	Name                   *string                 `json:"name" yaml:"name"`
	Order                  *int                    `json:"order" yaml:"order"`
	Species                *pokeapi.NamedResource  `json:"species" yaml:"species"`
	Sprites                *sprites.Sprites        `json:"sprites" yaml:"sprites"`
	Stats                  []Stat                  `json:"stats" yaml:"stats"`
	Types                  []pokeapi.TypeSlot      `json:"types" yaml:"types"`
	Weight                 *int                    `json:"weight" yaml:"weight"`
}

// FromUpstream reshapes an upstream Pokémon.
func FromUpstream(p pokeapi.Pokemon) Record {
	record := Record{
		Abilities:              make([]Ability, 0, len(p.Abilities)),
		BaseExperience:         &p.BaseExperience,
		Forms:                  p.Forms,
		GameIndices:            make([]GameIndex, 0, len(p.GameIndices)),
		Height:                 &p.Height,
		HeldItems:              make([]HeldItem, 0, len(p.HeldItems)),
		ID:                     &p.ID,
		IsDefault:              &p.IsDefault,
		LocationAreaEncounters: &p.LocationAreaEncounters,
		Moves:                  make([]Move, 0, len(p.Moves)),
		Name:                   &p.Name,
		Order:                  &p.Order,
		Species:                &p.Species,
		Stats:                  make([]Stat, 0, len(p.Stats)),
		Types:                  p.Types,
		Weight:                 &p.Weight,
	}
	s := sprites.FromUpstream(p.Sprites)
	record.Sprites = &s

	for _, a := range p.Abilities {
		record.Abilities = append(record.Abilities, Ability{Ability: a.Ability, IsHidden: a.IsHidden, Slot: a.Slot})
	}
	for _, g := range p.GameIndices {
		record.GameIndices = append(record.GameIndices, GameIndex{GameIndex: g.GameIndex, Version: g.Version})
	}
	for _, h := range p.HeldItems {
		record.HeldItems = append(record.HeldItems, HeldItem{Item: h.Item, VersionDetails: h.VersionDetails})
	}
	for _, m := range p.Moves {
		move := Move{Move: m.Move, VersionGroupDetails: make([]VersionGroupDetail, 0, len(m.VersionGroupDetails))}
		for _, d := range m.VersionGroupDetails {
			move.VersionGroupDetails = append(move.VersionGroupDetails, VersionGroupDetail{
				LevelLearnedAt:  d.LevelLearnedAt,
				MoveLearnMethod: d.MoveLearnMethod,
				VersionGroup:    d.VersionGroup,
			})
		}
		record.Moves = append(record.Moves, move)
	}
	for _, st := range p.Stats {
		record.Stats = append(record.Stats, Stat{BaseStat: st.BaseStat, Effort: st.Effort, Stat: st.Stat})
	}
	return record
}

type Lookup struct {
	client pokeapi.Client
}

func NewLookup(client pokeapi.Client) *Lookup {
	return &Lookup{client: client}
}

func (l *Lookup) ByID(ctx context.Context, id int) Record {
	return l.ByIDs(ctx, []int{id})[0]
}

func (l *Lookup) ByName(ctx context.Context, name string) Record {
	return l.ByNames(ctx, []string{name})[0]
}

// ByIDs fetches every id concurrently. Results follow the order of ids.
func (l *Lookup) ByIDs(ctx context.Context, ids []int) []Record {
	refs := make([]pokeapi.Ref, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, pokeapi.ByID(id))
	}
	return l.fetchAll(ctx, refs)
}

// ByNames fetches every name concurrently. Results follow the order of names.
func (l *Lookup) ByNames(ctx context.Context, names []string) []Record {
	refs := make([]pokeapi.Ref, 0, len(names))
	for _, name := range names {
		refs = append(refs, pokeapi.ByName(name))
	}
	return l.fetchAll(ctx, refs)
}

func (l *Lookup) fetchAll(ctx context.Context, refs []pokeapi.Ref) []Record {
	records := make([]Record, len(refs))

	var g errgroup.Group
	for i, ref := range refs {
		g.Go(func() error {
			records[i] = l.fetch(ctx, ref)
			return nil
		})
	}
	_ = g.Wait()
	return records
}

func (l *Lookup) fetch(ctx context.Context, ref pokeapi.Ref) Record {
	p, err := l.client.Pokemon(ctx, ref)
	if err != nil || p == nil {
		slog.Default().Debug("pokemon unavailable",
			slog.String("ref", ref.String()),
			slog.Any("error", err))
		if id, ok := ref.ID(); ok {
			return Record{ID: &id}
		}
		name, _ := ref.Name()
		return Record{Name: &name}
	}
	return FromUpstream(*p)
}
