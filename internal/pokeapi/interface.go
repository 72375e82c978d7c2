package pokeapi

import (
	"context"
	"strconv"
)

//go:generate mockgen -source=interface.go -destination=../mocks/pokeapi/mock_client.go -package=mock_pokeapi

// Client is the upstream capability set the cache layer depends on.
type Client interface {
	Pokemon(ctx context.Context, ref Ref) (*Pokemon, error)
	Types(ctx context.Context, names []string) ([]Type, error)
	PokemonList(ctx context.Context) (*PokemonList, error)
}

const (
	DefaultBaseURL          = "https://pokeapi.co/api/v2"
	DefaultMaxRetryAttempts = 3
)

type refKind int

const (
	refByID refKind = iota + 1
	refByName
)

// Ref identifies a Pokémon either by its numeric id or by its name.
type Ref struct {
	kind refKind
	id   int
	name string
}

func ByID(id int) Ref {
	return Ref{kind: refByID, id: id}
}

func ByName(name string) Ref {
	return Ref{kind: refByName, name: name}
}

// ID returns the id when the reference was built with ByID.
func (r Ref) ID() (int, bool) {
	return r.id, r.kind == refByID
}

// Name returns the name when the reference was built with ByName.
func (r Ref) Name() (string, bool) {
	return r.name, r.kind == refByName
}

// String renders the reference as an URL path segment.
func (r Ref) String() string {
	if r.kind == refByID {
		return strconv.Itoa(r.id)
	}
	return r.name
}

type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Pokemon struct {
	Abilities              []AbilitySlot   `json:"abilities"`
	BaseExperience         int             `json:"base_experience"`
	Forms                  []NamedResource `json:"forms"`
	GameIndices            []GameIndex     `json:"game_indices"`
	Height                 int             `json:"height"`
	HeldItems              []HeldItem      `json:"held_items"`
	ID                     int             `json:"id"`
	IsDefault              bool            `json:"is_default"`
	LocationAreaEncounters string          `json:"location_area_encounters"`
	Moves                  []MoveEntry     `json:"moves"`
	Name                   string          `json:"name"`
	Order                  int             `json:"order"`
	Species                NamedResource   `json:"species"`
	Sprites                Sprites         `json:"sprites"`
	Stats                  []Stat          `json:"stats"`
	Types                  []TypeSlot      `json:"types"`
	Weight                 int             `json:"weight"`
}

type AbilitySlot struct {
	Ability  NamedResource `json:"ability"`
	IsHidden bool          `json:"is_hidden"`
	Slot     int           `json:"slot"`
}

type GameIndex struct {
	GameIndex int           `json:"game_index"`
	Version   NamedResource `json:"version"`
}

type HeldItem struct {
	Item           NamedResource     `json:"item"`
	VersionDetails []HeldItemVersion `json:"version_details"`
}

type HeldItemVersion struct {
	Rarity  int           `json:"rarity"`
	Version NamedResource `json:"version"`
}

type MoveEntry struct {
	Move                NamedResource        `json:"move"`
	VersionGroupDetails []VersionGroupDetail `json:"version_group_details"`
}

type VersionGroupDetail struct {
	LevelLearnedAt  int           `json:"level_learned_at"`
	MoveLearnMethod NamedResource `json:"move_learn_method"`
	VersionGroup    NamedResource `json:"version_group"`
}

type Sprites struct {
	BackDefault      *string `json:"back_default"`
	BackFemale       *string `json:"back_female"`
	BackShiny        *string `json:"back_shiny"`
	BackShinyFemale  *string `json:"back_shiny_female"`
	FrontDefault     *string `json:"front_default"`
	FrontFemale      *string `json:"front_female"`
	FrontShiny       *string `json:"front_shiny"`
	FrontShinyFemale *string `json:"front_shiny_female"`
}

type Stat struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}

type TypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// Type is a Pokémon type along with the Pokémon belonging to it.
type Type struct {
	ID      int          `json:"id"`
	Name    string       `json:"name"`
	Pokemon []TypeMember `json:"pokemon"`
}

type TypeMember struct {
	Slot    int           `json:"slot"`
	Pokemon NamedResource `json:"pokemon"`
}

// MemberNames returns the names of the Pokémon of the type in upstream order.
func (t Type) MemberNames() []string {
	names := make([]string, 0, len(t.Pokemon))
	for _, member := range t.Pokemon {
		names = append(names, member.Pokemon.Name)
	}
	return names
}

type PokemonList struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}
