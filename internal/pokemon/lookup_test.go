package pokemon

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rootasjey/pokestats/internal/errs"
	mock_pokeapi "github.com/rootasjey/pokestats/internal/mocks/pokeapi"
	"github.com/rootasjey/pokestats/internal/pokeapi"
)

func ptr[T any](v T) *T {
	return &v
}

func named(name string) pokeapi.NamedResource {
	return pokeapi.NamedResource{Name: name, URL: "https://pokeapi.co/api/v2/" + name}
}

func upstreamPokemon(id int, name string) *pokeapi.Pokemon {
	return &pokeapi.Pokemon{
		Abilities:              []pokeapi.AbilitySlot{{Ability: named("static"), IsHidden: false, Slot: 1}},
		BaseExperience:         112,
		Forms:                  []pokeapi.NamedResource{named(name)},
		GameIndices:            []pokeapi.GameIndex{{GameIndex: 84, Version: named("red")}},
		Height:                 4,
		HeldItems:              []pokeapi.HeldItem{{Item: named("oran-berry"), VersionDetails: []pokeapi.HeldItemVersion{{Rarity: 50, Version: named("x")}}}},
		ID:                     id,
		IsDefault:              true,
		LocationAreaEncounters: "https://pokeapi.co/api/v2/pokemon/25/encounters",
		Moves: []pokeapi.MoveEntry{{
			Move: named("thunder-shock"),
			VersionGroupDetails: []pokeapi.VersionGroupDetail{{
				LevelLearnedAt:  1,
				MoveLearnMethod: named("level-up"),
				VersionGroup:    named("red-blue"),
			}},
		}},
		Name:    name,
		Order:   35,
		Species: named(name),
		Sprites: pokeapi.Sprites{FrontDefault: ptr("https://img.example/" + name + ".png")},
		Stats:   []pokeapi.Stat{{BaseStat: 35, Effort: 0, Stat: named("hp")}},
		Types:   []pokeapi.TypeSlot{{Slot: 1, Type: named("electric")}},
		Weight:  60,
	}
}

func newTestLookup(t *testing.T) (*Lookup, *mock_pokeapi.MockClient) {
	t.Helper()
	client := mock_pokeapi.NewMockClient(gomock.NewController(t))
	return NewLookup(client), client
}

func TestFromUpstream(t *testing.T) {
	encoded, err := json.Marshal(FromUpstream(*upstreamPokemon(25, "pikachu")))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(encoded, &got))

	assert.Equal(t, float64(25), got["id"])
	assert.Equal(t, "pikachu", got["name"])
	assert.Equal(t, float64(112), got["baseExperience"])
	assert.Equal(t, true, got["isDefault"])
	assert.Equal(t, "https://pokeapi.co/api/v2/pokemon/25/encounters", got["locationAreaEncounters"])
	assert.Equal(t, float64(35), got["order"])
	assert.Equal(t, float64(4), got["height"])
	assert.Equal(t, float64(60), got["weight"])

	assert.JSONEq(t, `[{"ability":{"name":"static","url":"https://pokeapi.co/api/v2/static"},"isHidden":false,"slot":1}]`,
		mustJSON(t, got["abilities"]))
	assert.JSONEq(t, `[{"gameIndex":84,"version":{"name":"red","url":"https://pokeapi.co/api/v2/red"}}]`,
		mustJSON(t, got["gameIndices"]))
	assert.JSONEq(t, `[{"item":{"name":"oran-berry","url":"https://pokeapi.co/api/v2/oran-berry"},
		"versionDetails":[{"rarity":50,"version":{"name":"x","url":"https://pokeapi.co/api/v2/x"}}]}]`,
		mustJSON(t, got["heldItems"]))
	assert.JSONEq(t, `[{"move":{"name":"thunder-shock","url":"https://pokeapi.co/api/v2/thunder-shock"},
		"versionGroupDetails":[{"levelLearnedAt":1,
			"moveLearnMethod":{"name":"level-up","url":"https://pokeapi.co/api/v2/level-up"},
			"versionGroup":{"name":"red-blue","url":"https://pokeapi.co/api/v2/red-blue"}}]}]`,
		mustJSON(t, got["moves"]))
	assert.JSONEq(t, `[{"baseStat":35,"effort":0,"stat":{"name":"hp","url":"https://pokeapi.co/api/v2/hp"}}]`,
		mustJSON(t, got["stats"]))
	assert.JSONEq(t, `[{"slot":1,"type":{"name":"electric","url":"https://pokeapi.co/api/v2/electric"}}]`,
		mustJSON(t, got["types"]))

	sprites, ok := got["sprites"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "https://img.example/pikachu.png", sprites["defaultFront"])
	assert.Nil(t, sprites["femaleBack"])
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	encoded, err := json.Marshal(v)
	require.NoError(t, err)
	return string(encoded)
}

func TestLookup_Unresolved(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(client *mock_pokeapi.MockClient)
		run   func(l *Lookup) Record
		want  string
	}{
		{
			name: "by id keeps the id",
			setup: func(client *mock_pokeapi.MockClient) {
				client.EXPECT().Pokemon(gomock.Any(), pokeapi.ByID(9999)).Return(nil, errs.ErrNotFound)
			},
			run:  func(l *Lookup) Record { return l.ByID(ctx, 9999) },
			want: `{"id":9999,"name":null}`,
		},
		{
			name: "by name keeps the name",
			setup: func(client *mock_pokeapi.MockClient) {
				client.EXPECT().Pokemon(gomock.Any(), pokeapi.ByName("missingno")).Return(nil, errs.ErrUpstreamUnavailable)
			},
			run:  func(l *Lookup) Record { return l.ByName(ctx, "missingno") },
			want: `{"id":null,"name":"missingno"}`,
		},
		{
			name: "empty upstream answer",
			setup: func(client *mock_pokeapi.MockClient) {
				client.EXPECT().Pokemon(gomock.Any(), pokeapi.ByID(0)).Return(nil, nil)
			},
			run:  func(l *Lookup) Record { return l.ByID(ctx, 0) },
			want: `{"id":0,"name":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, client := newTestLookup(t)
			tt.setup(client)

			encoded, err := json.Marshal(tt.run(l))
			require.NoError(t, err)

			var got map[string]any
			require.NoError(t, json.Unmarshal(encoded, &got))
			var want map[string]any
			require.NoError(t, json.Unmarshal([]byte(tt.want), &want))
			for key, value := range want {
				assert.Equal(t, value, got[key], key)
			}
			for key, value := range got {
				if _, ok := want[key]; !ok {
					assert.Nil(t, value, key)
				}
			}
		})
	}
}

func TestLookup_ByIDs(t *testing.T) {
	ctx := context.Background()
	l, client := newTestLookup(t)

	var inFlight, peak atomic.Int32
	slow := func(p *pokeapi.Pokemon, err error) func(context.Context, pokeapi.Ref) (*pokeapi.Pokemon, error) {
		return func(context.Context, pokeapi.Ref) (*pokeapi.Pokemon, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				current := peak.Load()
				if n <= current || peak.CompareAndSwap(current, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			return p, err
		}
	}
	client.EXPECT().Pokemon(gomock.Any(), pokeapi.ByID(25)).DoAndReturn(slow(upstreamPokemon(25, "pikachu"), nil))
	client.EXPECT().Pokemon(gomock.Any(), pokeapi.ByID(0)).DoAndReturn(slow(nil, errs.ErrNotFound))
	client.EXPECT().Pokemon(gomock.Any(), pokeapi.ByID(133)).DoAndReturn(slow(upstreamPokemon(133, "eevee"), nil))

	got := l.ByIDs(ctx, []int{25, 0, 133})
	require.Len(t, got, 3)
	assert.Equal(t, ptr("pikachu"), got[0].Name)
	assert.Equal(t, ptr(0), got[1].ID)
	assert.Nil(t, got[1].Name)
	assert.Nil(t, got[1].Stats)
	assert.Equal(t, ptr("eevee"), got[2].Name)
	assert.Greater(t, peak.Load(), int32(1))
}

func TestLookup_ByNames(t *testing.T) {
	ctx := context.Background()
	l, client := newTestLookup(t)
	client.EXPECT().Pokemon(gomock.Any(), pokeapi.ByName("eevee")).Return(upstreamPokemon(133, "eevee"), nil)
	client.EXPECT().Pokemon(gomock.Any(), pokeapi.ByName("pikachu")).Return(upstreamPokemon(25, "pikachu"), nil)

	got := l.ByNames(ctx, []string{"eevee", "pikachu"})
	require.Len(t, got, 2)
	assert.Equal(t, ptr(133), got[0].ID)
	assert.Equal(t, ptr(25), got[1].ID)
}
