package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/mock/gomock"

	"github.com/rootasjey/pokestats/internal/catalog"
	"github.com/rootasjey/pokestats/internal/controversy"
	"github.com/rootasjey/pokestats/internal/errs"
	mock_pokeapi "github.com/rootasjey/pokestats/internal/mocks/pokeapi"
	"github.com/rootasjey/pokestats/internal/pokeapi"
	"github.com/rootasjey/pokestats/internal/pokemon"
	"github.com/rootasjey/pokestats/internal/sprites"
	"github.com/rootasjey/pokestats/internal/stats"
	"github.com/rootasjey/pokestats/internal/store"
)

type fakeStats struct {
	result stats.Result
	err    error
	got    stats.Query
}

func (f *fakeStats) AverageStats(_ context.Context, q stats.Query) (stats.Result, error) {
	f.got = q
	return f.result, f.err
}

type failingLedger struct{}

func (failingLedger) Get(context.Context, int) (controversy.Record, error) {
	return controversy.Record{}, errors.New("disk full")
}

func (failingLedger) Like(context.Context, int) (controversy.Record, error) {
	return controversy.Record{}, errors.New("disk full")
}

func (failingLedger) Dislike(context.Context, int) (controversy.Record, error) {
	return controversy.Record{}, errors.New("disk full")
}

func newTestResolver(t *testing.T, statsService StatsService) (*Resolver, *mock_pokeapi.MockClient) {
	t.Helper()
	client := mock_pokeapi.NewMockClient(gomock.NewController(t))
	st := store.NewMemoryStore()
	r, err := New(Services{
		Stats:       statsService,
		Pokemon:     pokemon.NewLookup(client),
		Sprites:     sprites.NewIndex(client, st),
		Controversy: controversy.NewLedger(client, st),
		Catalog:     catalog.New(client, st),
	})
	require.NoError(t, err)
	return r, client
}

func TestResolver_Version(t *testing.T) {
	r, _ := newTestResolver(t, &fakeStats{})
	assert.Equal(t, "1.5.0", r.Version())
}

func TestResolver_ControversyIDRange(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      int
		wantErr bool
	}{
		{name: "zero", id: 0, wantErr: true},
		{name: "negative", id: -3, wantErr: true},
		{name: "first", id: 1},
		{name: "last", id: 949},
		{name: "past the last", id: 950, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, client := newTestResolver(t, &fakeStats{})
			if !tt.wantErr {
				client.EXPECT().Pokemon(gomock.Any(), pokeapi.ByID(tt.id)).Return(&pokeapi.Pokemon{ID: tt.id, Name: "somebody"}, nil)
			}

			operations := map[string]func(context.Context, int) (controversy.Record, error){
				"controversy": r.Controversy,
				"like":        r.Like,
				"dislike":     r.Dislike,
			}
			for name, op := range operations {
				got, err := op(ctx, tt.id)
				if !tt.wantErr {
					require.NoError(t, err, name)
					assert.Equal(t, tt.id, got.ID, name)
					continue
				}

				var gqlErr *gqlerror.Error
				require.ErrorAs(t, err, &gqlErr, name)
				assert.Equal(t, "Pokemon's id must be between 1 and 949", gqlErr.Message)
				assert.Equal(t, CodeInvalidPokemonID, gqlErr.Extensions["code"])
				assert.Equal(t, name, gqlErr.Extensions["operation"])
				assert.True(t, IsClientError(err))
			}
		})
	}
}

func TestResolver_LikeThenDislike(t *testing.T) {
	ctx := context.Background()
	r, client := newTestResolver(t, &fakeStats{})
	client.EXPECT().Pokemon(gomock.Any(), pokeapi.ByID(150)).Return(&pokeapi.Pokemon{ID: 150, Name: "mewtwo"}, nil)

	_, err := r.Like(ctx, 150)
	require.NoError(t, err)
	_, err = r.Like(ctx, 150)
	require.NoError(t, err)
	got, err := r.Dislike(ctx, 150)
	require.NoError(t, err)
	assert.Equal(t, controversy.Record{ID: 150, Name: "mewtwo", Likes: 2, Dislikes: 1}, got)
}

func TestResolver_ControversyStoreFailure(t *testing.T) {
	r, err := New(Services{Controversy: failingLedger{}})
	require.NoError(t, err)

	_, err = r.Like(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, CodeInternal, Code(err))
	assert.False(t, IsClientError(err))
}

func TestResolver_AverageStats(t *testing.T) {
	ctx := context.Background()
	last := time.Date(2024, time.May, 10, 12, 30, 15, 250_000_000, time.UTC)

	tests := []struct {
		name  string
		fake  *fakeStats
		type1 string
		type2 string
		want  StatsResponse
	}{
		{
			name: "computed stats",
			fake: &fakeStats{result: stats.Result{
				Avg:          stats.Averages{HP: 50, Speed: 70},
				Meta:         stats.Meta{LastUpdated: &last},
				PokemonCount: 12,
				Types:        []string{"fire"},
			}},
			type1: "FIRE",
			want: StatsResponse{
				Avg:          stats.Averages{HP: 50, Speed: 70},
				Meta:         StatsMeta{LastUpdated: "2024-05-10T12:30:15.250Z"},
				PokemonCount: 12,
				Types:        []string{"fire"},
			},
		},
		{
			name: "zero aggregate has no timestamp",
			fake: &fakeStats{result: stats.Result{
				Types: []string{"ghost", "water"},
			}},
			type1: "WATER",
			type2: "GHOST",
			want: StatsResponse{
				Types: []string{"ghost", "water"},
			},
		},
		{
			name:  "failure yields the zero stats payload",
			fake:  &fakeStats{err: stats.ErrNoStats},
			type1: "FIRE",
			want: StatsResponse{
				Types: []string{},
				Error: stats.ErrNoStats.Error(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestResolver(t, tt.fake)
			got, err := r.AverageStats(ctx, tt.type1, tt.type2, true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, stats.Query{Type1: tt.type1, Type2: tt.type2, UseCache: true}, tt.fake.got)
		})
	}
}

func TestResolver_AverageStats_RequiresType(t *testing.T) {
	r, _ := newTestResolver(t, &fakeStats{})
	_, err := r.AverageStats(context.Background(), "", "fire", true)
	require.Error(t, err)
	assert.Equal(t, CodeBadUserInput, Code(err))
	assert.Contains(t, err.Error(), "type1")
}

func TestResolver_Sprites(t *testing.T) {
	ctx := context.Background()
	r, client := newTestResolver(t, &fakeStats{})
	client.EXPECT().Pokemon(gomock.Any(), pokeapi.ByID(7)).Return(nil, errs.ErrNotFound)
	client.EXPECT().Pokemon(gomock.Any(), pokeapi.ByName("psyduck")).Return(&pokeapi.Pokemon{ID: 54, Name: "psyduck"}, nil)

	byID := r.SpritesByID(ctx, 7)
	require.Len(t, byID, 1)
	require.NotNil(t, byID[0].ID)
	assert.Equal(t, 7, *byID[0].ID)
	assert.Nil(t, byID[0].Sprites)

	byName := r.SpritesByNames(ctx, []string{"psyduck"})
	require.Len(t, byName, 1)
	require.NotNil(t, byName[0].ID)
	assert.Equal(t, 54, *byName[0].ID)
}

func TestResolver_SpritesByIDs_AnyID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		id   int
	}{
		{name: "zero", id: 0},
		{name: "negative", id: -1},
		{name: "past the last", id: 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, client := newTestResolver(t, &fakeStats{})
			client.EXPECT().Pokemon(gomock.Any(), pokeapi.ByID(1)).Return(&pokeapi.Pokemon{ID: 1, Name: "bulbasaur"}, nil)
			client.EXPECT().Pokemon(gomock.Any(), pokeapi.ByID(tt.id)).Return(nil, errs.ErrNotFound)

			got := r.SpritesByIDs(ctx, []int{1, tt.id})
			require.Len(t, got, 2)
			require.NotNil(t, got[0].Sprites)
			assert.Equal(t, sprites.Record{ID: &tt.id}, got[1])
		})
	}
}

func TestResolver_Pokemon(t *testing.T) {
	ctx := context.Background()
	r, client := newTestResolver(t, &fakeStats{})
	client.EXPECT().Pokemon(gomock.Any(), pokeapi.ByID(54)).Return(&pokeapi.Pokemon{ID: 54, Name: "psyduck", Height: 8}, nil).Times(2)
	client.EXPECT().Pokemon(gomock.Any(), pokeapi.ByID(0)).Return(nil, errs.ErrNotFound)
	client.EXPECT().Pokemon(gomock.Any(), pokeapi.ByName("psyduck")).Return(&pokeapi.Pokemon{ID: 54, Name: "psyduck"}, nil).Times(2)
	client.EXPECT().Pokemon(gomock.Any(), pokeapi.ByName("agumon")).Return(nil, errs.ErrNotFound)

	byID := r.PokemonByID(ctx, 54)
	require.Len(t, byID, 1)
	require.NotNil(t, byID[0].Height)
	assert.Equal(t, 8, *byID[0].Height)

	byIDs := r.PokemonsByIDs(ctx, []int{0, 54})
	require.Len(t, byIDs, 2)
	assert.Equal(t, pokemon.Record{ID: ptr(0)}, byIDs[0])
	assert.Equal(t, ptr("psyduck"), byIDs[1].Name)

	byName := r.PokemonByName(ctx, "psyduck")
	require.Len(t, byName, 1)
	assert.Equal(t, ptr(54), byName[0].ID)

	byNames := r.PokemonsByNames(ctx, []string{"psyduck", "agumon"})
	require.Len(t, byNames, 2)
	assert.Equal(t, ptr(54), byNames[0].ID)
	assert.Equal(t, pokemon.Record{Name: ptr("agumon")}, byNames[1])
}

func TestResolver_List(t *testing.T) {
	ctx := context.Background()
	r, client := newTestResolver(t, &fakeStats{})
	client.EXPECT().PokemonList(gomock.Any()).Return(&pokeapi.PokemonList{
		Count:   2,
		Results: []pokeapi.NamedResource{{Name: "bulbasaur"}, {Name: "ivysaur"}},
	}, nil)

	page, err := r.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "ivysaur", page.Results[0].Name)
	assert.Equal(t, 2, page.Results[0].ID)

	_, err = r.List(ctx, -1, 0)
	assert.Equal(t, CodeBadUserInput, Code(err))
}

func ptr[T any](v T) *T {
	return &v
}
