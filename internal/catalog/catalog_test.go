package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rootasjey/pokestats/internal/errs"
	mock_pokeapi "github.com/rootasjey/pokestats/internal/mocks/pokeapi"
	"github.com/rootasjey/pokestats/internal/pokeapi"
	"github.com/rootasjey/pokestats/internal/sprites"
	"github.com/rootasjey/pokestats/internal/store"
)

func upstreamList(names ...string) *pokeapi.PokemonList {
	list := &pokeapi.PokemonList{Count: len(names)}
	for _, name := range names {
		list.Results = append(list.Results, pokeapi.NamedResource{Name: name, URL: "https://pokeapi.co/api/v2/pokemon/" + name + "/"})
	}
	return list
}

func TestCatalog_List(t *testing.T) {
	ctx := context.Background()
	names := []string{"bulbasaur", "ivysaur", "venusaur", "charmander", "charmeleon"}

	tests := []struct {
		name      string
		start     int
		end       int
		wantNames []string
		wantStart int
		wantEnd   int
	}{
		{name: "whole list", start: 0, end: 0, wantNames: names, wantStart: 1, wantEnd: 5},
		{name: "first page", start: 1, end: 2, wantNames: names[:2], wantStart: 1, wantEnd: 2},
		{name: "middle page", start: 3, end: 4, wantNames: names[2:4], wantStart: 3, wantEnd: 4},
		{name: "end past the list", start: 4, end: 99, wantNames: names[3:], wantStart: 4, wantEnd: 99},
		{name: "start past the list", start: 10, end: 12, wantNames: []string{}, wantStart: 10, wantEnd: 12},
		{name: "inverted range", start: 4, end: 2, wantNames: []string{}, wantStart: 4, wantEnd: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mock_pokeapi.NewMockClient(gomock.NewController(t))
			client.EXPECT().PokemonList(gomock.Any()).Return(upstreamList(names...), nil)
			c := New(client, store.NewMemoryStore())

			got, err := c.List(ctx, tt.start, tt.end)
			require.NoError(t, err)

			gotNames := []string{}
			for _, item := range got.Results {
				gotNames = append(gotNames, item.Name)
			}
			assert.Equal(t, tt.wantNames, gotNames)
			assert.Equal(t, len(tt.wantNames), got.Count)
			assert.Equal(t, tt.wantStart, got.Start)
			assert.Equal(t, tt.wantEnd, got.End)
		})
	}
}

func TestCatalog_List_NumbersAndCaches(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	client := mock_pokeapi.NewMockClient(gomock.NewController(t))
	client.EXPECT().PokemonList(gomock.Any()).Return(upstreamList("bulbasaur", "ivysaur", "venusaur"), nil).Times(1)
	c := New(client, st)

	first, err := c.List(ctx, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Results[0].ID)
	assert.Equal(t, 3, first.Results[1].ID)

	second, err := c.List(ctx, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCatalog_List_EnrichesWithSprites(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	front := "front.png"
	byID := sprites.Record{Sprites: &sprites.Sprites{DefaultFront: &front}}
	back := "back.png"
	byName := sprites.Record{Sprites: &sprites.Sprites{DefaultBack: &back}}
	require.NoError(t, store.PutJSON(ctx, st, store.NamespaceSpritesByID, "1", byID))
	require.NoError(t, store.PutJSON(ctx, st, store.NamespaceSpritesByName, "ivysaur", byName))

	client := mock_pokeapi.NewMockClient(gomock.NewController(t))
	client.EXPECT().PokemonList(gomock.Any()).Return(upstreamList("bulbasaur", "ivysaur", "venusaur"), nil)
	c := New(client, st)

	got, err := c.List(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, got.Results, 3)
	assert.Equal(t, byID.Sprites, got.Results[0].Sprites)
	assert.Equal(t, byName.Sprites, got.Results[1].Sprites)
	assert.Nil(t, got.Results[2].Sprites)
}

func TestCatalog_List_UpstreamFailure(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	client := mock_pokeapi.NewMockClient(gomock.NewController(t))
	client.EXPECT().PokemonList(gomock.Any()).Return(nil, errs.ErrUpstreamUnavailable)
	c := New(client, st)

	got, err := c.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, got.Results)
	assert.Equal(t, 0, got.Count)

	docs, err := st.GetNamespace(ctx, store.NamespaceList)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
