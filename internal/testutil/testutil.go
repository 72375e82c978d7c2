// Package testutil provides shared test helpers for config files, persisted
// documents and upstream fixtures.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rootasjey/pokestats/internal/pokeapi"
)

// SetupTestConfig writes a config file selecting driver with every store
// path under tmpDir. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir, driver string) string {
	t.Helper()

	dataDir := filepath.Join(tmpDir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0755))

	configContent := fmt.Sprintf(`store:
  driver: %s
  data_directory: %s
  sqlite_path: %s
cache:
  staleness_mode: day_of_month
  staleness_days: 7
  max_concurrency: 2
`,
		driver,
		dataDir,
		filepath.Join(tmpDir, "pokestats.db"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// WriteDocument stores v as JSON at relPath under dataDir, creating parent
// directories.
func WriteDocument(t *testing.T, dataDir, relPath string, v any) {
	t.Helper()

	path := filepath.Join(dataDir, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	contents, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, contents, 0644))
}

// PokemonOption configures optional fields when creating a Pokémon fixture.
type PokemonOption func(*pokeapi.Pokemon)

// WithBaseStats sets the six base statistics in upstream order.
func WithBaseStats(hp, attack, defense, specialAttack, specialDefense, speed int) PokemonOption {
	return func(p *pokeapi.Pokemon) {
		stat := func(name string, value int) pokeapi.Stat {
			return pokeapi.Stat{BaseStat: value, Stat: pokeapi.NamedResource{Name: name}}
		}
		p.Stats = []pokeapi.Stat{
			stat("hp", hp),
			stat("attack", attack),
			stat("defense", defense),
			stat("special-attack", specialAttack),
			stat("special-defense", specialDefense),
			stat("speed", speed),
		}
	}
}

// WithFrontSprite sets the default front sprite URL.
func WithFrontSprite(url string) PokemonOption {
	return func(p *pokeapi.Pokemon) {
		p.Sprites.FrontDefault = &url
	}
}

// Pokemon creates an upstream Pokémon fixture.
func Pokemon(id int, name string, opts ...PokemonOption) *pokeapi.Pokemon {
	p := &pokeapi.Pokemon{ID: id, Name: name}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Type creates an upstream type fixture whose members are names, in order.
func Type(name string, members ...string) pokeapi.Type {
	t := pokeapi.Type{Name: name, Pokemon: []pokeapi.TypeMember{}}
	for i, member := range members {
		t.Pokemon = append(t.Pokemon, pokeapi.TypeMember{
			Slot:    i + 1,
			Pokemon: pokeapi.NamedResource{Name: member},
		})
	}
	return t
}
