package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rootasjey/pokestats/internal/config"
	mock_pokeapi "github.com/rootasjey/pokestats/internal/mocks/pokeapi"
	"github.com/rootasjey/pokestats/internal/pokeapi"
	"github.com/rootasjey/pokestats/internal/store"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Store: config.StoreConfig{
			Driver:        driver,
			DataDirectory: filepath.Join(dir, "data"),
			SQLitePath:    filepath.Join(dir, "pokestats.db"),
		},
		Cache: config.CacheConfig{
			StalenessMode:  "day_of_month",
			StalenessDays:  7,
			MaxConcurrency: 2,
		},
	}
}

func TestOpenStore(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		want    interface{}
		wantErr bool
	}{
		{name: "file", driver: config.DriverFile, want: &store.FileStore{}},
		{name: "memory", driver: config.DriverMemory, want: &store.MemoryStore{}},
		{name: "sqlite", driver: config.DriverSQLite, want: &store.SQLStore{}},
		{name: "unknown", driver: "redis", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, closeStore, err := OpenStore(context.Background(), testConfig(t, tt.driver))
			require.NotNil(t, closeStore)
			defer func() {
				assert.NoError(t, closeStore())
			}()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestOpenStore_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	st, closeStore, err := OpenStore(ctx, testConfig(t, config.DriverSQLite))
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, closeStore())
	}()

	require.NoError(t, store.PutJSON(ctx, st, store.NamespaceControversy, "25", map[string]int{"likes": 2}))
	got, ok, err := store.GetJSON[map[string]int](ctx, st, store.NamespaceControversy, "25")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[string]int{"likes": 2}, got)
}

func TestWire(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.DriverFile)
	client := mock_pokeapi.NewMockClient(gomock.NewController(t))
	client.EXPECT().Pokemon(gomock.Any(), pokeapi.ByID(25)).Return(&pokeapi.Pokemon{ID: 25, Name: "pikachu"}, nil)

	c, err := Wire(ctx, cfg, client)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, c.Close())
	}()

	record, err := c.Resolver.Like(ctx, 25)
	require.NoError(t, err)
	assert.Equal(t, 1, record.Likes)
	assert.FileExists(t, filepath.Join(cfg.Store.DataDirectory, "controversy", "25.json"))

	// A corrupt error log is reset instead of failing reads.
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Store.DataDirectory, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Store.DataDirectory, "logs", "errors.json"), []byte("{"), 0o644))
	entries, err := c.ErrorLog.Entries(ctx)
	assert.Error(t, err)
	assert.Nil(t, entries)

	_, err = c.Store.GetNamespace(ctx, store.NamespaceErrorLog)
	require.NoError(t, err)
	entries, err = c.ErrorLog.Entries(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestWire_InvalidStaleness(t *testing.T) {
	cfg := testConfig(t, config.DriverMemory)
	cfg.Cache.StalenessMode = "weekly"

	_, err := Wire(context.Background(), cfg, mock_pokeapi.NewMockClient(gomock.NewController(t)))
	assert.Error(t, err)
}
