package stats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntersect(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want []string
	}{
		{
			name: "shared members",
			a:    []string{"charmander", "volcanion", "ponyta"},
			b:    []string{"squirtle", "volcanion"},
			want: []string{"volcanion"},
		},
		{
			name: "nothing shared",
			a:    []string{"gastly"},
			b:    []string{"squirtle"},
			want: nil,
		},
		{
			name: "empty side",
			a:    nil,
			b:    []string{"squirtle"},
			want: nil,
		},
		{
			name: "duplicates collapse",
			a:    []string{"a", "b", "c"},
			b:    []string{"b", "b"},
			want: []string{"b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Intersect(tt.a, tt.b))
			assert.ElementsMatch(t, Intersect(tt.a, tt.b), Intersect(tt.b, tt.a))
		})
	}
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "fire", CacheKey([]string{"fire"}))
	assert.Equal(t, "fire-water", CacheKey([]string{"water", "fire"}))
	assert.Equal(t, CacheKey([]string{"fire", "water"}), CacheKey([]string{"water", "fire"}))

	names := []string{"water", "fire"}
	CacheKey(names)
	assert.Equal(t, []string{"water", "fire"}, names)
}

func TestNormalize(t *testing.T) {
	last := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	agg := TypeAggregate{
		Avg: map[StatKey]int{
			StatHP:             1,
			StatAttack:         2,
			StatDefense:        3,
			StatSpecialAttack:  4,
			StatSpecialDefense: 5,
			StatSpeed:          6,
		},
		Meta:         Meta{LastUpdated: &last},
		PokemonCount: 10,
		Types:        []string{"grass"},
	}

	got := Normalize(agg)
	assert.Equal(t, Averages{HP: 1, Attack: 2, Defense: 3, SpecialAttack: 4, SpecialDefense: 5, Speed: 6}, got.Avg)
	assert.Equal(t, 10, got.PokemonCount)

	encoded, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"avg": {"attack":2,"defense":3,"hp":1,"specialAttack":4,"specialDefense":5,"speed":6},
		"meta": {"lastUpdated":"2024-05-01T00:00:00Z"},
		"pokemonCount": 10,
		"types": ["grass"]
	}`, string(encoded))
}

func TestTypeAggregate_PersistedShape(t *testing.T) {
	encoded, err := json.Marshal(zeroAggregate([]string{"ice"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"avg": {"hp":0,"attack":0,"defense":0,"special-attack":0,"special-defense":0,"speed":0},
		"meta": {"lastUpdated":null},
		"pokemonCount": 0,
		"types": ["ice"]
	}`, string(encoded))
}

func TestStalenessPolicies(t *testing.T) {
	day := func(month time.Month, d int) time.Time {
		return time.Date(2024, month, d, 8, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name   string
		policy StalenessPolicy
		last   time.Time
		now    time.Time
		want   bool
	}{
		{name: "same day", policy: DayOfMonthPolicy{Threshold: 7}, last: day(time.May, 3), now: day(time.May, 3), want: true},
		{name: "six days", policy: DayOfMonthPolicy{Threshold: 7}, last: day(time.May, 3), now: day(time.May, 9), want: true},
		{name: "seven days", policy: DayOfMonthPolicy{Threshold: 7}, last: day(time.May, 3), now: day(time.May, 10), want: false},
		{name: "month boundary stays fresh", policy: DayOfMonthPolicy{Threshold: 7}, last: day(time.May, 31), now: day(time.June, 20), want: true},
		{name: "elapsed within", policy: ElapsedPolicy{MaxAge: 7 * 24 * time.Hour}, last: day(time.May, 31), now: day(time.June, 6), want: true},
		{name: "elapsed beyond", policy: ElapsedPolicy{MaxAge: 7 * 24 * time.Hour}, last: day(time.May, 31), now: day(time.June, 20), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Fresh(tt.last, tt.now))
		})
	}
}

func TestNewStalenessPolicy(t *testing.T) {
	policy, err := NewStalenessPolicy("", 7)
	require.NoError(t, err)
	assert.Equal(t, DayOfMonthPolicy{Threshold: 7}, policy)

	policy, err = NewStalenessPolicy(StalenessModeElapsed, 2)
	require.NoError(t, err)
	assert.Equal(t, ElapsedPolicy{MaxAge: 48 * time.Hour}, policy)

	_, err = NewStalenessPolicy("weekly", 7)
	assert.Error(t, err)
}
