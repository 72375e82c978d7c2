// Package stats computes and caches the average base statistics of one
// Pokémon type or of the Pokémon sharing two types.
package stats

import (
	"sort"
	"strings"
	"time"
)

// StatKey is a base statistic name as the upstream spells it.
type StatKey string

const (
	StatHP             StatKey = "hp"
	StatAttack         StatKey = "attack"
	StatDefense        StatKey = "defense"
	StatSpecialAttack  StatKey = "special-attack"
	StatSpecialDefense StatKey = "special-defense"
	StatSpeed          StatKey = "speed"
)

// StatKeys lists the six statistics every aggregate carries.
func StatKeys() []StatKey {
	return []StatKey{StatHP, StatAttack, StatDefense, StatSpecialAttack, StatSpecialDefense, StatSpeed}
}

type Meta struct {
	LastUpdated *time.Time `json:"lastUpdated" yaml:"lastUpdated"`
}

// TypeAggregate is the persisted form of an average. Avg always holds all
// six StatKeys.
type TypeAggregate struct {
	Avg          map[StatKey]int `json:"avg"`
	Meta         Meta            `json:"meta"`
	PokemonCount int             `json:"pokemonCount"`
	Types        []string        `json:"types"`
}

func zeroAggregate(types []string) TypeAggregate {
	avg := make(map[StatKey]int, len(StatKeys()))
	for _, key := range StatKeys() {
		avg[key] = 0
	}
	return TypeAggregate{
		Avg:   avg,
		Types: types,
	}
}

// Averages is the output form of the six statistics.
type Averages struct {
	Attack         int `json:"attack" yaml:"attack"`
	Defense        int `json:"defense" yaml:"defense"`
	HP             int `json:"hp" yaml:"hp"`
	SpecialAttack  int `json:"specialAttack" yaml:"specialAttack"`
	SpecialDefense int `json:"specialDefense" yaml:"specialDefense"`
	Speed          int `json:"speed" yaml:"speed"`
}

type Result struct {
	Avg          Averages `json:"avg" yaml:"avg"`
	Meta         Meta     `json:"meta" yaml:"meta"`
	PokemonCount int      `json:"pokemonCount" yaml:"pokemonCount"`
	Types        []string `json:"types" yaml:"types"`
}

// Normalize renames the raw statistic keys. Missing keys read as zero.
func Normalize(agg TypeAggregate) Result {
	return Result{
		Avg: Averages{
			Attack:         agg.Avg[StatAttack],
			Defense:        agg.Avg[StatDefense],
			HP:             agg.Avg[StatHP],
			SpecialAttack:  agg.Avg[StatSpecialAttack],
			SpecialDefense: agg.Avg[StatSpecialDefense],
			Speed:          agg.Avg[StatSpeed],
		},
		Meta:         agg.Meta,
		PokemonCount: agg.PokemonCount,
		Types:        agg.Types,
	}
}

// CacheKey returns the identity of an aggregate: the type name, or both
// names in lexicographic order joined by "-".
func CacheKey(types []string) string {
	sorted := append([]string(nil), types...)
	sort.Strings(sorted)
	return strings.Join(sorted, "-")
}

// Intersect returns the names present in both lists. The smaller list is
// indexed and the larger one filtered against it, so the result follows the
// order of the larger list.
func Intersect(a, b []string) []string {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	present := make(map[string]struct{}, len(small))
	for _, name := range small {
		present[name] = struct{}{}
	}

	var result []string
	for _, name := range large {
		if _, ok := present[name]; !ok {
			continue
		}
		result = append(result, name)
		delete(present, name)
	}
	return result
}
