package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rootasjey/pokestats/internal/pokeapi"
	"github.com/rootasjey/pokestats/internal/store"
)

// ErrNoStats is returned when no aggregate could be computed and none was
// cached. Callers render a zero-stats payload.
var ErrNoStats = errors.New("stats unavailable")

const DefaultMaxConcurrency = 8

type Query struct {
	Type1    string
	Type2    string
	UseCache bool
}

// typeNames lower-cases the requested types and drops Type2 when it is empty
// or repeats Type1.
func (q Query) typeNames() []string {
	type1 := strings.ToLower(strings.TrimSpace(q.Type1))
	type2 := strings.ToLower(strings.TrimSpace(q.Type2))
	if type2 == "" || type2 == type1 {
		return []string{type1}
	}
	return []string{type1, type2}
}

type Options struct {
	Policy         StalenessPolicy
	MaxConcurrency int
}

type Aggregator struct {
	client         pokeapi.Client
	store          store.Store
	policy         StalenessPolicy
	maxConcurrency int
	now            func() time.Time
}

func NewAggregator(client pokeapi.Client, st store.Store, opts Options) *Aggregator {
	policy := opts.Policy
	if policy == nil {
		policy = DayOfMonthPolicy{Threshold: DefaultDayThreshold}
	}
	maxConcurrency := opts.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	return &Aggregator{
		client:         client,
		store:          st,
		policy:         policy,
		maxConcurrency: maxConcurrency,
		now:            time.Now,
	}
}

// AverageStats returns the average base statistics of the Pokémon of one
// type, or of the Pokémon having both types.
func (a *Aggregator) AverageStats(ctx context.Context, q Query) (Result, error) {
	agg, err := a.averageStats(ctx, q.typeNames(), q.UseCache)
	if err != nil {
		return Result{}, err
	}
	return Normalize(agg), nil
}

func (a *Aggregator) averageStats(ctx context.Context, names []string, useCache bool) (TypeAggregate, error) {
	for _, name := range names {
		if name == "" {
			return zeroAggregate(names), nil
		}
	}

	key := CacheKey(names)
	cached, hasCached := a.cached(ctx, key)
	if useCache && hasCached && cached.Meta.LastUpdated != nil && a.policy.Fresh(*cached.Meta.LastUpdated, a.now()) {
		slog.Default().Debug("stats cache hit", slog.String("key", key))
		return cached, nil
	}

	fallback := func(cause error) (TypeAggregate, error) {
		if hasCached {
			slog.Default().Warn("serving stale stats",
				slog.String("key", key),
				slog.Any("error", cause))
			return cached, nil
		}
		return TypeAggregate{}, fmt.Errorf("%s: %w: %w", key, ErrNoStats, cause)
	}

	types, err := a.client.Types(ctx, names)
	if err != nil {
		return fallback(fmt.Errorf("client.Types(%v) > %w", names, err))
	}
	members, ok := memberNames(names, types)
	if !ok {
		slog.Default().Debug("no pokemon for types", slog.Any("types", names))
		return zeroAggregate(sortedCopy(names)), nil
	}

	agg, err := a.compute(ctx, members)
	if err != nil {
		return fallback(err)
	}
	agg.Types = sortedCopy(names)

	if err := store.PutJSON(ctx, a.store, store.NamespaceStats, key, agg); err != nil {
		slog.Default().Warn("failed to cache stats",
			slog.String("key", key),
			slog.Any("error", err))
	}
	return agg, nil
}

func (a *Aggregator) cached(ctx context.Context, key string) (TypeAggregate, bool) {
	agg, ok, err := store.GetJSON[TypeAggregate](ctx, a.store, store.NamespaceStats, key)
	if err != nil {
		slog.Default().Warn("ignoring unreadable stats",
			slog.String("key", key),
			slog.Any("error", err))
		return TypeAggregate{}, false
	}
	if !ok {
		return TypeAggregate{}, false
	}
	if agg.Avg == nil {
		agg.Avg = zeroAggregate(nil).Avg
	}
	return agg, true
}

// memberNames returns the Pokémon shared by every requested type. It
// reports false when a type is missing or malformed, or when nothing is
// shared.
func memberNames(names []string, types []pokeapi.Type) ([]string, bool) {
	byName := make(map[string]pokeapi.Type, len(types))
	for _, t := range types {
		byName[strings.ToLower(t.Name)] = t
	}

	var members []string
	for i, name := range names {
		t, ok := byName[name]
		if !ok || t.Pokemon == nil {
			return nil, false
		}
		if i == 0 {
			members = t.MemberNames()
			continue
		}
		members = Intersect(members, t.MemberNames())
	}
	return members, len(members) > 0
}

// compute resolves every member and averages their base statistics with
// integer truncation.
func (a *Aggregator) compute(ctx context.Context, members []string) (TypeAggregate, error) {
	resolved := make([]*pokeapi.Pokemon, len(members))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrency)
	for i, name := range members {
		g.Go(func() error {
			pokemon, err := a.client.Pokemon(gctx, pokeapi.ByName(name))
			if err != nil {
				return fmt.Errorf("client.Pokemon(%s) > %w", name, err)
			}
			resolved[i] = pokemon
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return TypeAggregate{}, err
	}

	sums := make(map[StatKey]int, len(StatKeys()))
	for _, pokemon := range resolved {
		if pokemon == nil {
			continue
		}
		for _, stat := range pokemon.Stats {
			sums[StatKey(stat.Stat.Name)] += stat.BaseStat
		}
	}

	agg := zeroAggregate(nil)
	for _, key := range StatKeys() {
		agg.Avg[key] = sums[key] / len(members)
	}
	now := a.now().UTC()
	agg.Meta.LastUpdated = &now
	agg.PokemonCount = len(members)
	return agg, nil
}

func sortedCopy(names []string) []string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return sorted
}
