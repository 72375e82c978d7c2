// Package resolver is the query and mutation surface of the API. It
// validates arguments, calls the caches and shapes their results.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/rootasjey/pokestats/internal/catalog"
	"github.com/rootasjey/pokestats/internal/controversy"
	"github.com/rootasjey/pokestats/internal/pokemon"
	"github.com/rootasjey/pokestats/internal/sprites"
	"github.com/rootasjey/pokestats/internal/stats"
)

const Version = "1.5.0"

// lastUpdatedLayout renders timestamps with millisecond precision in UTC.
const lastUpdatedLayout = "2006-01-02T15:04:05.000Z"

type StatsService interface {
	AverageStats(ctx context.Context, q stats.Query) (stats.Result, error)
}

type SpriteService interface {
	ByID(ctx context.Context, id int) sprites.Record
	ByIDs(ctx context.Context, ids []int) []sprites.Record
	ByName(ctx context.Context, name string) sprites.Record
	ByNames(ctx context.Context, names []string) []sprites.Record
}

type PokemonService interface {
	ByID(ctx context.Context, id int) pokemon.Record
	ByIDs(ctx context.Context, ids []int) []pokemon.Record
	ByName(ctx context.Context, name string) pokemon.Record
	ByNames(ctx context.Context, names []string) []pokemon.Record
}

type ControversyService interface {
	Get(ctx context.Context, id int) (controversy.Record, error)
	Like(ctx context.Context, id int) (controversy.Record, error)
	Dislike(ctx context.Context, id int) (controversy.Record, error)
}

type CatalogService interface {
	List(ctx context.Context, start, end int) (catalog.Page, error)
}

type Services struct {
	Stats       StatsService
	Pokemon     PokemonService
	Sprites     SpriteService
	Controversy ControversyService
	Catalog     CatalogService
}

type Resolver struct {
	services   Services
	validator  *validator.Validate
	translator ut.Translator
}

func New(services Services) (*Resolver, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("newValidator() > %w", err)
	}
	return &Resolver{
		services:   services,
		validator:  validate,
		translator: trans,
	}, nil
}

func (r *Resolver) Version() string {
	return Version
}

type StatsMeta struct {
	LastUpdated string `json:"lastUpdated" yaml:"lastUpdated"`
}

// StatsResponse carries zero statistics and Error when nothing could be
// computed.
type StatsResponse struct {
	Avg          stats.Averages `json:"avg" yaml:"avg"`
	Meta         StatsMeta      `json:"meta" yaml:"meta"`
	PokemonCount int            `json:"pokemonCount" yaml:"pokemonCount"`
	Types        []string       `json:"types" yaml:"types"`
	Error        string         `json:"error,omitempty" yaml:"error,omitempty"`
}

func (r *Resolver) AverageStats(ctx context.Context, type1, type2 string, cached bool) (StatsResponse, error) {
	if err := r.validate(statsArgs{Type1: type1, Type2: type2}, "averageStats"); err != nil {
		return StatsResponse{}, err
	}

	result, err := r.services.Stats.AverageStats(ctx, stats.Query{Type1: type1, Type2: type2, UseCache: cached})
	if err != nil {
		slog.Default().Warn("average stats unavailable",
			slog.String("type1", type1),
			slog.String("type2", type2),
			slog.Any("error", err))
		return StatsResponse{
			Types: []string{},
			Error: err.Error(),
		}, nil
	}

	response := StatsResponse{
		Avg:          result.Avg,
		PokemonCount: result.PokemonCount,
		Types:        result.Types,
	}
	if result.Meta.LastUpdated != nil {
		response.Meta.LastUpdated = formatLastUpdated(*result.Meta.LastUpdated)
	}
	return response, nil
}

func formatLastUpdated(t time.Time) string {
	return t.UTC().Format(lastUpdatedLayout)
}

func (r *Resolver) Controversy(ctx context.Context, pokemonID int) (controversy.Record, error) {
	return r.controversy(ctx, pokemonID, "controversy", r.services.Controversy.Get)
}

func (r *Resolver) Like(ctx context.Context, pokemonID int) (controversy.Record, error) {
	return r.controversy(ctx, pokemonID, "like", r.services.Controversy.Like)
}

func (r *Resolver) Dislike(ctx context.Context, pokemonID int) (controversy.Record, error) {
	return r.controversy(ctx, pokemonID, "dislike", r.services.Controversy.Dislike)
}

func (r *Resolver) controversy(
	ctx context.Context,
	pokemonID int,
	operation string,
	fn func(ctx context.Context, id int) (controversy.Record, error),
) (controversy.Record, error) {
	if err := r.validate(pokemonIDArgs{PokemonID: pokemonID}, operation); err != nil {
		return controversy.Record{}, err
	}
	record, err := fn(ctx, pokemonID)
	if err != nil {
		return controversy.Record{}, internalError(err, operation)
	}
	return record, nil
}

func (r *Resolver) SpritesByID(ctx context.Context, id int) []sprites.Record {
	return []sprites.Record{r.services.Sprites.ByID(ctx, id)}
}

// SpritesByIDs accepts any id: one the upstream does not know resolves to
// a record with null sprites.
func (r *Resolver) SpritesByIDs(ctx context.Context, ids []int) []sprites.Record {
	return r.services.Sprites.ByIDs(ctx, ids)
}

func (r *Resolver) SpritesByName(ctx context.Context, name string) []sprites.Record {
	return []sprites.Record{r.services.Sprites.ByName(ctx, name)}
}

func (r *Resolver) SpritesByNames(ctx context.Context, names []string) []sprites.Record {
	return r.services.Sprites.ByNames(ctx, names)
}

func (r *Resolver) PokemonByID(ctx context.Context, id int) []pokemon.Record {
	return []pokemon.Record{r.services.Pokemon.ByID(ctx, id)}
}

func (r *Resolver) PokemonsByIDs(ctx context.Context, ids []int) []pokemon.Record {
	return r.services.Pokemon.ByIDs(ctx, ids)
}

func (r *Resolver) PokemonByName(ctx context.Context, name string) []pokemon.Record {
	return []pokemon.Record{r.services.Pokemon.ByName(ctx, name)}
}

func (r *Resolver) PokemonsByNames(ctx context.Context, names []string) []pokemon.Record {
	return r.services.Pokemon.ByNames(ctx, names)
}

func (r *Resolver) List(ctx context.Context, start, end int) (catalog.Page, error) {
	if err := r.validate(listArgs{Start: start, End: end}, "list"); err != nil {
		return catalog.Page{}, err
	}
	page, err := r.services.Catalog.List(ctx, start, end)
	if err != nil {
		return catalog.Page{}, internalError(err, "list")
	}
	return page, nil
}

// IsClientError reports whether err was produced by argument validation.
func IsClientError(err error) bool {
	code := Code(err)
	return code == CodeInvalidPokemonID || code == CodeBadUserInput
}
