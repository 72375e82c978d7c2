// Package server exposes the resolver over JSON HTTP routes that mirror the
// GraphQL queries and mutations.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rootasjey/pokestats/internal/controversy"
	"github.com/rootasjey/pokestats/internal/resolver"
)

type Handler struct {
	resolver *resolver.Resolver
	router   *chi.Mux
}

func NewHandler(r *resolver.Resolver, allowedOrigins []string) *Handler {
	h := &Handler{
		resolver: r,
		router:   chi.NewRouter(),
	}

	h.router.Use(middleware.RequestID)
	h.router.Use(middleware.Recoverer)
	h.router.Use(corsMiddleware(allowedOrigins))

	h.router.Get("/health", h.health)
	h.router.Route("/api/v1", func(api chi.Router) {
		api.Get("/version", h.version)
		api.Get("/stats", h.averageStats)
		api.Get("/list", h.list)

		api.Route("/controversy/{id}", func(c chi.Router) {
			c.Get("/", h.controversy(h.resolver.Controversy))
			c.Post("/like", h.controversy(h.resolver.Like))
			c.Post("/dislike", h.controversy(h.resolver.Dislike))
		})

		api.Route("/pokemon", func(p chi.Router) {
			p.Get("/ids", h.pokemonsByIDs)
			p.Get("/names", h.pokemonsByNames)
			p.Get("/id/{id}", h.pokemonByID)
			p.Get("/name/{name}", h.pokemonByName)
		})

		api.Route("/sprites", func(s chi.Router) {
			s.Get("/ids", h.spritesByIDs)
			s.Get("/names", h.spritesByNames)
			s.Get("/id/{id}", h.spritesByID)
			s.Get("/name/{name}", h.spritesByName)
		})
	})

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) version(w http.ResponseWriter, r *http.Request) {
	success(w, map[string]string{"version": h.resolver.Version()})
}

func (h *Handler) averageStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	cached := true
	if raw := query.Get("cached"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(w, fmt.Sprintf("cached must be a boolean, got %q", raw))
			return
		}
		cached = parsed
	}

	response, err := h.resolver.AverageStats(r.Context(), query.Get("type1"), query.Get("type2"), cached)
	if err != nil {
		failure(w, err)
		return
	}
	success(w, response)
}

func (h *Handler) controversy(fn func(ctx context.Context, id int) (controversy.Record, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "id")
		id, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(w, fmt.Sprintf("pokemonId must be an integer, got %q", raw))
			return
		}
		record, err := fn(r.Context(), id)
		if err != nil {
			failure(w, err)
			return
		}
		success(w, record)
	}
}

func (h *Handler) spritesByID(w http.ResponseWriter, r *http.Request) {
	if id, ok := idParam(w, r); ok {
		success(w, h.resolver.SpritesByID(r.Context(), id))
	}
}

func (h *Handler) spritesByIDs(w http.ResponseWriter, r *http.Request) {
	if ids, ok := idsParam(w, r); ok {
		success(w, h.resolver.SpritesByIDs(r.Context(), ids))
	}
}

func (h *Handler) spritesByName(w http.ResponseWriter, r *http.Request) {
	success(w, h.resolver.SpritesByName(r.Context(), chi.URLParam(r, "name")))
}

func (h *Handler) spritesByNames(w http.ResponseWriter, r *http.Request) {
	names := splitList(r.URL.Query().Get("names"))
	success(w, h.resolver.SpritesByNames(r.Context(), names))
}

func (h *Handler) pokemonByID(w http.ResponseWriter, r *http.Request) {
	if id, ok := idParam(w, r); ok {
		success(w, h.resolver.PokemonByID(r.Context(), id))
	}
}

func (h *Handler) pokemonsByIDs(w http.ResponseWriter, r *http.Request) {
	if ids, ok := idsParam(w, r); ok {
		success(w, h.resolver.PokemonsByIDs(r.Context(), ids))
	}
}

func (h *Handler) pokemonByName(w http.ResponseWriter, r *http.Request) {
	success(w, h.resolver.PokemonByName(r.Context(), chi.URLParam(r, "name")))
}

func (h *Handler) pokemonsByNames(w http.ResponseWriter, r *http.Request) {
	names := splitList(r.URL.Query().Get("names"))
	success(w, h.resolver.PokemonsByNames(r.Context(), names))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	start, ok := intParam(w, r, "start")
	if !ok {
		return
	}
	end, ok := intParam(w, r, "end")
	if !ok {
		return
	}

	page, err := h.resolver.List(r.Context(), start, end)
	if err != nil {
		failure(w, err)
		return
	}
	success(w, page)
}

// idParam reads the {id} path segment.
func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(w, fmt.Sprintf("id must be an integer, got %q", raw))
		return 0, false
	}
	return id, true
}

// idsParam reads the comma separated ids query parameter.
func idsParam(w http.ResponseWriter, r *http.Request) ([]int, bool) {
	values := splitList(r.URL.Query().Get("ids"))
	ids := make([]int, 0, len(values))
	for _, value := range values {
		id, err := strconv.Atoi(value)
		if err != nil {
			badRequest(w, fmt.Sprintf("ids must be integers, got %q", value))
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// intParam reads an optional integer query parameter, 0 when absent.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(w, fmt.Sprintf("%s must be an integer, got %q", name, raw))
		return 0, false
	}
	return value, true
}

func splitList(raw string) []string {
	var values []string
	for _, value := range strings.Split(raw, ",") {
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	}
	return values
}

func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
