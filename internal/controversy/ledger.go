// Package controversy counts likes and dislikes per Pokémon.
package controversy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/rootasjey/pokestats/internal/pokeapi"
	"github.com/rootasjey/pokestats/internal/store"
)

type Record struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Likes    int    `json:"likes" yaml:"likes"`
	Dislikes int    `json:"dislikes" yaml:"dislikes"`
}

// Ledger changes records through store.Update, so increments are never
// lost even when several processes share one store. Operations on one id
// are also serialised in process, which keeps them off the store lock.
type Ledger struct {
	client pokeapi.Client
	store  store.Store

	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewLedger(client pokeapi.Client, st store.Store) *Ledger {
	return &Ledger{
		client: client,
		store:  st,
		locks:  make(map[int]*sync.Mutex),
	}
}

func (l *Ledger) lock(id int) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Get returns the record of id, creating it on first access.
func (l *Ledger) Get(ctx context.Context, id int) (Record, error) {
	unlock := l.lock(id)
	defer unlock()

	if record, ok := l.read(ctx, id); ok {
		return record, nil
	}
	return l.update(ctx, id, l.seed(ctx, id), nil)
}

func (l *Ledger) Like(ctx context.Context, id int) (Record, error) {
	return l.increment(ctx, id, func(r *Record) { r.Likes++ })
}

func (l *Ledger) Dislike(ctx context.Context, id int) (Record, error) {
	return l.increment(ctx, id, func(r *Record) { r.Dislikes++ })
}

func (l *Ledger) increment(ctx context.Context, id int, apply func(*Record)) (Record, error) {
	unlock := l.lock(id)
	defer unlock()

	seed := Record{ID: id}
	if _, ok := l.read(ctx, id); !ok {
		seed = l.seed(ctx, id)
	}
	return l.update(ctx, id, seed, apply)
}

func (l *Ledger) read(ctx context.Context, id int) (Record, bool) {
	record, ok, err := store.GetJSON[Record](ctx, l.store, store.NamespaceControversy, strconv.Itoa(id))
	if err != nil {
		slog.Default().Warn("ignoring unreadable controversy record",
			slog.Int("id", id),
			slog.Any("error", err))
		return Record{}, false
	}
	return record, ok
}

// seed builds the record of an id seen for the first time. The upstream
// call stays outside of any store transaction.
func (l *Ledger) seed(ctx context.Context, id int) Record {
	record := Record{ID: id}
	pokemon, err := l.client.Pokemon(ctx, pokeapi.ByID(id))
	if err != nil {
		slog.Default().Debug("controversy name unavailable",
			slog.Int("id", id),
			slog.Any("error", err))
	} else if pokemon != nil {
		record.Name = pokemon.Name
	}
	return record
}

// update applies apply to the stored record of id, or to seed when there is
// none or it cannot be decoded. A nil apply only creates the record.
func (l *Ledger) update(ctx context.Context, id int, seed Record, apply func(*Record)) (Record, error) {
	var record Record
	_, err := l.store.Update(ctx, store.NamespaceControversy, strconv.Itoa(id),
		func(current json.RawMessage, exists bool) (json.RawMessage, error) {
			record = seed
			if exists {
				var stored Record
				if err := json.Unmarshal(current, &stored); err == nil && stored.ID == id {
					record = stored
				}
			}
			if apply != nil {
				apply(&record)
			}
			return json.Marshal(record)
		})
	if err != nil {
		return Record{}, fmt.Errorf("store.Update(controversy %d) > %w", id, err)
	}
	return record, nil
}
