// Package errorlog keeps a persisted trail of failures that were absorbed
// instead of returned to a caller.
package errorlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/rootasjey/pokestats/internal/errs"
	"github.com/rootasjey/pokestats/internal/store"
)

var _ store.Reporter = (*Log)(nil)

// Entry is one recorded failure. Time is the Unix time in milliseconds.
type Entry struct {
	Message string `json:"message" yaml:"message"`
	Stack   string `json:"stack" yaml:"stack"`
	Time    int64  `json:"time" yaml:"time"`
	UTC     string `json:"utc" yaml:"utc"`
}

type Log struct {
	store store.Store
	now   func() time.Time
}

func New(st store.Store) *Log {
	return &Log{
		store: st,
		now:   time.Now,
	}
}

// Record appends err to the log. Entries are keyed by millisecond, so two
// failures recorded within the same millisecond keep only the last one.
// Record never fails: problems writing the log go to slog.
func (l *Log) Record(ctx context.Context, err error) {
	if err == nil {
		return
	}

	now := l.now()
	entry := Entry{
		Message: err.Error(),
		Stack:   string(debug.Stack()),
		Time:    now.UnixMilli(),
		UTC:     now.UTC().Format(http.TimeFormat),
	}
	key := strconv.FormatInt(entry.Time, 10)

	writeErr := store.PutJSON(ctx, l.store, store.NamespaceErrorLog, key, entry)
	if errors.Is(writeErr, errs.ErrStoreCorrupt) {
		slog.Default().Warn("error log is corrupt, recreating it", slog.Any("error", writeErr))
		writeErr = l.reset(ctx, key, entry)
	}
	if writeErr != nil {
		slog.Default().Error("failed to record error",
			slog.String("message", entry.Message),
			slog.Any("error", writeErr))
	}
}

func (l *Log) reset(ctx context.Context, key string, entry Entry) error {
	if err := l.store.Reset(ctx, store.NamespaceErrorLog); err != nil {
		return fmt.Errorf("store.Reset(%s) > %w", store.NamespaceErrorLog, err)
	}
	return store.PutJSON(ctx, l.store, store.NamespaceErrorLog, key, entry)
}

// Entries returns every recorded entry keyed by its millisecond timestamp.
func (l *Log) Entries(ctx context.Context) (map[string]Entry, error) {
	docs, err := l.store.GetNamespace(ctx, store.NamespaceErrorLog)
	if err != nil {
		return nil, fmt.Errorf("store.GetNamespace(%s) > %w", store.NamespaceErrorLog, err)
	}
	entries := make(map[string]Entry, len(docs))
	for key, doc := range docs {
		var entry Entry
		if err := json.Unmarshal(doc, &entry); err != nil {
			return nil, &store.CorruptError{Namespace: store.NamespaceErrorLog, Key: key, Err: err}
		}
		entries[key] = entry
	}
	return entries, nil
}
