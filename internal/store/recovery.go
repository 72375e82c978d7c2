package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// Reporter receives failures that were absorbed instead of returned.
type Reporter interface {
	Record(ctx context.Context, err error)
}

// recoveringStore never fails a read: failures are reported and the
// document treated as absent. A corrupt namespace container is recreated.
type recoveringStore struct {
	Store
	reporter Reporter
}

// WithRecovery wraps inner so reads degrade to absent/empty results.
// Writes keep returning their errors.
func WithRecovery(inner Store, reporter Reporter) Store {
	return &recoveringStore{Store: inner, reporter: reporter}
}

func (s *recoveringStore) Has(ctx context.Context, ns Namespace, key string) (bool, error) {
	ok, err := s.Store.Has(ctx, ns, key)
	if err != nil {
		s.recover(ctx, ns, err)
		return false, nil
	}
	return ok, nil
}

func (s *recoveringStore) Get(ctx context.Context, ns Namespace, key string) (json.RawMessage, bool, error) {
	doc, ok, err := s.Store.Get(ctx, ns, key)
	if err != nil {
		s.recover(ctx, ns, err)
		return nil, false, nil
	}
	return doc, ok, nil
}

func (s *recoveringStore) GetNamespace(ctx context.Context, ns Namespace) (map[string]json.RawMessage, error) {
	docs, err := s.Store.GetNamespace(ctx, ns)
	if err != nil {
		s.recover(ctx, ns, err)
		return make(map[string]json.RawMessage), nil
	}
	return docs, nil
}

// Report records a failure found after a successful read, such as a
// document of the wrong shape.
func (s *recoveringStore) Report(ctx context.Context, err error) {
	var ns Namespace
	var corrupt *CorruptError
	if errors.As(err, &corrupt) {
		ns = corrupt.Namespace
	}
	s.recover(ctx, ns, err)
}

func (s *recoveringStore) recover(ctx context.Context, ns Namespace, err error) {
	slog.Default().Warn("store read failed, treating as empty",
		slog.String("namespace", string(ns)),
		slog.Any("error", err))

	// Reset before reporting: the reporter may write into ns.
	var corrupt *CorruptError
	if errors.As(err, &corrupt) && corrupt.Key == "" {
		if resetErr := s.Store.Reset(ctx, ns); resetErr != nil {
			slog.Default().Error("failed to reset corrupt namespace",
				slog.String("namespace", string(ns)),
				slog.Any("error", resetErr))
		}
	}

	if s.reporter != nil {
		s.reporter.Record(ctx, err)
	}
}
