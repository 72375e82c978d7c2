// Package store persists the derived documents of the cache layer.
//
// Documents are raw JSON values addressed by a namespace and a key. Every
// backend materialises an empty container the first time a namespace is
// touched and reports undecodable documents as a *CorruptError.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rootasjey/pokestats/internal/errs"
)

type Namespace string

const (
	NamespaceStats         Namespace = "stats"
	NamespaceSpritesByID   Namespace = "sprites-by-id"
	NamespaceSpritesByName Namespace = "sprites-by-name"
	NamespaceControversy   Namespace = "controversy"
	NamespaceErrorLog      Namespace = "error-log"
	NamespaceList          Namespace = "list"
)

// Namespaces returns every namespace known to the cache layer.
func Namespaces() []Namespace {
	return []Namespace{
		NamespaceStats,
		NamespaceSpritesByID,
		NamespaceSpritesByName,
		NamespaceControversy,
		NamespaceErrorLog,
		NamespaceList,
	}
}

// Entry is one write of a multi-entry Write call.
type Entry struct {
	Namespace Namespace
	Key       string
	Doc       json.RawMessage
	// IfAbsent skips the entry when the key already holds a document.
	IfAbsent bool
}

// UpdateFunc receives the current document, if any, and returns its replacement.
type UpdateFunc func(current json.RawMessage, exists bool) (json.RawMessage, error)

type Store interface {
	Has(ctx context.Context, ns Namespace, key string) (bool, error)
	Get(ctx context.Context, ns Namespace, key string) (json.RawMessage, bool, error)
	GetNamespace(ctx context.Context, ns Namespace) (map[string]json.RawMessage, error)
	Put(ctx context.Context, ns Namespace, key string, doc json.RawMessage) error
	// Update runs a read-modify-write on one key atomically.
	Update(ctx context.Context, ns Namespace, key string, fn UpdateFunc) (json.RawMessage, error)
	// Write applies every entry atomically, in order.
	Write(ctx context.Context, entries ...Entry) error
	// Reset recreates an empty container for the namespace.
	Reset(ctx context.Context, ns Namespace) error
}

// CorruptError reports a document that could not be decoded. Key is empty
// when the whole namespace container is unreadable.
type CorruptError struct {
	Namespace Namespace
	Key       string
	Err       error
}

func (e *CorruptError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("namespace %s: %v: %v", e.Namespace, errs.ErrStoreCorrupt, e.Err)
	}
	return fmt.Sprintf("namespace %s key %s: %v: %v", e.Namespace, e.Key, errs.ErrStoreCorrupt, e.Err)
}

func (e *CorruptError) Unwrap() []error {
	return []error{errs.ErrStoreCorrupt, e.Err}
}

// failureReporter is implemented by stores that absorb read failures.
type failureReporter interface {
	Report(ctx context.Context, err error)
}

// GetJSON reads and decodes one document.
func GetJSON[T any](ctx context.Context, st Store, ns Namespace, key string) (T, bool, error) {
	var result T
	doc, ok, err := st.Get(ctx, ns, key)
	if err != nil || !ok {
		return result, ok, err
	}
	result, err = DecodeJSON[T](ctx, st, ns, key, doc)
	if err != nil {
		return result, false, err
	}
	return result, true, nil
}

// DecodeJSON decodes a document read from ns/key. A document of the wrong
// shape is a *CorruptError, also reported to st when st absorbs failures.
func DecodeJSON[T any](ctx context.Context, st Store, ns Namespace, key string, doc json.RawMessage) (T, error) {
	var result T
	if err := json.Unmarshal(doc, &result); err != nil {
		corrupt := &CorruptError{Namespace: ns, Key: key, Err: err}
		if reporter, ok := st.(failureReporter); ok {
			reporter.Report(ctx, corrupt)
		}
		return result, corrupt
	}
	return result, nil
}

// PutJSON encodes and writes one document.
func PutJSON[T any](ctx context.Context, st Store, ns Namespace, key string, value T) error {
	doc, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json.Marshal(%s/%s) > %w", ns, key, err)
	}
	return st.Put(ctx, ns, key, doc)
}

// NewEntry encodes value into an Entry.
func NewEntry[T any](ns Namespace, key string, value T, ifAbsent bool) (Entry, error) {
	doc, err := json.Marshal(value)
	if err != nil {
		return Entry{}, fmt.Errorf("json.Marshal(%s/%s) > %w", ns, key, err)
	}
	return Entry{Namespace: ns, Key: key, Doc: doc, IfAbsent: ifAbsent}, nil
}

func validDoc(ns Namespace, key string, doc json.RawMessage) error {
	if !json.Valid(doc) {
		return fmt.Errorf("document %s/%s is not valid JSON: %w", ns, key, errs.ErrInvalidArgument)
	}
	return nil
}

func cloneDoc(doc json.RawMessage) json.RawMessage {
	if doc == nil {
		return nil
	}
	out := make(json.RawMessage, len(doc))
	copy(out, doc)
	return out
}
