package store

import (
	"context"
	"encoding/json"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps documents in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[Namespace]map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[Namespace]map[string]json.RawMessage),
	}
}

func (s *MemoryStore) namespace(ns Namespace) map[string]json.RawMessage {
	docs, ok := s.data[ns]
	if !ok {
		docs = make(map[string]json.RawMessage)
		s.data[ns] = docs
	}
	return docs
}

func (s *MemoryStore) Has(_ context.Context, ns Namespace, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[ns][key]
	return ok, nil
}

func (s *MemoryStore) Get(_ context.Context, ns Namespace, key string) (json.RawMessage, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.data[ns][key]
	return cloneDoc(doc), ok, nil
}

func (s *MemoryStore) GetNamespace(_ context.Context, ns Namespace) (map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.namespace(ns)
	out := make(map[string]json.RawMessage, len(docs))
	for key, doc := range docs {
		out[key] = cloneDoc(doc)
	}
	return out, nil
}

func (s *MemoryStore) Put(_ context.Context, ns Namespace, key string, doc json.RawMessage) error {
	if err := validDoc(ns, key, doc); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.namespace(ns)[key] = cloneDoc(doc)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, ns Namespace, key string, fn UpdateFunc) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.namespace(ns)
	current, ok := docs[key]
	next, err := fn(cloneDoc(current), ok)
	if err != nil {
		return nil, err
	}
	if err := validDoc(ns, key, next); err != nil {
		return nil, err
	}
	docs[key] = cloneDoc(next)
	return cloneDoc(next), nil
}

func (s *MemoryStore) Write(_ context.Context, entries ...Entry) error {
	for _, entry := range entries {
		if err := validDoc(entry.Namespace, entry.Key, entry.Doc); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range entries {
		docs := s.namespace(entry.Namespace)
		if _, exists := docs[entry.Key]; exists && entry.IfAbsent {
			continue
		}
		docs[entry.Key] = cloneDoc(entry.Doc)
	}
	return nil
}

func (s *MemoryStore) Reset(_ context.Context, ns Namespace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[ns] = make(map[string]json.RawMessage)
	return nil
}
