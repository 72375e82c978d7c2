package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rootasjey/pokestats/internal/errs"
)

var _ Store = (*FileStore)(nil)

type LayoutKind int

const (
	// FilePerKey stores each key as <dir>/<key>.json.
	FilePerKey LayoutKind = iota + 1
	// SingleDocument stores the namespace as one JSON object keyed by key.
	SingleDocument
)

// Layout is the on-disk shape of a namespace. Path is relative to the store
// root: a directory for FilePerKey and a file for SingleDocument.
type Layout struct {
	Kind LayoutKind
	Path string
}

func DefaultLayouts() map[Namespace]Layout {
	return map[Namespace]Layout{
		NamespaceStats:         {Kind: FilePerKey, Path: "stats"},
		NamespaceControversy:   {Kind: FilePerKey, Path: "controversy"},
		NamespaceSpritesByID:   {Kind: SingleDocument, Path: filepath.Join("sprites", "by_id.json")},
		NamespaceSpritesByName: {Kind: SingleDocument, Path: filepath.Join("sprites", "by_name.json")},
		NamespaceErrorLog:      {Kind: SingleDocument, Path: filepath.Join("logs", "errors.json")},
		NamespaceList:          {Kind: SingleDocument, Path: filepath.Join("list", "entities.json")},
	}
}

// FileStore keeps namespaces as JSON files under a root directory. A single
// lock serialises writers so Update and Write are atomic within the process.
type FileStore struct {
	rootDir string
	layouts map[Namespace]Layout
	mu      sync.RWMutex
}

func NewFileStore(rootDir string) *FileStore {
	return NewFileStoreWithLayouts(rootDir, DefaultLayouts())
}

func NewFileStoreWithLayouts(rootDir string, layouts map[Namespace]Layout) *FileStore {
	return &FileStore{
		rootDir: rootDir,
		layouts: layouts,
	}
}

func (s *FileStore) layout(ns Namespace) (Layout, error) {
	layout, ok := s.layouts[ns]
	if !ok {
		return Layout{}, fmt.Errorf("unknown namespace %q: %w", ns, errs.ErrInvalidArgument)
	}
	return layout, nil
}

func (s *FileStore) path(layout Layout) string {
	return filepath.Join(s.rootDir, layout.Path)
}

func (s *FileStore) keyPath(layout Layout, key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("key %q: %w", key, errs.ErrInvalidArgument)
	}
	return filepath.Join(s.path(layout), key+".json"), nil
}

func (s *FileStore) Has(ctx context.Context, ns Namespace, key string) (bool, error) {
	layout, err := s.layout(ns)
	if err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if layout.Kind == FilePerKey {
		path, err := s.keyPath(layout, key)
		if err != nil {
			return false, err
		}
		if err := s.ensureDir(s.path(layout)); err != nil {
			return false, err
		}
		_, err = os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("os.Stat(%s) > %w", path, err)
		}
		return true, nil
	}

	doc, err := s.readDocument(ns, layout)
	if err != nil {
		return false, err
	}
	_, ok := doc[key]
	return ok, nil
}

func (s *FileStore) Get(ctx context.Context, ns Namespace, key string) (json.RawMessage, bool, error) {
	layout, err := s.layout(ns)
	if err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.get(ns, layout, key)
}

func (s *FileStore) get(ns Namespace, layout Layout, key string) (json.RawMessage, bool, error) {
	if layout.Kind == FilePerKey {
		path, err := s.keyPath(layout, key)
		if err != nil {
			return nil, false, err
		}
		if err := s.ensureDir(s.path(layout)); err != nil {
			return nil, false, err
		}
		contents, err := readFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		if !json.Valid(contents) {
			return nil, false, &CorruptError{Namespace: ns, Key: key, Err: fmt.Errorf("%s is not valid JSON", path)}
		}
		return contents, true, nil
	}

	doc, err := s.readDocument(ns, layout)
	if err != nil {
		return nil, false, err
	}
	value, ok := doc[key]
	return value, ok, nil
}

func (s *FileStore) GetNamespace(ctx context.Context, ns Namespace) (map[string]json.RawMessage, error) {
	layout, err := s.layout(ns)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if layout.Kind == SingleDocument {
		return s.readDocument(ns, layout)
	}

	dir := s.path(layout)
	if err := s.ensureDir(dir); err != nil {
		return nil, err
	}
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("os.ReadDir(%s) > %w", dir, err)
	}
	result := make(map[string]json.RawMessage, len(files))
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}
		key := strings.TrimSuffix(file.Name(), ".json")
		doc, ok, err := s.get(ns, layout, key)
		if err != nil {
			return nil, err
		}
		if ok {
			result[key] = doc
		}
	}
	return result, nil
}

func (s *FileStore) Put(ctx context.Context, ns Namespace, key string, doc json.RawMessage) error {
	return s.Write(ctx, Entry{Namespace: ns, Key: key, Doc: doc})
}

func (s *FileStore) Update(ctx context.Context, ns Namespace, key string, fn UpdateFunc) (json.RawMessage, error) {
	layout, err := s.layout(ns)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok, err := s.get(ns, layout, key)
	if err != nil {
		return nil, err
	}
	next, err := fn(current, ok)
	if err != nil {
		return nil, err
	}
	if err := s.write([]Entry{{Namespace: ns, Key: key, Doc: next}}); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *FileStore) Write(ctx context.Context, entries ...Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(entries)
}

// write applies entries with the lock held. Single documents touched by the
// batch are loaded once, mutated in memory and flushed at the end.
func (s *FileStore) write(entries []Entry) error {
	documents := make(map[Namespace]map[string]json.RawMessage)
	perKey := make(map[string]json.RawMessage)
	var perKeyOrder []string

	for _, entry := range entries {
		if err := validDoc(entry.Namespace, entry.Key, entry.Doc); err != nil {
			return err
		}
		layout, err := s.layout(entry.Namespace)
		if err != nil {
			return err
		}

		if layout.Kind == SingleDocument {
			doc, ok := documents[entry.Namespace]
			if !ok {
				doc, err = s.readDocument(entry.Namespace, layout)
				if err != nil {
					return err
				}
				documents[entry.Namespace] = doc
			}
			if _, exists := doc[entry.Key]; exists && entry.IfAbsent {
				continue
			}
			doc[entry.Key] = cloneDoc(entry.Doc)
			continue
		}

		path, err := s.keyPath(layout, entry.Key)
		if err != nil {
			return err
		}
		if entry.IfAbsent {
			if _, pending := perKey[path]; pending {
				continue
			}
			if _, err := os.Stat(path); err == nil {
				continue
			}
		}
		if _, pending := perKey[path]; !pending {
			perKeyOrder = append(perKeyOrder, path)
		}
		perKey[path] = cloneDoc(entry.Doc)
	}

	namespaces := make([]string, 0, len(documents))
	for ns := range documents {
		namespaces = append(namespaces, string(ns))
	}
	sort.Strings(namespaces)
	for _, ns := range namespaces {
		contents, err := json.Marshal(documents[Namespace(ns)])
		if err != nil {
			return fmt.Errorf("json.Marshal(%s) > %w", ns, err)
		}
		if err := writeFileAtomic(s.path(s.layouts[Namespace(ns)]), contents); err != nil {
			return err
		}
	}
	for _, path := range perKeyOrder {
		if err := writeFileAtomic(path, perKey[path]); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileStore) Reset(ctx context.Context, ns Namespace) error {
	layout, err := s.layout(ns)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(layout)
	if layout.Kind == SingleDocument {
		return writeFileAtomic(path, []byte("{}"))
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("os.RemoveAll(%s) > %w", path, err)
	}
	return s.ensureDir(path)
}

// readDocument loads a single document namespace, creating an empty one on
// first access.
func (s *FileStore) readDocument(ns Namespace, layout Layout) (map[string]json.RawMessage, error) {
	path := s.path(layout)
	contents, err := readFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := writeFileAtomic(path, []byte("{}")); err != nil {
			return nil, err
		}
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, err
	}

	doc := make(map[string]json.RawMessage)
	if err := json.Unmarshal(contents, &doc); err != nil {
		return nil, &CorruptError{Namespace: ns, Err: fmt.Errorf("json.Unmarshal(%s) > %w", path, err)}
	}
	if doc == nil {
		doc = make(map[string]json.RawMessage)
	}
	return doc, nil
}

func (s *FileStore) ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	contents, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll > %w", err)
	}
	return contents, nil
}

// writeFileAtomic replaces path through a temporary file and a rename.
func writeFileAtomic(path string, contents []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
	}

	file, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("os.CreateTemp > %w", err)
	}
	tmpPath := file.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := file.Write(contents); err != nil {
		_ = file.Close()
		return fmt.Errorf("file.Write > %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("file.Close > %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("os.Rename(%s) > %w", path, err)
	}
	return nil
}
