package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// storeFile is the on-disk layout of a Store.
type storeFile struct {
	Groups map[string]map[string]string `yaml:"groups"`
}

// Store is a grouped key-value file holding desktop state. Changes are kept
// in memory until Sync writes them out.
type Store struct {
	mu     sync.Mutex
	path   string
	groups map[string]map[string]string
	dirty  bool
}

// OpenStore reads the store at path. A missing file yields an empty store
// that is created on the first Sync.
func OpenStore(path string) (*Store, error) {
	s := &Store{path: path, groups: make(map[string]map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}

	var file storeFile
	if err := decodeStrictYAML(data, &file); err != nil {
		return nil, fmt.Errorf("%s: failed to parse yaml: %w", path, err)
	}
	for group, keys := range file.Groups {
		if keys == nil {
			continue
		}
		s.groups[group] = keys
	}
	return s, nil
}

// NewMemoryStore returns a store that is never written to disk.
func NewMemoryStore() *Store {
	return &Store{groups: make(map[string]map[string]string)}
}

// Path returns the backing file, or "" for a memory store.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Lookup(group, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.groups[group][key]
	return v, ok
}

func (s *Store) Set(group, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.groups[group]
	if g == nil {
		g = make(map[string]string)
		s.groups[group] = g
	}
	if old, ok := g[key]; ok && old == value {
		return
	}
	g[key] = value
	s.dirty = true
}

func (s *Store) Delete(group, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.groups[group]
	if _, ok := g[key]; !ok {
		return
	}
	delete(g, key)
	if len(g) == 0 {
		delete(s.groups, group)
	}
	s.dirty = true
}

// Keys returns the keys of group in sorted order.
func (s *Store) Keys(group string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.groups[group]))
	for k := range s.groups[group] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Sync writes pending changes. It is a no-op for memory stores and when
// nothing changed since the last Sync.
func (s *Store) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" || !s.dirty {
		return nil
	}

	data, err := yaml.Marshal(storeFile{Groups: s.groups})
	if err != nil {
		return fmt.Errorf("failed to encode desktops: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%s: failed to write: %w", s.path, err)
	}
	s.dirty = false
	return nil
}

// writeFileAtomic writes data to a temporary file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}
