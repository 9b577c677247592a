// Package kv persists small JSON documents under string keys.
//
// It plays the role of browser local storage for the desktop: the theme and
// trail settings each live under one key, are written synchronously on every
// change and are read back with a fallback when absent or unreadable.
package kv

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"
)

// ErrNotFound is returned by Load when the key has never been saved.
var ErrNotFound = errors.New("kv: key not found")

// Store loads and saves JSON-encodable values by key.
type Store interface {
	Load(key string, v any) error
	Save(key string, v any) error
}

func validKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("kv: invalid key %q", key)
	}
	return nil
}

// MemStore keeps values in memory. SSH and web sessions use it so visitors
// do not share or overwrite the host's settings.
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

// Load decodes the value stored under key into v.
func (s *MemStore) Load(key string, v any) error {
	if err := validKey(key); err != nil {
		return err
	}
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("kv: decode %s: %w", key, err)
	}
	return nil
}

// Save encodes v and stores it under key.
func (s *MemStore) Save(key string, v any) error {
	if err := validKey(key); err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", key, err)
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

// SetRaw stores bytes as-is, which lets tests plant malformed documents.
func (s *MemStore) SetRaw(key string, raw []byte) {
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
}

// Keys returns a snapshot of the stored keys.
func (s *MemStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range maps.Keys(s.data) {
		keys = append(keys, k)
	}
	return keys
}
