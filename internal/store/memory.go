package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is an in-memory DocumentStore for tests and local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	strings map[string]string
	docs    map[string]json.RawMessage
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		strings: make(map[string]string),
		docs:    make(map[string]json.RawMessage),
	}
}

func (m *MemoryStore) Close() error                   { return nil }
func (m *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }
func (m *MemoryStore) Backend() string                { return "memory" }

// GetString returns the value at key.
func (m *MemoryStore) GetString(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.strings[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// SetString stores value at key.
func (m *MemoryStore) SetString(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.strings[key] = value
	return nil
}

// SetStringIfAbsent stores value only if key is unset.
func (m *MemoryStore) SetStringIfAbsent(ctx context.Context, key, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.strings[key]; ok {
		return false, nil
	}
	m.strings[key] = value
	return true, nil
}

// GetJSON returns the document at key, or the element selected by path.
func (m *MemoryStore) GetJSON(ctx context.Context, key string, path Path) (json.RawMessage, error) {
	idx, err := path.arrayIndex()
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	doc, ok := m.docs[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	if idx < 0 {
		return clone(doc), nil
	}
	elem, err := elementAt(doc, idx)
	if err != nil {
		return nil, err
	}
	return clone(elem), nil
}

// SetJSON replaces the document at key, or one element of it.
func (m *MemoryStore) SetJSON(ctx context.Context, key string, path Path, value json.RawMessage) error {
	idx, err := path.arrayIndex()
	if err != nil {
		return err
	}
	if !json.Valid(value) {
		return ErrInvalidJSON
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if idx < 0 {
		m.docs[key] = clone(value)
		return nil
	}

	doc, ok := m.docs[key]
	if !ok {
		return ErrNotFound
	}
	updated, err := replaceAt(doc, idx, clone(value))
	if err != nil {
		return err
	}
	m.docs[key] = updated
	return nil
}

func clone(b json.RawMessage) json.RawMessage {
	out := make(json.RawMessage, len(b))
	copy(out, b)
	return out
}
