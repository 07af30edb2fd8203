package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryRemote is an in-process Remote. SetFailing makes every call fail with
// ErrUnavailable, simulating an unreachable backend.
type MemoryRemote struct {
	mu      sync.Mutex
	docs    map[string]Document
	failing bool
}

// NewMemoryRemote creates an empty in-memory document store
func NewMemoryRemote() *MemoryRemote {
	return &MemoryRemote{docs: make(map[string]Document)}
}

// SetFailing toggles simulated outages
func (m *MemoryRemote) SetFailing(failing bool) {
	m.mu.Lock()
	m.failing = failing
	m.mu.Unlock()
}

// Ping reports ErrUnavailable while a simulated outage is active
func (m *MemoryRemote) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.check("ping", "")
}

func (m *MemoryRemote) check(op, path string) error {
	if m.failing {
		return fmt.Errorf("%w: memory %s %s", ErrUnavailable, op, path)
	}
	return nil
}

// GetDocument implements Remote
func (m *MemoryRemote) GetDocument(ctx context.Context, path string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("get", path); err != nil {
		return nil, err
	}
	doc, ok := m.docs[path]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(doc)
}

// SetDocument implements Remote
func (m *MemoryRemote) SetDocument(ctx context.Context, path string, data Document, merge bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("set", path); err != nil {
		return err
	}
	next, err := clone(data)
	if err != nil {
		return err
	}
	if existing, ok := m.docs[path]; ok && merge {
		for k, v := range next {
			existing[k] = v
		}
		return nil
	}
	m.docs[path] = next
	return nil
}

// UpdateDocument implements Remote
func (m *MemoryRemote) UpdateDocument(ctx context.Context, path string, fields Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("update", path); err != nil {
		return err
	}
	existing, ok := m.docs[path]
	if !ok {
		return ErrNotFound
	}
	patch, err := clone(fields)
	if err != nil {
		return err
	}
	for k, v := range patch {
		existing[k] = v
	}
	return nil
}

// IncrementField implements Remote
func (m *MemoryRemote) IncrementField(ctx context.Context, path, field string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("increment", path); err != nil {
		return err
	}
	doc, ok := m.docs[path]
	if !ok {
		doc = Document{}
		m.docs[path] = doc
	}
	doc[field] = float64(toInt64(doc[field]) + delta)
	return nil
}

// RunTransaction implements Remote. fn runs under the store lock and must not
// call back into the store.
func (m *MemoryRemote) RunTransaction(ctx context.Context, path string, fn func(current Document) (Document, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("transaction", path); err != nil {
		return err
	}

	var current Document
	if doc, ok := m.docs[path]; ok {
		c, err := clone(doc)
		if err != nil {
			return err
		}
		current = c
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}
	stored, err := clone(next)
	if err != nil {
		return err
	}
	m.docs[path] = stored
	return nil
}

// ListDocuments implements Remote
func (m *MemoryRemote) ListDocuments(ctx context.Context, collection string) (map[string]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("list", collection); err != nil {
		return nil, err
	}
	out := make(map[string]Document)
	for path, doc := range m.docs {
		parent, id := Split(path)
		if parent != collection {
			continue
		}
		c, err := clone(doc)
		if err != nil {
			return nil, err
		}
		out[id] = c
	}
	return out, nil
}

// clone deep-copies through JSON so stored values have the same types a real backend returns
func clone(doc Document) (Document, error) {
	if doc == nil {
		return Document{}, nil
	}
	return Encode(doc)
}

// MemoryLocal is an in-process Local store
type MemoryLocal struct {
	mu      sync.RWMutex
	items   map[string]string
	failing bool
}

// NewMemoryLocal creates an empty in-memory key-value store
func NewMemoryLocal() *MemoryLocal {
	return &MemoryLocal{items: make(map[string]string)}
}

// SetFailing toggles simulated storage failures
func (m *MemoryLocal) SetFailing(failing bool) {
	m.mu.Lock()
	m.failing = failing
	m.mu.Unlock()
}

// Ping reports ErrUnavailable while a simulated failure is active
func (m *MemoryLocal) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.check("ping", "")
}

func (m *MemoryLocal) check(op, key string) error {
	if m.failing {
		return fmt.Errorf("%w: memory local %s %s", ErrUnavailable, op, key)
	}
	return nil
}

// GetItem implements Local
func (m *MemoryLocal) GetItem(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check("get", key); err != nil {
		return "", err
	}
	v, ok := m.items[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// SetItem implements Local
func (m *MemoryLocal) SetItem(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("set", key); err != nil {
		return err
	}
	m.items[key] = value
	return nil
}

// RemoveItem implements Local
func (m *MemoryLocal) RemoveItem(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("remove", key); err != nil {
		return err
	}
	delete(m.items, key)
	return nil
}

// Keys implements Local
func (m *MemoryLocal) Keys(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check("keys", prefix); err != nil {
		return nil, err
	}
	var keys []string
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
