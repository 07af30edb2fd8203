package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/osse101/EcoQuest_Go/internal/logger"
	"github.com/osse101/EcoQuest_Go/internal/metrics"
)

// Mirror keeps the local copy of remote documents addressed by K
type Mirror[K any] interface {
	// Load returns ErrNotFound when nothing usable is cached for key
	Load(ctx context.Context, key K) (Document, error)
	Save(ctx context.Context, key K, doc Document) error
}

// Tiered applies one persistence policy for documents addressed by K:
// writes go through to the remote store and are mirrored locally, reads are
// remote-first and fall back to the mirror when the remote store fails.
// A remote ErrNotFound is authoritative and never falls back.
type Tiered[K any] struct {
	remote Remote
	mirror Mirror[K]
	path   func(K) string

	// serializes local-only transactions
	mu sync.Mutex
}

// NewTiered creates a tiered repository. path maps a key to its remote document path.
func NewTiered[K any](remote Remote, mirror Mirror[K], path func(K) string) *Tiered[K] {
	return &Tiered[K]{remote: remote, mirror: mirror, path: path}
}

// Get reads the document for key
func (t *Tiered[K]) Get(ctx context.Context, key K) (Document, Source, error) {
	path := t.path(key)

	doc, err := t.remote.GetDocument(ctx, path)
	if err == nil {
		t.saveMirror(ctx, key, path, doc)
		return doc, SourceRemote, nil
	}
	if errors.Is(err, ErrNotFound) {
		return nil, SourceRemote, ErrNotFound
	}

	t.fallback(ctx, OpGet, LogMsgRemoteReadFailed, path, err)
	local, lerr := t.mirror.Load(ctx, key)
	if lerr == nil {
		return local, SourceLocal, nil
	}
	if errors.Is(lerr, ErrNotFound) {
		return nil, SourceLocal, ErrNotFound
	}
	return nil, SourceLocal, fmt.Errorf("%s: %w", ErrMsgBothStoresFailed, errors.Join(err, lerr))
}

// Set writes the whole document for key
func (t *Tiered[K]) Set(ctx context.Context, key K, doc Document) (Source, error) {
	path := t.path(key)

	err := t.remote.SetDocument(ctx, path, doc, false)
	if err == nil {
		t.saveMirror(ctx, key, path, doc)
		return SourceRemote, nil
	}

	t.fallback(ctx, OpSet, LogMsgRemoteWriteFailed, path, err)
	if lerr := t.mirror.Save(ctx, key, doc); lerr != nil {
		return SourceLocal, fmt.Errorf("%s: %w", ErrMsgBothStoresFailed, errors.Join(err, lerr))
	}
	return SourceLocal, nil
}

// SaveLocal writes only the local mirror
func (t *Tiered[K]) SaveLocal(ctx context.Context, key K, doc Document) error {
	return t.mirror.Save(ctx, key, doc)
}

// LoadLocal reads only the local mirror
func (t *Tiered[K]) LoadLocal(ctx context.Context, key K) (Document, error) {
	return t.mirror.Load(ctx, key)
}

// Transact runs fn as a read-modify-write of key's document. The remote store
// serializes concurrent transactions; if it is unreachable the same fn is applied
// to the local mirror instead. fn may run more than once and must not keep state
// between runs. Errors returned by fn are passed through unchanged.
func (t *Tiered[K]) Transact(ctx context.Context, key K, fn func(current Document) (Document, error)) (Document, Source, error) {
	path := t.path(key)

	var (
		result Document
		fnErr  error
	)
	err := t.remote.RunTransaction(ctx, path, func(current Document) (Document, error) {
		next, err := fn(current)
		fnErr = err
		result = next
		if next == nil {
			result = current
		}
		return next, err
	})
	if fnErr != nil {
		return nil, SourceRemote, fnErr
	}
	if err == nil {
		if result != nil {
			t.saveMirror(ctx, key, path, result)
		}
		return result, SourceRemote, nil
	}

	t.fallback(ctx, OpTransact, LogMsgRemoteTxFailed, path, err)

	t.mu.Lock()
	defer t.mu.Unlock()

	current, lerr := t.mirror.Load(ctx, key)
	if lerr != nil && !errors.Is(lerr, ErrNotFound) {
		return nil, SourceLocal, fmt.Errorf("%s: %w", ErrMsgBothStoresFailed, errors.Join(err, lerr))
	}
	next, ferr := fn(current)
	if ferr != nil {
		return nil, SourceLocal, ferr
	}
	if next == nil {
		return current, SourceLocal, nil
	}
	if serr := t.mirror.Save(ctx, key, next); serr != nil {
		return nil, SourceLocal, fmt.Errorf("%s: %w", ErrMsgBothStoresFailed, errors.Join(err, serr))
	}
	return next, SourceLocal, nil
}

func (t *Tiered[K]) saveMirror(ctx context.Context, key K, path string, doc Document) {
	if err := t.mirror.Save(ctx, key, doc); err != nil {
		logger.FromContext(ctx).Warn(LogMsgMirrorSaveFailed, "path", path, "error", err)
	}
}

func (t *Tiered[K]) fallback(ctx context.Context, op, msg, path string, err error) {
	metrics.StoreFallbacks.WithLabelValues(op).Inc()
	logger.FromContext(ctx).Warn(msg, "path", path, "error", err)
}

// KeyMirror stores each document as one JSON item under prefix+key(K)
type KeyMirror[K any] struct {
	local  Local
	prefix string
	key    func(K) string
}

// NewKeyMirror creates a mirror over a Local store
func NewKeyMirror[K any](local Local, prefix string, key func(K) string) *KeyMirror[K] {
	return &KeyMirror[K]{local: local, prefix: prefix, key: key}
}

// Load implements Mirror. Corrupt items are reported as ErrNotFound.
func (m *KeyMirror[K]) Load(ctx context.Context, key K) (Document, error) {
	k := m.prefix + m.key(key)
	raw, err := m.local.GetItem(ctx, k)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil || doc == nil {
		logger.FromContext(ctx).Warn(LogMsgCorruptLocalItem, "key", k, "error", err)
		return nil, ErrNotFound
	}
	return doc, nil
}

// Save implements Mirror
func (m *KeyMirror[K]) Save(ctx context.Context, key K, doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgEncodeFailed, err)
	}
	return m.local.SetItem(ctx, m.prefix+m.key(key), string(data))
}
