package mission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/osse101/EcoQuest_Go/internal/domain"
	"github.com/osse101/EcoQuest_Go/internal/logger"
	"github.com/osse101/EcoQuest_Go/internal/store"
)

// dayKey addresses one user's mission set for one date
type dayKey struct {
	UserID string
	Date   domain.Date
}

func missionsPath(k dayKey) string {
	return store.MissionsDoc(k.UserID, k.Date.String())
}

// localMirror keeps every user's latest mission set in a single local item,
// keyed by user id. Only one date per user is cached.
type localMirror struct {
	local store.Local
	mu    sync.Mutex
}

var _ store.Mirror[dayKey] = (*localMirror)(nil)

func newLocalMirror(local store.Local) *localMirror {
	return &localMirror{local: local}
}

// readAll loads the whole record. A missing or corrupt record is empty.
func (m *localMirror) readAll(ctx context.Context) (map[string]store.Document, error) {
	raw, err := m.local.GetItem(ctx, LocalKey)
	if errors.Is(err, store.ErrNotFound) {
		return map[string]store.Document{}, nil
	}
	if err != nil {
		return nil, err
	}
	all := map[string]store.Document{}
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		logger.FromContext(ctx).Warn(LogMsgCorruptLocalRecord, "error", err)
		return map[string]store.Document{}, nil
	}
	return all, nil
}

func (m *localMirror) writeAll(ctx context.Context, all map[string]store.Document) error {
	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("%s: %w", store.ErrMsgEncodeFailed, err)
	}
	return m.local.SetItem(ctx, LocalKey, string(data))
}

// Load returns the cached set when it belongs to the requested date
func (m *localMirror) Load(ctx context.Context, key dayKey) (store.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all, err := m.readAll(ctx)
	if err != nil {
		return nil, err
	}
	doc, ok := all[key.UserID]
	if !ok || doc == nil {
		return nil, store.ErrNotFound
	}
	if id, _ := doc["id"].(string); id != key.Date.String() {
		return nil, store.ErrNotFound
	}
	return doc, nil
}

// Save replaces the user's cached set
func (m *localMirror) Save(ctx context.Context, key dayKey, doc store.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	all, err := m.readAll(ctx)
	if err != nil {
		return err
	}
	all[key.UserID] = doc
	return m.writeAll(ctx, all)
}

// prune drops entries dated before cutoff and reports how many were removed.
// Entries with an unreadable date are dropped too.
func (m *localMirror) prune(ctx context.Context, cutoff domain.Date) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all, err := m.readAll(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for userID, doc := range all {
		id, _ := doc["id"].(string)
		date, err := domain.ParseDate(id)
		if err != nil || date.Before(cutoff) {
			delete(all, userID)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, m.writeAll(ctx, all)
}
