package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/osse101/EcoQuest_Go/internal/logger"
)

// Type represents the type of an event
type Type string

// Event types. The set is closed: every Type has exactly one payload struct.
const (
	LevelUp             Type = "user.level_up"
	BadgeUnlocked       Type = "user.badge_unlocked"
	AchievementUnlocked Type = "user.achievement_unlocked"
	UserStatsUpdated    Type = "user.stats_updated"
	MissionCompleted    Type = "mission.completed"
	DailyGoalCompleted  Type = "daily.goal_completed"
	RecyclingRecorded   Type = "recycling.recorded"
)

// AllTypes lists every event type, in a stable order
var AllTypes = []Type{
	LevelUp,
	BadgeUnlocked,
	AchievementUnlocked,
	UserStatsUpdated,
	MissionCompleted,
	DailyGoalCompleted,
	RecyclingRecorded,
}

// Payload is implemented only by the payload structs of this package
type Payload interface {
	eventType() Type
	// User returns the id of the user the event concerns
	User() string
}

// Event represents an event published on the bus
type Event struct {
	Version    string         `json:"version"` // Event schema version (e.g., "1.0")
	Type       Type           `json:"type"`
	Payload    Payload        `json:"payload"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// New wraps a payload into an event of the matching type
func New(p Payload) Event {
	return Event{
		Version:    EventSchemaVersion,
		Type:       p.eventType(),
		Payload:    p,
		OccurredAt: time.Now(),
	}
}

// WithMetadata returns a copy of the event with key set in its metadata
func (e Event) WithMetadata(key string, value any) Event {
	md := make(map[string]any, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		md[k] = v
	}
	md[key] = value
	e.Metadata = md
	return e
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// SubscriptionID identifies a registered handler so it can be removed
type SubscriptionID uint64

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler) SubscriptionID
	Unsubscribe(id SubscriptionID)
}

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]subscription
	mu       sync.RWMutex
	nextID   atomic.Uint64
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]subscription),
	}
}

// Publish calls every handler currently subscribed to the event type, once,
// in subscription order. Handler errors are collected and returned together.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	subs := append([]subscription(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, sub := range subs {
		if err := sub.handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(errHandlersFailedFormat, len(errs), event.Type, errors.Join(errs...))
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) SubscriptionID {
	id := SubscriptionID(b.nextID.Add(1))

	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})
	return id
}

// Unsubscribe removes a handler. Unknown ids are ignored.
func (b *MemoryBus) Unsubscribe(id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for t, subs := range b.handlers {
		for i, sub := range subs {
			if sub.id != id {
				continue
			}
			b.handlers[t] = append(subs[:i:i], subs[i+1:]...)
			if len(b.handlers[t]) == 0 {
				delete(b.handlers, t)
			}
			return
		}
	}
}

// On subscribes a handler that receives the typed payload T
func On[T Payload](bus Bus, fn func(ctx context.Context, payload T) error) SubscriptionID {
	var zero T
	return bus.Subscribe(zero.eventType(), func(ctx context.Context, evt Event) error {
		payload, err := DecodePayload[T](evt.Payload)
		if err != nil {
			return fmt.Errorf("decode %s payload: %w", evt.Type, err)
		}
		return fn(ctx, payload)
	})
}

// Emit publishes the payload and logs, rather than returns, any handler error.
// Services use it where a notification failure must not fail the operation.
func Emit(ctx context.Context, bus Bus, p Payload) {
	if bus == nil {
		return
	}
	evt := New(p)
	if err := bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "user_id", p.User(), "error", err)
	}
}
