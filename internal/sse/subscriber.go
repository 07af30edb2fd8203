package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/EcoQuest_Go/internal/event"
)

// Subscriber forwards bus events to the streams of the user they concern
type Subscriber struct {
	hub   *Hub
	bus   event.Bus
	types []event.Type
	subs  []event.SubscriptionID
}

// NewSubscriber bridges bus to hub for the given event types, or for every
// type when none are given
func NewSubscriber(hub *Hub, bus event.Bus, types ...event.Type) *Subscriber {
	if len(types) == 0 {
		types = event.AllTypes
	}
	return &Subscriber{hub: hub, bus: bus, types: types}
}

// Subscribe registers the bridge on the bus. Calling it twice is a no-op.
func (s *Subscriber) Subscribe() {
	if len(s.subs) > 0 {
		return
	}
	for _, t := range s.types {
		s.subs = append(s.subs, s.bus.Subscribe(t, s.forward))
	}
	slog.Info(LogMsgSubscribed, "types", len(s.types))
}

// Unsubscribe detaches the bridge so a stopped hub receives nothing
func (s *Subscriber) Unsubscribe() {
	for _, id := range s.subs {
		s.bus.Unsubscribe(id)
	}
	s.subs = nil
	slog.Info(LogMsgUnsubscribed)
}

func (s *Subscriber) forward(_ context.Context, evt event.Event) error {
	if evt.Payload == nil {
		return nil
	}
	userID := evt.Payload.User()
	s.hub.Broadcast(userID, string(evt.Type), evt.Payload)
	slog.Debug(LogMsgEventBroadcast, "event_type", evt.Type, "user_id", userID)
	return nil
}
