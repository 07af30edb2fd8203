package sse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Event is one message on a user's stream
type Event struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Payload   any    `json:"payload"`

	// userID routes the event; empty goes to every stream
	userID string
}

// Encode renders the event in text/event-stream framing with the whole
// event as the data line.
func (e Event) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "id: %s\nevent: %s\ndata: %s\n\n", e.ID, e.Type, data)
	return b.Bytes(), nil
}

// Stream is one connected listener. UserID "" listens to every user.
type Stream struct {
	ID     string
	UserID string

	events  chan Event
	types   map[string]struct{}
	dropped atomic.Uint64
}

// Events is closed when the stream is unregistered or the hub stops
func (s *Stream) Events() <-chan Event { return s.events }

// Dropped counts events skipped because the stream buffer was full
func (s *Stream) Dropped() uint64 { return s.dropped.Load() }

func (s *Stream) accepts(eventType string) bool {
	if s.types == nil {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// HubStats is a point-in-time view of the hub
type HubStats struct {
	Streams int    `json:"streams"`
	Users   int    `json:"users"`
	Dropped uint64 `json:"dropped"`
}

// Hub fans events out to streams indexed by user
type Hub struct {
	mu      sync.RWMutex
	byUser  map[string]map[string]*Stream
	streams int
	stopped bool

	queue    chan Event
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	dropped  atomic.Uint64
}

// NewHub creates a Hub. Call Start before publishing.
func NewHub() *Hub {
	return &Hub{
		byUser: make(map[string]map[string]*Stream),
		queue:  make(chan Event, BroadcastBufferSize),
		done:   make(chan struct{}),
	}
}

// Start runs the delivery loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop ends delivery and closes every stream. Safe to call twice.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		h.wg.Wait()

		h.mu.Lock()
		defer h.mu.Unlock()
		for _, streams := range h.byUser {
			for _, s := range streams {
				close(s.events)
			}
		}
		h.byUser = make(map[string]map[string]*Stream)
		h.streams = 0
		h.stopped = true
	})
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case evt := <-h.queue:
			h.deliver(evt)
		case <-h.done:
			return
		}
	}
}

func (h *Hub) deliver(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	send := func(streams map[string]*Stream) {
		for _, s := range streams {
			if !s.accepts(evt.Type) {
				continue
			}
			select {
			case s.events <- evt:
			default:
				s.dropped.Add(1)
				h.dropped.Add(1)
			}
		}
	}

	if evt.userID == "" {
		for _, streams := range h.byUser {
			send(streams)
		}
		return
	}
	send(h.byUser[evt.userID])
	send(h.byUser[""])
}

// Register opens a stream for userID limited to eventTypes (all when
// empty). After Stop the returned stream is already closed.
func (h *Hub) Register(userID string, eventTypes []string) *Stream {
	s := &Stream{
		ID:     uuid.NewString(),
		UserID: userID,
		events: make(chan Event, ClientEventBuffer),
	}
	if len(eventTypes) > 0 {
		s.types = make(map[string]struct{}, len(eventTypes))
		for _, t := range eventTypes {
			s.types[t] = struct{}{}
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		close(s.events)
		return s
	}
	if h.byUser[userID] == nil {
		h.byUser[userID] = make(map[string]*Stream)
	}
	h.byUser[userID][s.ID] = s
	h.streams++
	return s
}

// Unregister closes s. Unknown or already closed streams are ignored.
func (h *Hub) Unregister(s *Stream) {
	h.mu.Lock()
	defer h.mu.Unlock()

	streams := h.byUser[s.UserID]
	if _, ok := streams[s.ID]; !ok {
		return
	}
	delete(streams, s.ID)
	if len(streams) == 0 {
		delete(h.byUser, s.UserID)
	}
	h.streams--
	close(s.events)
}

// Broadcast queues an event for userID's streams and the all-user streams.
// A full queue drops the event.
func (h *Hub) Broadcast(userID, eventType string, payload any) {
	select {
	case <-h.done:
		return
	default:
	}

	evt := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
		userID:    userID,
	}
	select {
	case h.queue <- evt:
	default:
		h.dropped.Add(1)
		slog.Warn(LogMsgEventDropped, "event_type", eventType, "user_id", userID)
	}
}

// Stats snapshots the hub's connection and drop counters
func (h *Hub) Stats() HubStats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	users := len(h.byUser)
	if _, ok := h.byUser[""]; ok {
		users--
	}
	return HubStats{Streams: h.streams, Users: users, Dropped: h.dropped.Load()}
}
