package sse

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/osse101/EcoQuest_Go/internal/logger"
)

// eventWriter frames events onto a flushed response
type eventWriter struct {
	w http.ResponseWriter
	f http.Flusher
}

func (ew eventWriter) send(evt Event) error {
	msg, err := evt.Encode()
	if err != nil {
		return err
	}
	if _, err := ew.w.Write(msg); err != nil {
		return err
	}
	ew.f.Flush()
	return nil
}

func (ew eventWriter) retry(d time.Duration) error {
	if _, err := fmt.Fprintf(ew.w, "retry: %d\n\n", d.Milliseconds()); err != nil {
		return err
	}
	ew.f.Flush()
	return nil
}

// parseTypes reads the comma separated ?types= filter
func parseTypes(r *http.Request) []string {
	var types []string
	for _, t := range strings.Split(r.URL.Query().Get("types"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types
}

// Handler streams one user's events. userID extracts the user from the
// request, typically a route parameter.
func Handler(hub *Hub, userID func(r *http.Request) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		uid := userID(r)
		if uid == "" {
			http.Error(w, "user id is required", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		types := parseTypes(r)
		stream := hub.Register(uid, types)
		log.Info(LogMsgClientConnected, "stream_id", stream.ID, "user_id", uid, "types", types)
		defer func() {
			hub.Unregister(stream)
			log.Info(LogMsgClientDisconnected,
				"stream_id", stream.ID, "user_id", uid, "dropped", stream.Dropped())
		}()

		out := eventWriter{w: w, f: flusher}
		if err := out.retry(ReconnectDelay); err != nil {
			return
		}
		hello := Event{
			ID:        stream.ID,
			Type:      EventTypeConnected,
			Timestamp: time.Now().Unix(),
			Payload:   map[string]any{"stream_id": stream.ID, "user_id": uid, "types": types},
		}
		if err := out.send(hello); err != nil {
			return
		}

		keepalive := time.NewTicker(KeepaliveInterval)
		defer keepalive.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case evt, open := <-stream.Events():
				if !open {
					return
				}
				if err := out.send(evt); err != nil {
					log.Warn(LogMsgWriteError, "error", err)
					return
				}
			case <-keepalive.C:
				if err := out.send(Event{Type: EventTypeKeepalive, Timestamp: time.Now().Unix()}); err != nil {
					return
				}
			}
		}
	}
}
