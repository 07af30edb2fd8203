package bootstrap

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/osse101/EcoQuest_Go/internal/event"
	"github.com/osse101/EcoQuest_Go/internal/metrics"
	"github.com/osse101/EcoQuest_Go/internal/sse"
	"github.com/osse101/EcoQuest_Go/internal/userstats"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus     event.Bus
	StatsService userstats.Service
	// Hub is optional; without it no events are streamed to clients
	Hub *sse.Hub
	// Registerer receives the stream gauges; nil skips them
	Registerer prometheus.Registerer
}

// RegisterEventHandlers sets up all event handlers and subscribers:
// title awards on level-up, business metrics and the SSE bridge. The bridge
// is returned so shutdown can detach it, and is nil without a hub.
func RegisterEventHandlers(deps EventHandlerDependencies) *sse.Subscriber {
	userstats.NewEventHandler(deps.StatsService).Register(deps.EventBus)
	slog.Info(LogMsgTitleHandlerRegistered)

	metrics.NewEventMetricsCollector().Register(deps.EventBus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	if deps.Hub == nil {
		return nil
	}
	if deps.Registerer != nil {
		hub := deps.Hub
		err := metrics.RegisterStreamMetrics(deps.Registerer, func() (int, uint64) {
			st := hub.Stats()
			return st.Streams, st.Dropped
		})
		if err != nil {
			slog.Warn(LogMsgStreamMetricsFailed, "error", err)
		}
	}

	bridge := sse.NewSubscriber(deps.Hub, deps.EventBus)
	bridge.Subscribe()
	slog.Info(LogMsgSSESubscriberRegistered)
	return bridge
}
