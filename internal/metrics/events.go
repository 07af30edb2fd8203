package metrics

import (
	"context"

	"github.com/osse101/EcoQuest_Go/internal/event"
	"github.com/osse101/EcoQuest_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all event types
func (e *EventMetricsCollector) Register(bus event.Bus) {
	for _, t := range event.AllTypes {
		bus.Subscribe(t, e.HandleEvent)
	}
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch p := evt.Payload.(type) {
	case event.MissionCompletedPayload:
		MissionsCompleted.Inc()
		XPGranted.WithLabelValues(SourceMission).Add(float64(p.XP))
	case event.DailyGoalCompletedPayload:
		DailyGoalsCompleted.Inc()
		XPGranted.WithLabelValues(SourceDailyGoal).Add(float64(p.XP))
	case event.LevelUpPayload:
		LevelUps.Inc()
	case event.BadgeUnlockedPayload:
		BadgesUnlocked.WithLabelValues(p.BadgeID).Inc()
	case event.AchievementUnlockedPayload:
		AchievementsUnlocked.WithLabelValues(p.AchievementID).Inc()
	case event.RecyclingRecordedPayload:
		ItemsRecycled.WithLabelValues(p.Material).Inc()
	}

	logger.FromContext(ctx).Debug(LogMsgEventCollected, "type", evt.Type)
	return nil
}
