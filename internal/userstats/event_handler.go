package userstats

import (
	"context"

	"github.com/osse101/EcoQuest_Go/internal/event"
	"github.com/osse101/EcoQuest_Go/internal/logger"
)

// EventHandler reacts to progression events
type EventHandler struct {
	service Service
}

// NewEventHandler creates a new user stats event handler
func NewEventHandler(service Service) *EventHandler {
	return &EventHandler{service: service}
}

// Register subscribes the handler to relevant events
func (h *EventHandler) Register(bus event.Bus) {
	event.On(bus, h.HandleLevelUp)
}

// HandleLevelUp awards the title unlocked by the new level
func (h *EventHandler) HandleLevelUp(ctx context.Context, payload event.LevelUpPayload) error {
	if err := h.service.AwardTitleForLevel(ctx, payload.UserID, payload.NewLevel); err != nil {
		logger.FromContext(ctx).Warn(LogMsgTitleAwardFailed, "user_id", payload.UserID, "level", payload.NewLevel, "error", err)
	}
	return nil
}
