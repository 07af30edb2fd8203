package handler

import (
	"net/http"

	"github.com/osse101/EcoQuest_Go/internal/dailyprogress"
	"github.com/osse101/EcoQuest_Go/internal/mission"
)

// UpdateProgressRequest sets a mission's absolute progress
type UpdateProgressRequest struct {
	Progress *int `json:"progress" validate:"required,min=0"`
}

// MissionHandler serves daily missions and daily progress
type MissionHandler struct {
	missions mission.Service
	daily    dailyprogress.Service
}

// NewMissionHandler creates a MissionHandler
func NewMissionHandler(missions mission.Service, daily dailyprogress.Service) *MissionHandler {
	return &MissionHandler{missions: missions, daily: daily}
}

// HandleGetMissions returns today's missions, generating them on first access
// @Summary Get today's missions
// @Tags missions
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} domain.DailyMissionSet
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/{userID}/missions [get]
// @Security ApiKeyAuth
func (h *MissionHandler) HandleGetMissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDParam(w, r)
	if !ok {
		return
	}

	set, err := h.missions.GetTodayMissions(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, OpGetMissions, err)
		return
	}
	respondJSON(w, http.StatusOK, set)
}

// HandleGetSummary returns completion totals for today's missions
// @Summary Get today's mission summary
// @Tags missions
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} domain.MissionsSummary
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/{userID}/missions/summary [get]
// @Security ApiKeyAuth
func (h *MissionHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDParam(w, r)
	if !ok {
		return
	}

	summary, err := h.missions.GetMissionsSummary(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, OpGetMissionsSummary, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// HandleUpdateProgress sets a mission's progress
// @Summary Set mission progress
// @Description Reaching the target completes the mission and credits its XP
// @Tags missions
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param missionID path string true "Mission ID"
// @Param request body UpdateProgressRequest true "New progress"
// @Success 200 {object} domain.Mission
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/{userID}/missions/{missionID}/progress [post]
// @Security ApiKeyAuth
func (h *MissionHandler) HandleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDParam(w, r)
	if !ok {
		return
	}
	missionID, ok := MissionIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateProgressRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpUpdateMission); err != nil {
		return
	}

	m, err := h.missions.UpdateMissionProgress(r.Context(), userID, missionID, *req.Progress)
	if err != nil {
		respondServiceError(w, r, OpUpdateMission, err)
		return
	}
	respondJSON(w, http.StatusOK, m)
}

// HandleComplete marks a mission completed and credits its reward
// @Summary Complete a mission
// @Tags missions
// @Produce json
// @Param userID path string true "User ID"
// @Param missionID path string true "Mission ID"
// @Success 200 {object} domain.Mission
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/{userID}/missions/{missionID}/complete [post]
// @Security ApiKeyAuth
func (h *MissionHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDParam(w, r)
	if !ok {
		return
	}
	missionID, ok := MissionIDParam(w, r)
	if !ok {
		return
	}

	m, err := h.missions.CompleteMission(r.Context(), userID, missionID)
	if err != nil {
		respondServiceError(w, r, OpCompleteMission, err)
		return
	}
	respondJSON(w, http.StatusOK, m)
}

// HandleSync pushes today's local mission state to the remote store
// @Summary Sync local missions
// @Tags missions
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} SuccessResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/{userID}/missions/sync [post]
// @Security ApiKeyAuth
func (h *MissionHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDParam(w, r)
	if !ok {
		return
	}

	if err := h.missions.SyncLocalWithRemote(r.Context(), userID); err != nil {
		respondServiceError(w, r, OpSyncMissions, err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgMissionsSynced})
}

// HandleGetDailyProgress returns today's progress toward the daily goal
// @Summary Get daily progress
// @Tags missions
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} domain.DailyStats
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/{userID}/daily-progress [get]
// @Security ApiKeyAuth
func (h *MissionHandler) HandleGetDailyProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDParam(w, r)
	if !ok {
		return
	}

	stats, err := h.daily.GetDailyStats(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, OpGetDailyProgress, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
