package handler

import (
	"net/http"

	"github.com/osse101/EcoQuest_Go/internal/logger"
	"github.com/osse101/EcoQuest_Go/internal/userstats"
)

// EnsureProfileRequest carries the optional display name of a new profile
type EnsureProfileRequest struct {
	DisplayName string `json:"displayName" validate:"max=64,excludesall=\x00\n\r\t"`
}

// CheckUnlocksResponse lists the ids unlocked by a check
type CheckUnlocksResponse struct {
	Unlocked []string `json:"unlocked"`
}

// UserHandler serves profile, achievement and badge endpoints
type UserHandler struct {
	stats userstats.Service
}

// NewUserHandler creates a UserHandler
func NewUserHandler(stats userstats.Service) *UserHandler {
	return &UserHandler{stats: stats}
}

// HandleEnsureProfile creates the user's profile with defaults when missing
// and returns it either way.
// @Summary Create or fetch a profile
// @Tags users
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param request body EnsureProfileRequest false "Display name"
// @Success 200 {object} domain.UserStats
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/{userID}/profile [post]
// @Security ApiKeyAuth
func (h *UserHandler) HandleEnsureProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDParam(w, r)
	if !ok {
		return
	}

	var req EnsureProfileRequest
	if r.ContentLength != 0 {
		if err := DecodeAndValidateRequest(r, w, &req, OpEnsureProfile); err != nil {
			return
		}
	}

	profile, err := h.stats.EnsureProfile(r.Context(), userID, req.DisplayName)
	if err != nil {
		respondServiceError(w, r, OpEnsureProfile, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// HandleGetStats returns the user's progression profile
// @Summary Get user stats
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} domain.UserStats
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/{userID}/stats [get]
// @Security ApiKeyAuth
func (h *UserHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDParam(w, r)
	if !ok {
		return
	}

	profile, err := h.stats.GetUserStats(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, OpGetUserStats, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// HandleCheckAchievements evaluates the achievement catalog for the user
// @Summary Check achievements
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} CheckUnlocksResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/{userID}/achievements/check [post]
// @Security ApiKeyAuth
func (h *UserHandler) HandleCheckAchievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDParam(w, r)
	if !ok {
		return
	}

	unlocked, err := h.stats.CheckAndAwardAchievements(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, OpCheckAchievements, err)
		return
	}
	if len(unlocked) > 0 {
		logger.FromContext(r.Context()).Info("Achievements unlocked", "user_id", userID, "count", len(unlocked))
	}
	respondJSON(w, http.StatusOK, CheckUnlocksResponse{Unlocked: nonNil(unlocked)})
}

// HandleCheckBadges evaluates the badge catalog for the user
// @Summary Check badges
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} CheckUnlocksResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/{userID}/badges/check [post]
// @Security ApiKeyAuth
func (h *UserHandler) HandleCheckBadges(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDParam(w, r)
	if !ok {
		return
	}

	unlocked, err := h.stats.CheckAndAwardBadges(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, OpCheckBadges, err)
		return
	}
	respondJSON(w, http.StatusOK, CheckUnlocksResponse{Unlocked: nonNil(unlocked)})
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// HandleGetCatalog returns the achievement, badge and title catalog
// @Summary Get the unlock catalog
// @Tags users
// @Produce json
// @Success 200 {object} userstats.Catalog
// @Router /api/v1/catalog [get]
// @Security ApiKeyAuth
func (h *UserHandler) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.stats.Catalog())
}
