package handler

import (
	"net/http"

	"github.com/osse101/EcoQuest_Go/internal/classifier"
	"github.com/osse101/EcoQuest_Go/internal/logger"
	"github.com/osse101/EcoQuest_Go/internal/recycling"
)

// ClassificationRequest carries the raw text returned by the image classifier
type ClassificationRequest struct {
	Response string `json:"response" validate:"required,max=8192"`
}

// RecyclingHandler serves recycling history endpoints
type RecyclingHandler struct {
	svc recycling.Service
}

// NewRecyclingHandler creates a RecyclingHandler
func NewRecyclingHandler(svc recycling.Service) *RecyclingHandler {
	return &RecyclingHandler{svc: svc}
}

// HandleRecord records one recycled item
// @Summary Record a recycled item
// @Tags recycling
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param request body recycling.RecordInput true "Recycled item"
// @Success 201 {object} recycling.RecordResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/{userID}/recycling [post]
// @Security ApiKeyAuth
func (h *RecyclingHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDParam(w, r)
	if !ok {
		return
	}

	var req recycling.RecordInput
	if err := DecodeAndValidateRequest(r, w, &req, OpRecordRecycling); err != nil {
		return
	}

	h.record(w, r, userID, req, OpRecordRecycling)
}

// HandleRecordClassification parses a classifier response and records the item
// @Summary Record a classified item
// @Description Parses the raw classifier response and records the item it describes
// @Tags recycling
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param request body ClassificationRequest true "Classifier response"
// @Success 201 {object} recycling.RecordResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/{userID}/recycling/classification [post]
// @Security ApiKeyAuth
func (h *RecyclingHandler) HandleRecordClassification(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDParam(w, r)
	if !ok {
		return
	}

	var req ClassificationRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpRecordClassified); err != nil {
		return
	}

	c, err := classifier.ParseResponse(req.Response)
	if err != nil {
		respondServiceError(w, r, OpRecordClassified, err)
		return
	}

	h.record(w, r, userID, c.RecordInput(), OpRecordClassified)
}

func (h *RecyclingHandler) record(w http.ResponseWriter, r *http.Request, userID string, in recycling.RecordInput, op string) {
	res, err := h.svc.RecordRecycling(r.Context(), userID, in)
	if err != nil {
		respondServiceError(w, r, op, err)
		return
	}
	logger.FromContext(r.Context()).Info("Recycling recorded",
		"user_id", userID,
		"material", res.Record.Material,
		"missions_completed", len(res.CompletedMissions))
	respondJSON(w, http.StatusCreated, res)
}

// HandleGetStats returns the user's recycling totals
// @Summary Get recycling stats
// @Tags recycling
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} domain.RecyclingStats
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/{userID}/recycling/stats [get]
// @Security ApiKeyAuth
func (h *RecyclingHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDParam(w, r)
	if !ok {
		return
	}

	stats, err := h.svc.GetStats(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, OpGetRecyclingStats, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// HandleGetRecent returns the newest records, ?limit= bounded by the service
// @Summary Get recent recycling records
// @Tags recycling
// @Produce json
// @Param userID path string true "User ID"
// @Param limit query int false "Maximum records"
// @Success 200 {array} domain.RecycleRecord
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/{userID}/recycling/recent [get]
// @Security ApiKeyAuth
func (h *RecyclingHandler) HandleGetRecent(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDParam(w, r)
	if !ok {
		return
	}
	limit, ok := GetIntQueryParam(w, r, "limit", recycling.DefaultRecentLimit)
	if !ok {
		return
	}

	records, err := h.svc.GetRecent(r.Context(), userID, limit)
	if err != nil {
		respondServiceError(w, r, OpGetRecentRecycling, err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}
