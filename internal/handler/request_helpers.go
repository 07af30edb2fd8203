package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/EcoQuest_Go/internal/logger"
)

// Route parameter names
const (
	ParamUserID    = "userID"
	ParamMissionID = "missionID"
)

// maxBodyBytes bounds JSON request bodies read by DecodeAndValidateRequest
const maxBodyBytes = 64 << 10

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// DecodeAndValidateRequest decodes a JSON request body and validates it.
// When it returns an error the response has already been written.
//
// Example usage:
//
//	var req RecordRecyclingRequest
//	if err := DecodeAndValidateRequest(r, w, &req, OpRecordRecycling); err != nil {
//	    return
//	}
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(req); err != nil {
		log.Warn(fmt.Sprintf("Failed to decode %s request", actionName), "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}

	log.Debug(fmt.Sprintf("%s request decoded", actionName))

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return err
	}

	return nil
}

// UserIDParam reads the {userID} route parameter. An empty value writes a 400.
func UserIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	return requiredParam(w, r, ParamUserID, ErrMsgMissingUserID)
}

// MissionIDParam reads the {missionID} route parameter. An empty value writes a 400.
func MissionIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	return requiredParam(w, r, ParamMissionID, ErrMsgMissingMissionID)
}

func requiredParam(w http.ResponseWriter, r *http.Request, name, msg string) (string, bool) {
	value := chi.URLParam(r, name)
	if value == "" {
		respondError(w, http.StatusBadRequest, msg)
		return "", false
	}
	return value, true
}

// GetOptionalQueryParam retrieves an optional query parameter, or defaultValue
// when it is absent.
func GetOptionalQueryParam(r *http.Request, paramName string, defaultValue string) string {
	value := r.URL.Query().Get(paramName)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetIntQueryParam parses an optional positive integer query parameter.
// A malformed or non-positive value writes a 400.
func GetIntQueryParam(w http.ResponseWriter, r *http.Request, paramName string, defaultValue int) (int, bool) {
	raw := r.URL.Query().Get(paramName)
	if raw == "" {
		return defaultValue, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
		return 0, false
	}
	return n, true
}
