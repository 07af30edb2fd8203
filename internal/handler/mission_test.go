package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/EcoQuest_Go/internal/domain"
)

const (
	progressRoute = "/users/{userID}/missions/{missionID}/progress"
	completeRoute = "/users/{userID}/missions/{missionID}/complete"
)

func TestHandleGetMissions(t *testing.T) {
	missions := &MockMissionService{}
	set := &domain.DailyMissionSet{
		Date:       domain.Date{Year: 2024, Month: 6, Day: 1},
		Missions:   []domain.Mission{{ID: "m1", Type: domain.MissionCountRecycle, Target: 5, XP: 30, Status: domain.MissionPending}},
		TotalCount: 1,
	}
	missions.On("GetTodayMissions", mock.Anything, "u1").Return(set, nil)
	h := NewMissionHandler(missions, &MockDailyService{})

	w := serveRoute(http.MethodGet, "/users/{userID}/missions", "/users/u1/missions", "", h.HandleGetMissions)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"2024-06-01"`)
	assert.Contains(t, w.Body.String(), `"estado":"pendiente"`)
}

func TestHandleGetSummary(t *testing.T) {
	missions := &MockMissionService{}
	missions.On("GetMissionsSummary", mock.Anything, "u1").
		Return(&domain.MissionsSummary{Total: 4, Completed: 1, Pending: 3, Percentage: 25}, nil)
	h := NewMissionHandler(missions, &MockDailyService{})

	w := serveRoute(http.MethodGet, "/users/{userID}/missions/summary", "/users/u1/missions/summary", "", h.HandleGetSummary)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":4,"completed":1,"pending":3,"percentage":25}`, w.Body.String())
}

func TestHandleUpdateProgress(t *testing.T) {
	InitValidator()

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockMissionService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Success",
			body: `{"progress":2}`,
			setupMock: func(m *MockMissionService) {
				m.On("UpdateMissionProgress", mock.Anything, "u1", "m1", 2).
					Return(&domain.Mission{ID: "m1", Progress: 2, Target: 5, Status: domain.MissionInProgress}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"estado":"en_proceso"`,
		},
		{
			name: "Zero Progress Is Valid",
			body: `{"progress":0}`,
			setupMock: func(m *MockMissionService) {
				m.On("UpdateMissionProgress", mock.Anything, "u1", "m1", 0).
					Return(&domain.Mission{ID: "m1", Target: 5, Status: domain.MissionPending}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"progresoActual":0`,
		},
		{
			name:           "Missing Progress",
			body:           `{}`,
			setupMock:      func(m *MockMissionService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"progress":"This field is required"`,
		},
		{
			name:           "Negative Progress",
			body:           `{"progress":-1}`,
			setupMock:      func(m *MockMissionService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"progress":"Must be at least 0"`,
		},
		{
			name: "Unknown Mission",
			body: `{"progress":1}`,
			setupMock: func(m *MockMissionService) {
				m.On("UpdateMissionProgress", mock.Anything, "u1", "m1", 1).Return(nil, domain.ErrMissionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   ErrMsgMissionNotFoundError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			missions := &MockMissionService{}
			tt.setupMock(missions)
			h := NewMissionHandler(missions, &MockDailyService{})

			w := serveRoute(http.MethodPost, progressRoute, "/users/u1/missions/m1/progress", tt.body, h.HandleUpdateProgress)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			missions.AssertExpectations(t)
		})
	}
}

func TestHandleComplete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		missions := &MockMissionService{}
		missions.On("CompleteMission", mock.Anything, "u1", "m1").
			Return(&domain.Mission{ID: "m1", Progress: 5, Target: 5, XP: 30, Status: domain.MissionCompleted}, nil)
		h := NewMissionHandler(missions, &MockDailyService{})

		w := serveRoute(http.MethodPost, completeRoute, "/users/u1/missions/m1/complete", "", h.HandleComplete)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"estado":"completada"`)
	})

	t.Run("Completion Is Logged Once By The Service", func(t *testing.T) {
		prev := slog.Default()
		t.Cleanup(func() { slog.SetDefault(prev) })
		var buf bytes.Buffer
		slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

		missions := &MockMissionService{}
		missions.On("CompleteMission", mock.Anything, "u1", "m1").
			Return(&domain.Mission{ID: "m1", Progress: 5, Target: 5, XP: 30, Status: domain.MissionCompleted}, nil)
		h := NewMissionHandler(missions, &MockDailyService{})

		w := serveRoute(http.MethodPost, completeRoute, "/users/u1/missions/m1/complete", "", h.HandleComplete)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, buf.String(), "Mission completed")
	})

	t.Run("Already Completed", func(t *testing.T) {
		missions := &MockMissionService{}
		missions.On("CompleteMission", mock.Anything, "u1", "m1").Return(nil, domain.ErrMissionAlreadyCompleted)
		h := NewMissionHandler(missions, &MockDailyService{})

		w := serveRoute(http.MethodPost, completeRoute, "/users/u1/missions/m1/complete", "", h.HandleComplete)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgMissionCompletedError)
	})
}

func TestHandleSync(t *testing.T) {
	missions := &MockMissionService{}
	missions.On("SyncLocalWithRemote", mock.Anything, "u1").Return(nil)
	h := NewMissionHandler(missions, &MockDailyService{})

	w := serveRoute(http.MethodPost, "/users/{userID}/missions/sync", "/users/u1/missions/sync", "", h.HandleSync)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), MsgMissionsSynced)
	missions.AssertExpectations(t)
}

func TestHandleGetDailyProgress(t *testing.T) {
	daily := &MockDailyService{}
	daily.On("GetDailyStats", mock.Anything, "u1").Return(&domain.DailyStats{
		CurrentProgress:    3,
		TargetDaily:        5,
		DailyStreak:        2,
		ProgressPercentage: 60,
	}, nil)
	h := NewMissionHandler(&MockMissionService{}, daily)

	w := serveRoute(http.MethodGet, "/users/{userID}/daily-progress", "/users/u1/daily-progress", "", h.HandleGetDailyProgress)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"progressPercentage":60`)
	assert.Contains(t, w.Body.String(), `"isCompleted":false`)
}
