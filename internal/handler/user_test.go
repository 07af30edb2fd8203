package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/EcoQuest_Go/internal/domain"
	"github.com/osse101/EcoQuest_Go/internal/store"
	"github.com/osse101/EcoQuest_Go/internal/userstats"
)

func TestHandleEnsureProfile(t *testing.T) {
	InitValidator()

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockUserStatsService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Success - With Display Name",
			body: `{"displayName":"Ana"}`,
			setupMock: func(m *MockUserStatsService) {
				m.On("EnsureProfile", mock.Anything, "u1", "Ana").
					Return(&domain.UserStats{UserID: "u1", DisplayName: "Ana", Level: 1}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"displayName":"Ana"`,
		},
		{
			name: "Success - Empty Body",
			setupMock: func(m *MockUserStatsService) {
				m.On("EnsureProfile", mock.Anything, "u1", "").
					Return(&domain.UserStats{UserID: "u1", Level: 1}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"level":1`,
		},
		{
			name:           "Invalid JSON",
			body:           `{bad`,
			setupMock:      func(m *MockUserStatsService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequest,
		},
		{
			name:           "Display Name Too Long",
			body:           fmt.Sprintf(`{"displayName":"%065d"}`, 0),
			setupMock:      func(m *MockUserStatsService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"displayname"`,
		},
		{
			name: "Store Unavailable",
			setupMock: func(m *MockUserStatsService) {
				m.On("EnsureProfile", mock.Anything, "u1", "").Return(nil, fmt.Errorf("wrap: %w", store.ErrUnavailable))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   ErrMsgUnavailableError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockUserStatsService{}
			tt.setupMock(svc)
			h := NewUserHandler(svc)

			w := serveRoute(http.MethodPost, "/users/{userID}/profile", "/users/u1/profile", tt.body, h.HandleEnsureProfile)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandleGetStats(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		svc := &MockUserStatsService{}
		svc.On("GetUserStats", mock.Anything, "u1").Return(&domain.UserStats{UserID: "u1", Level: 3, XP: 420}, nil)

		w := serveRoute(http.MethodGet, "/users/{userID}/stats", "/users/u1/stats", "", NewUserHandler(svc).HandleGetStats)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"xp":420`)
	})

	t.Run("Not Found", func(t *testing.T) {
		svc := &MockUserStatsService{}
		svc.On("GetUserStats", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound)

		w := serveRoute(http.MethodGet, "/users/{userID}/stats", "/users/ghost/stats", "", NewUserHandler(svc).HandleGetStats)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgUserNotFoundError)
	})
}

func TestHandleCheckUnlocks(t *testing.T) {
	t.Run("Achievements Unlocked", func(t *testing.T) {
		svc := &MockUserStatsService{}
		svc.On("CheckAndAwardAchievements", mock.Anything, "u1").Return([]string{"first_steps"}, nil)

		w := serveRoute(http.MethodPost, "/users/{userID}/achievements/check", "/users/u1/achievements/check", "", NewUserHandler(svc).HandleCheckAchievements)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"unlocked":["first_steps"]}`, w.Body.String())
	})

	t.Run("Nothing Unlocked Encodes Empty List", func(t *testing.T) {
		svc := &MockUserStatsService{}
		svc.On("CheckAndAwardBadges", mock.Anything, "u1").Return(nil, nil)

		w := serveRoute(http.MethodPost, "/users/{userID}/badges/check", "/users/u1/badges/check", "", NewUserHandler(svc).HandleCheckBadges)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"unlocked":[]}`, w.Body.String())
	})

	t.Run("Badge Check Fails", func(t *testing.T) {
		svc := &MockUserStatsService{}
		svc.On("CheckAndAwardBadges", mock.Anything, "u1").Return(nil, assert.AnError)

		w := serveRoute(http.MethodPost, "/users/{userID}/badges/check", "/users/u1/badges/check", "", NewUserHandler(svc).HandleCheckBadges)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	})
}

func TestHandleGetCatalog(t *testing.T) {
	svc := &MockUserStatsService{}
	svc.On("Catalog").Return(&userstats.Catalog{
		Titles: []domain.Title{{Level: 1, Title: "Novato"}},
	})

	w := serveRoute(http.MethodGet, "/catalog", "/catalog", "", NewUserHandler(svc).HandleGetCatalog)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"titles":[{"level":1,"title":"Novato"`)
}
