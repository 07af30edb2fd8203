package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/EcoQuest_Go/internal/domain"
	"github.com/osse101/EcoQuest_Go/internal/recycling"
	"github.com/osse101/EcoQuest_Go/internal/userstats"
)

// MockUserStatsService mocks userstats.Service
type MockUserStatsService struct {
	mock.Mock
}

func (m *MockUserStatsService) EnsureProfile(ctx context.Context, userID, displayName string) (*domain.UserStats, error) {
	args := m.Called(ctx, userID, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserStats), args.Error(1)
}

func (m *MockUserStatsService) GetUserStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserStats), args.Error(1)
}

func (m *MockUserStatsService) AddExperience(ctx context.Context, userID string, amount int) (*domain.LevelResult, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LevelResult), args.Error(1)
}

func (m *MockUserStatsService) OnMissionCompleted(ctx context.Context, userID string, mission domain.Mission) error {
	return m.Called(ctx, userID, mission).Error(0)
}

func (m *MockUserStatsService) IncrementRecycled(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserStatsService) CheckAndAwardAchievements(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserStatsService) CheckAndAwardBadges(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserStatsService) AwardTitleForLevel(ctx context.Context, userID string, level int) error {
	return m.Called(ctx, userID, level).Error(0)
}

func (m *MockUserStatsService) Catalog() *userstats.Catalog {
	args := m.Called()
	return args.Get(0).(*userstats.Catalog)
}

// MockMissionService mocks mission.Service
type MockMissionService struct {
	mock.Mock
}

func (m *MockMissionService) GetTodayMissions(ctx context.Context, userID string) (*domain.DailyMissionSet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyMissionSet), args.Error(1)
}

func (m *MockMissionService) UpdateMissionProgress(ctx context.Context, userID, missionID string, progress int) (*domain.Mission, error) {
	args := m.Called(ctx, userID, missionID, progress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Mission), args.Error(1)
}

func (m *MockMissionService) CompleteMission(ctx context.Context, userID, missionID string) (*domain.Mission, error) {
	args := m.Called(ctx, userID, missionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Mission), args.Error(1)
}

func (m *MockMissionService) ApplyRecycling(ctx context.Context, userID, material string) ([]domain.Mission, error) {
	args := m.Called(ctx, userID, material)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Mission), args.Error(1)
}

func (m *MockMissionService) GetMissionsSummary(ctx context.Context, userID string) (*domain.MissionsSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MissionsSummary), args.Error(1)
}

func (m *MockMissionService) SyncLocalWithRemote(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockMissionService) CleanOldLocalData(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockDailyService mocks dailyprogress.Service
type MockDailyService struct {
	mock.Mock
}

func (m *MockDailyService) GetDailyProgress(ctx context.Context, userID string) (*domain.DailyProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyProgress), args.Error(1)
}

func (m *MockDailyService) ValidateAndResetDailyProgress(ctx context.Context, userID string) (*domain.DailyProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyProgress), args.Error(1)
}

func (m *MockDailyService) AddRecycling(ctx context.Context, userID string) (*domain.DailyProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyProgress), args.Error(1)
}

func (m *MockDailyService) GetDailyStats(ctx context.Context, userID string) (*domain.DailyStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyStats), args.Error(1)
}

func (m *MockDailyService) CurrentStreak(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// MockRecyclingService mocks recycling.Service
type MockRecyclingService struct {
	mock.Mock
}

func (m *MockRecyclingService) RecordRecycling(ctx context.Context, userID string, in recycling.RecordInput) (*recycling.RecordResult, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recycling.RecordResult), args.Error(1)
}

func (m *MockRecyclingService) GetStats(ctx context.Context, userID string) (*domain.RecyclingStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecyclingStats), args.Error(1)
}

func (m *MockRecyclingService) GetRecent(ctx context.Context, userID string, limit int) ([]domain.RecycleRecord, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecycleRecord), args.Error(1)
}

func (m *MockRecyclingService) InvalidateCache(ctx context.Context, userID string) {
	m.Called(ctx, userID)
}

func (m *MockRecyclingService) ClearCache(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockRecyclingService) PurgeExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// serveRoute mounts h at pattern on a fresh chi router so URL params resolve
func serveRoute(method, pattern, target string, body string, h http.HandlerFunc) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
