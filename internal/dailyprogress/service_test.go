package dailyprogress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/EcoQuest_Go/internal/clock"
	"github.com/osse101/EcoQuest_Go/internal/domain"
	"github.com/osse101/EcoQuest_Go/internal/event"
	"github.com/osse101/EcoQuest_Go/internal/store"
)

// MockGranter - using testify/mock
type MockGranter struct {
	mock.Mock
}

func (m *MockGranter) AddExperience(ctx context.Context, userID string, amount int) (*domain.LevelResult, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LevelResult), args.Error(1)
}

func setup(t *testing.T) (Service, *store.MemoryRemote, *clock.SimulatedClock, *MockGranter, *event.MemoryBus) {
	t.Helper()
	remote := store.NewMemoryRemote()
	clk := clock.NewSimulatedClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	granter := new(MockGranter)
	bus := event.NewMemoryBus()
	svc := NewService(remote, store.NewMemoryLocal(), granter, bus, clk, Config{})
	return svc, remote, clk, granter, bus
}

func recycle(t *testing.T, svc Service, userID string, n int) *domain.DailyProgress {
	t.Helper()
	var p *domain.DailyProgress
	var err error
	for i := 0; i < n; i++ {
		p, err = svc.AddRecycling(context.Background(), userID)
		require.NoError(t, err)
	}
	return p
}

func TestGetDailyProgress_CreatesInitial(t *testing.T) {
	svc, remote, clk, _, _ := setup(t)
	ctx := context.Background()

	p, err := svc.GetDailyProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, DefaultTargetDaily, p.TargetDaily)
	assert.Zero(t, p.CurrentProgress)
	assert.True(t, p.LastRecycleDate.Equal(clk.Now()))

	_, err = remote.GetDocument(ctx, store.DailyProgressDoc("u1"))
	assert.NoError(t, err, "Initial progress is persisted")
}

func TestAddRecycling_GoalGrantsRewardOncePerDay(t *testing.T) {
	svc, _, _, granter, bus := setup(t)

	var goals []event.DailyGoalCompletedPayload
	event.On(bus, func(_ context.Context, p event.DailyGoalCompletedPayload) error {
		goals = append(goals, p)
		return nil
	})
	granter.On("AddExperience", mock.Anything, "u1", DefaultXPReward).
		Return(&domain.LevelResult{NewLevel: 1, TotalXP: 30}, nil).Once()

	p := recycle(t, svc, "u1", 2)
	assert.Equal(t, 2, p.CurrentProgress)
	assert.Zero(t, p.DailyStreak)

	p = recycle(t, svc, "u1", 1)
	assert.Equal(t, 3, p.CurrentProgress)
	assert.Equal(t, 1, p.DailyStreak)
	assert.Equal(t, 1, p.BestStreak)

	// Going past the target the same day does not reward again
	p = recycle(t, svc, "u1", 2)
	assert.Equal(t, 5, p.CurrentProgress)
	assert.Equal(t, 5, p.TotalRecycled)
	assert.Equal(t, 1, p.DailyStreak)

	granter.AssertExpectations(t)
	require.Len(t, goals, 1)
	assert.Equal(t, 1, goals[0].Streak)
	assert.Equal(t, DefaultXPReward, goals[0].XP)
}

func TestStreak_ContinuesAfterCompletedYesterday(t *testing.T) {
	svc, _, clk, granter, _ := setup(t)
	ctx := context.Background()
	granter.On("AddExperience", mock.Anything, "u1", DefaultXPReward).Return(&domain.LevelResult{}, nil)

	recycle(t, svc, "u1", 3)

	clk.AdvanceDays(1)
	p, err := svc.ValidateAndResetDailyProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, p.CurrentProgress, "New day starts from zero")
	assert.Equal(t, 1, p.DailyStreak, "Yesterday's goal keeps the streak")

	p = recycle(t, svc, "u1", 3)
	assert.Equal(t, 2, p.DailyStreak)
	assert.Equal(t, 2, p.BestStreak)
	assert.Equal(t, 6, p.TotalRecycled)
}

func TestStreak_ResetsAfterMissedDay(t *testing.T) {
	svc, _, clk, granter, _ := setup(t)
	ctx := context.Background()
	granter.On("AddExperience", mock.Anything, "u1", DefaultXPReward).Return(&domain.LevelResult{}, nil)

	recycle(t, svc, "u1", 3)
	clk.AdvanceDays(1)
	recycle(t, svc, "u1", 3)

	// Skip a whole day
	clk.AdvanceDays(2)
	streak, err := svc.CurrentStreak(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, streak)

	p, err := svc.ValidateAndResetDailyProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, p.DailyStreak)
	assert.Equal(t, 2, p.BestStreak, "Best streak is kept")
}

func TestStreak_ResetsWhenYesterdayIncomplete(t *testing.T) {
	svc, _, clk, granter, _ := setup(t)
	granter.On("AddExperience", mock.Anything, "u1", DefaultXPReward).Return(&domain.LevelResult{}, nil)

	recycle(t, svc, "u1", 3)
	clk.AdvanceDays(1)
	recycle(t, svc, "u1", 2)
	clk.AdvanceDays(1)

	p := recycle(t, svc, "u1", 1)
	assert.Zero(t, p.DailyStreak)
	assert.Equal(t, 1, p.CurrentProgress)
}

func TestBestStreak_NeverDecreases(t *testing.T) {
	svc, _, clk, granter, _ := setup(t)
	granter.On("AddExperience", mock.Anything, "u1", DefaultXPReward).Return(&domain.LevelResult{}, nil)

	for day := 0; day < 3; day++ {
		recycle(t, svc, "u1", 3)
		clk.AdvanceDays(1)
	}
	clk.AdvanceDays(1)
	p := recycle(t, svc, "u1", 3)
	assert.Equal(t, 1, p.DailyStreak)
	assert.Equal(t, 3, p.BestStreak)
}

func TestCurrentStreak(t *testing.T) {
	svc, _, clk, granter, _ := setup(t)
	ctx := context.Background()
	granter.On("AddExperience", mock.Anything, "u1", DefaultXPReward).Return(&domain.LevelResult{}, nil)

	streak, err := svc.CurrentStreak(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, streak)

	recycle(t, svc, "u1", 3)
	streak, err = svc.CurrentStreak(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, streak)

	clk.AdvanceDays(1)
	streak, err = svc.CurrentStreak(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, streak, "Still alive the day after")
}

func TestGetDailyStats(t *testing.T) {
	svc, _, _, _, _ := setup(t)

	recycle(t, svc, "u1", 2)
	stats, err := svc.GetDailyStats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CurrentProgress)
	assert.False(t, stats.IsCompleted)
	assert.InDelta(t, 66.66, stats.ProgressPercentage, 0.01)
}

func TestAddRecycling_RemoteDownStillCounts(t *testing.T) {
	svc, remote, _, _, _ := setup(t)
	ctx := context.Background()

	recycle(t, svc, "u1", 1)
	remote.SetFailing(true)
	p := recycle(t, svc, "u1", 1)
	assert.Equal(t, 2, p.CurrentProgress)

	remote.SetFailing(false)
	doc, err := remote.GetDocument(ctx, store.DailyProgressDoc("u1"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, doc.Int("currentProgress"), "Remote keeps the pre-outage value")
}
