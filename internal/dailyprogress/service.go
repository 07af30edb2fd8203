package dailyprogress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/EcoQuest_Go/internal/clock"
	"github.com/osse101/EcoQuest_Go/internal/domain"
	"github.com/osse101/EcoQuest_Go/internal/event"
	"github.com/osse101/EcoQuest_Go/internal/logger"
	"github.com/osse101/EcoQuest_Go/internal/store"
)

// ExperienceGranter credits the daily goal reward
type ExperienceGranter interface {
	AddExperience(ctx context.Context, userID string, amount int) (*domain.LevelResult, error)
}

// Service tracks items recycled per calendar day and the goal streak
type Service interface {
	GetDailyProgress(ctx context.Context, userID string) (*domain.DailyProgress, error)
	ValidateAndResetDailyProgress(ctx context.Context, userID string) (*domain.DailyProgress, error)
	AddRecycling(ctx context.Context, userID string) (*domain.DailyProgress, error)
	GetDailyStats(ctx context.Context, userID string) (*domain.DailyStats, error)
	CurrentStreak(ctx context.Context, userID string) (int, error)
}

// Config holds the daily goal rules
type Config struct {
	TargetDaily int
	XPReward    int
	Location    *time.Location
}

type service struct {
	progress *store.Tiered[string]
	granter  ExperienceGranter
	bus      event.Bus
	clock    clock.Clock
	cfg      Config
}

// NewService creates the daily progress service
func NewService(remote store.Remote, local store.Local, granter ExperienceGranter, bus event.Bus, clk clock.Clock, cfg Config) Service {
	if cfg.TargetDaily <= 0 {
		cfg.TargetDaily = DefaultTargetDaily
	}
	if cfg.XPReward <= 0 {
		cfg.XPReward = DefaultXPReward
	}
	mirror := store.NewKeyMirror[string](local, LocalKeyPrefix, func(userID string) string { return userID })
	return &service{
		progress: store.NewTiered[string](remote, mirror, store.DailyProgressDoc),
		granter:  granter,
		bus:      bus,
		clock:    clk,
		cfg:      cfg,
	}
}

func (s *service) initial(now time.Time) domain.DailyProgress {
	return domain.DailyProgress{
		LastRecycleDate: now,
		TargetDaily:     s.cfg.TargetDaily,
	}
}

// rollover starts a new day when the stored record belongs to an earlier one.
// The streak survives only if yesterday's goal was met.
func (s *service) rollover(p domain.DailyProgress, now time.Time) (domain.DailyProgress, bool) {
	today := domain.DateOf(now, s.cfg.Location)
	last := domain.DateOf(p.LastRecycleDate, s.cfg.Location)
	if last == today {
		return p, false
	}
	if !(last == today.AddDays(-1) && p.GoalReached()) {
		p.DailyStreak = 0
	}
	p.CurrentProgress = 0
	p.LastRecycleDate = now
	if p.TargetDaily <= 0 {
		p.TargetDaily = s.cfg.TargetDaily
	}
	return p, true
}

func decode(doc store.Document) (domain.DailyProgress, error) {
	var p domain.DailyProgress
	if err := doc.Decode(&p); err != nil {
		return p, fmt.Errorf("%s: %w", ErrMsgDecodeProgressFailed, err)
	}
	return p, nil
}

// GetDailyProgress returns the stored record, creating it when absent
func (s *service) GetDailyProgress(ctx context.Context, userID string) (*domain.DailyProgress, error) {
	doc, _, err := s.progress.Get(ctx, userID)
	if err == nil {
		p, derr := decode(doc)
		if derr != nil {
			return nil, derr
		}
		return &p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetProgressFailed, err)
	}

	p := s.initial(s.clock.Now())
	encoded, err := store.Encode(p)
	if err != nil {
		return nil, err
	}
	if _, err := s.progress.Set(ctx, userID, encoded); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetProgressFailed, err)
	}
	return &p, nil
}

// ValidateAndResetDailyProgress applies the day rollover and persists it
func (s *service) ValidateAndResetDailyProgress(ctx context.Context, userID string) (*domain.DailyProgress, error) {
	now := s.clock.Now()

	var (
		result domain.DailyProgress
		rolled bool
	)
	_, _, err := s.progress.Transact(ctx, userID, func(current store.Document) (store.Document, error) {
		if current == nil {
			result = s.initial(now)
			rolled = false
			return store.Encode(result)
		}
		p, err := decode(current)
		if err != nil {
			return nil, err
		}
		result, rolled = s.rollover(p, now)
		if !rolled {
			return nil, nil
		}
		return store.Encode(result)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgResetProgressFailed, err)
	}
	if rolled {
		logger.FromContext(ctx).Debug(LogMsgProgressRolledOver, "user_id", userID, "streak", result.DailyStreak)
	}
	return &result, nil
}

// AddRecycling counts one recycled item toward today's goal
func (s *service) AddRecycling(ctx context.Context, userID string) (*domain.DailyProgress, error) {
	now := s.clock.Now()

	var (
		result  domain.DailyProgress
		goalHit bool
	)
	_, _, err := s.progress.Transact(ctx, userID, func(current store.Document) (store.Document, error) {
		p := s.initial(now)
		if current != nil {
			decoded, err := decode(current)
			if err != nil {
				return nil, err
			}
			p, _ = s.rollover(decoded, now)
		}

		p.CurrentProgress++
		p.TotalRecycled++
		p.LastRecycleDate = now

		goalHit = p.CurrentProgress == p.TargetDaily
		if goalHit {
			p.DailyStreak++
			p.BestStreak = max(p.BestStreak, p.DailyStreak)
		}
		result = p
		return store.Encode(p)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgAddRecyclingFailed, err)
	}

	if goalHit {
		if err := s.onGoalCompleted(ctx, userID, result); err != nil {
			return &result, err
		}
	}
	return &result, nil
}

func (s *service) onGoalCompleted(ctx context.Context, userID string, p domain.DailyProgress) error {
	logger.FromContext(ctx).Info(LogMsgDailyGoalCompleted, "user_id", userID, "streak", p.DailyStreak)

	event.Emit(ctx, s.bus, event.DailyGoalCompletedPayload{
		UserID: userID,
		Streak: p.DailyStreak,
		XP:     s.cfg.XPReward,
	})

	if s.granter == nil {
		return nil
	}
	if _, err := s.granter.AddExperience(ctx, userID, s.cfg.XPReward); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgGrantGoalXPFailed, err)
	}
	return nil
}

// GetDailyStats returns today's view of the progress record
func (s *service) GetDailyStats(ctx context.Context, userID string) (*domain.DailyStats, error) {
	p, err := s.ValidateAndResetDailyProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := p.Stats()
	return &stats, nil
}

// CurrentStreak returns the streak as it stands today without persisting a rollover
func (s *service) CurrentStreak(ctx context.Context, userID string) (int, error) {
	doc, _, err := s.progress.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgGetProgressFailed, err)
	}
	p, err := decode(doc)
	if err != nil {
		return 0, err
	}
	p, _ = s.rollover(p, s.clock.Now())
	return p.DailyStreak, nil
}
