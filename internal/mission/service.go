package mission

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

// StatsService credits mission rewards to the user's profile
type StatsService interface {
	OnMissionCompleted(ctx context.Context, userID string, mission domain.Mission) error
}

// Service manages each user's daily missions
type Service interface {
	GetTodayMissions(ctx context.Context, userID string) (*domain.DailyMissionSet, error)
	UpdateMissionProgress(ctx context.Context, userID, missionID string, progress int) (*domain.Mission, error)
	CompleteMission(ctx context.Context, userID, missionID string) (*domain.Mission, error)
	ApplyRecycling(ctx context.Context, userID, material string) ([]domain.Mission, error)
	GetMissionsSummary(ctx context.Context, userID string) (*domain.MissionsSummary, error)

	// Local cache maintenance
	SyncLocalWithRemote(ctx context.Context, userID string) error
	CleanOldLocalData(ctx context.Context) (int, error)
}

// Config holds the mission rules
type Config struct {
	Count         int
	RetentionDays int
	Location      *time.Location
}

type service struct {
	remote    store.Remote
	mirror    *localMirror
	sets      *store.Tiered[dayKey]
	generator *Generator
	stats     StatsService
	bus       event.Bus
	clock     clock.Clock
	cfg       Config
}

// NewService creates the daily missions service
func NewService(remote store.Remote, local store.Local, generator *Generator, stats StatsService, bus event.Bus, clk clock.Clock, cfg Config) Service {
	if cfg.Count <= 0 {
		cfg.Count = DefaultMissionCount
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = DefaultRetentionDays
	}
	if generator == nil {
		generator = NewGenerator(nil, nil)
	}
	mirror := newLocalMirror(local)
	return &service{
		remote:    remote,
		mirror:    mirror,
		sets:      store.NewTiered[dayKey](remote, mirror, missionsPath),
		generator: generator,
		stats:     stats,
		bus:       bus,
		clock:     clk,
		cfg:       cfg,
	}
}

func (s *service) today(userID string) dayKey {
	return dayKey{UserID: userID, Date: clock.Today(s.clock, s.cfg.Location)}
}

func (s *service) newSet(date domain.Date) *domain.DailyMissionSet {
	now := s.clock.Now()
	set := &domain.DailyMissionSet{
		Date:        date,
		Missions:    s.generator.Generate(s.cfg.Count, now),
		GeneratedAt: now,
		LastUpdated: now,
	}
	set.Recount()
	return set
}

// GetTodayMissions returns today's missions, generating them on first access.
// It never fails on storage errors: when both stores are unusable it returns an
// unsaved batch.
func (s *service) GetTodayMissions(ctx context.Context, userID string) (*domain.DailyMissionSet, error) {
	log := logger.FromContext(ctx)
	key := s.today(userID)

	doc, source, err := s.sets.Get(ctx, key)
	if err == nil {
		set, derr := decodeSet(doc)
		if derr == nil {
			return set, nil
		}
		log.Warn(LogMsgCorruptLocalRecord, "user_id", userID, "source", source, "error", derr)
		err = store.ErrNotFound
	}

	set := s.newSet(key.Date)
	encoded, encErr := store.Encode(set)
	if encErr != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadMissionsFailed, encErr)
	}

	switch {
	case errors.Is(err, store.ErrNotFound) && source == store.SourceRemote:
		if _, serr := s.sets.Set(ctx, key, encoded); serr != nil {
			log.Warn(LogMsgEphemeralMissions, "user_id", userID, "error", serr)
			return set, nil
		}
	case errors.Is(err, store.ErrNotFound):
		// Remote unreachable and nothing cached for today
		if serr := s.sets.SaveLocal(ctx, key, encoded); serr != nil {
			log.Warn(LogMsgEphemeralMissions, "user_id", userID, "error", serr)
			return set, nil
		}
	default:
		log.Warn(LogMsgEphemeralMissions, "user_id", userID, "error", err)
		return set, nil
	}

	log.Info(LogMsgMissionsGenerated, "user_id", userID, "date", key.Date.String(), "count", len(set.Missions))
	return set, nil
}

// UpdateMissionProgress sets a mission's progress. Reaching the target completes it.
func (s *service) UpdateMissionProgress(ctx context.Context, userID, missionID string, progress int) (*domain.Mission, error) {
	key := s.today(userID)
	now := s.clock.Now()

	var (
		updated       domain.Mission
		reachesTarget bool
	)
	_, _, err := s.sets.Transact(ctx, key, func(current store.Document) (store.Document, error) {
		reachesTarget = false
		set, idx, err := findMission(current, missionID)
		if err != nil {
			return nil, err
		}
		m := set.Missions[idx]
		if m.IsCompleted() {
			updated = m
			return nil, nil
		}
		if progress >= m.Target {
			reachesTarget = true
			return nil, nil
		}
		updated = m.WithProgress(progress)
		set.Missions[idx] = updated
		set.LastUpdated = now
		set.Recount()
		return store.Encode(set)
	})
	if err != nil {
		return nil, wrap(ErrMsgUpdateProgressFailed, err)
	}

	if reachesTarget {
		m, err := s.CompleteMission(ctx, userID, missionID)
		if errors.Is(err, domain.ErrMissionAlreadyCompleted) {
			return m, nil
		}
		return m, err
	}
	return &updated, nil
}

// CompleteMission marks a mission completed and credits its reward exactly once
func (s *service) CompleteMission(ctx context.Context, userID, missionID string) (*domain.Mission, error) {
	key := s.today(userID)
	now := s.clock.Now()

	var previous, completed domain.Mission
	_, _, err := s.sets.Transact(ctx, key, func(current store.Document) (store.Document, error) {
		set, idx, err := findMission(current, missionID)
		if err != nil {
			return nil, err
		}
		m := set.Missions[idx]
		if m.IsCompleted() {
			completed = m
			return nil, domain.ErrMissionAlreadyCompleted
		}
		previous = m
		completed = m.WithProgress(m.Target)
		set.Missions[idx] = completed
		set.LastUpdated = now
		set.Recount()
		return store.Encode(set)
	})
	if errors.Is(err, domain.ErrMissionAlreadyCompleted) {
		return &completed, err
	}
	if err != nil {
		return nil, wrap(ErrMsgCompleteFailed, err)
	}

	if err := s.credit(ctx, userID, completed); err != nil {
		s.reopen(ctx, key, previous)
		return &previous, err
	}
	return &completed, nil
}

// ApplyRecycling advances every open mission matching material by one unit and
// returns the missions this completed
func (s *service) ApplyRecycling(ctx context.Context, userID, material string) ([]domain.Mission, error) {
	// Make sure today's set exists before advancing it
	if _, err := s.GetTodayMissions(ctx, userID); err != nil {
		return nil, wrap(ErrMsgApplyRecyclingFailed, err)
	}

	key := s.today(userID)
	now := s.clock.Now()

	var (
		completed []domain.Mission
		previous  = make(map[string]domain.Mission)
	)
	_, _, err := s.sets.Transact(ctx, key, func(current store.Document) (store.Document, error) {
		completed = nil
		clear(previous)
		if current == nil {
			return nil, nil
		}
		set, err := decodeSet(current)
		if err != nil {
			return nil, err
		}
		changed := false
		for i, m := range set.Missions {
			if m.IsCompleted() || !m.Matches(material) {
				continue
			}
			next := m.WithProgress(m.Progress + 1)
			set.Missions[i] = next
			changed = true
			if next.IsCompleted() {
				completed = append(completed, next)
				previous[m.ID] = m
			}
		}
		if !changed {
			return nil, nil
		}
		set.LastUpdated = now
		set.Recount()
		return store.Encode(set)
	})
	if err != nil {
		return nil, wrap(ErrMsgApplyRecyclingFailed, err)
	}

	var (
		credited   []domain.Mission
		creditErrs []error
	)
	for _, m := range completed {
		if err := s.credit(ctx, userID, m); err != nil {
			s.reopen(ctx, key, previous[m.ID])
			creditErrs = append(creditErrs, err)
			continue
		}
		credited = append(credited, m)
	}
	return credited, errors.Join(creditErrs...)
}

// credit grants the mission reward, then announces the completion
func (s *service) credit(ctx context.Context, userID string, m domain.Mission) error {
	if s.stats != nil {
		if err := s.stats.OnMissionCompleted(ctx, userID, m); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgStatsUpdateFailed, err)
		}
	}

	logger.FromContext(ctx).Info(LogMsgMissionCompleted, "user_id", userID, "mission_id", m.ID, "xp", m.XP)
	event.Emit(ctx, s.bus, event.MissionCompletedPayload{
		UserID:    userID,
		MissionID: m.ID,
		Title:     m.Title(),
		XP:        m.XP,
	})
	return nil
}

// reopen puts back a mission whose reward could not be credited, so a later
// completion can credit it again
func (s *service) reopen(ctx context.Context, key dayKey, previous domain.Mission) {
	_, _, err := s.sets.Transact(ctx, key, func(current store.Document) (store.Document, error) {
		set, idx, err := findMission(current, previous.ID)
		if err != nil {
			return nil, err
		}
		if !set.Missions[idx].IsCompleted() {
			return nil, nil
		}
		set.Missions[idx] = previous
		set.LastUpdated = s.clock.Now()
		set.Recount()
		return store.Encode(set)
	})
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgCompletionNotReopened, "mission_id", previous.ID, "error", err)
	}
}

// GetMissionsSummary aggregates today's missions
func (s *service) GetMissionsSummary(ctx context.Context, userID string) (*domain.MissionsSummary, error) {
	set, err := s.GetTodayMissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := set.Summary()
	return &summary, nil
}

// SyncLocalWithRemote pushes today's locally cached set to the remote store
func (s *service) SyncLocalWithRemote(ctx context.Context, userID string) error {
	key := s.today(userID)

	doc, err := s.mirror.Load(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgSyncFailed, err)
	}
	if err := s.remote.SetDocument(ctx, missionsPath(key), doc, false); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgSyncFailed, err)
	}
	logger.FromContext(ctx).Info(LogMsgMissionsSynced, "user_id", userID, "date", key.Date.String())
	return nil
}

// CleanOldLocalData removes cached sets older than the retention window
func (s *service) CleanOldLocalData(ctx context.Context) (int, error) {
	cutoff := clock.Today(s.clock, s.cfg.Location).AddDays(-s.cfg.RetentionDays)
	removed, err := s.mirror.prune(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgCleanupFailed, err)
	}
	if removed > 0 {
		logger.FromContext(ctx).Info(LogMsgLocalMissionsPruned, "removed", removed, "cutoff", cutoff.String())
	}
	return removed, nil
}

func decodeSet(doc store.Document) (*domain.DailyMissionSet, error) {
	var set domain.DailyMissionSet
	if err := doc.Decode(&set); err != nil {
		return nil, err
	}
	return &set, nil
}

// findMission decodes the set and locates missionID within it
func findMission(doc store.Document, missionID string) (*domain.DailyMissionSet, int, error) {
	if doc == nil {
		return nil, -1, fmt.Errorf("%w: %s", domain.ErrMissionNotFound, missionID)
	}
	set, err := decodeSet(doc)
	if err != nil {
		return nil, -1, err
	}
	idx := set.Find(missionID)
	if idx < 0 {
		return nil, -1, fmt.Errorf("%w: %s", domain.ErrMissionNotFound, missionID)
	}
	return set, idx, nil
}

// wrap adds context without hiding domain sentinels from errors.Is
func wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
