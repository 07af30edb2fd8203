package recycling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/EcoQuest_Go/internal/clock"
	"github.com/osse101/EcoQuest_Go/internal/domain"
	"github.com/osse101/EcoQuest_Go/internal/event"
	"github.com/osse101/EcoQuest_Go/internal/logger"
	"github.com/osse101/EcoQuest_Go/internal/metrics"
	"github.com/osse101/EcoQuest_Go/internal/store"
)

// MissionService advances today's missions
type MissionService interface {
	ApplyRecycling(ctx context.Context, userID, material string) ([]domain.Mission, error)
}

// ProgressService counts items toward the daily goal
type ProgressService interface {
	AddRecycling(ctx context.Context, userID string) (*domain.DailyProgress, error)
}

// StatsService owns the user's profile and unlockables
type StatsService interface {
	EnsureProfile(ctx context.Context, userID, displayName string) (*domain.UserStats, error)
	IncrementRecycled(ctx context.Context, userID string) error
	CheckAndAwardBadges(ctx context.Context, userID string) ([]string, error)
	CheckAndAwardAchievements(ctx context.Context, userID string) ([]string, error)
}

// RecordInput describes one recycled item
type RecordInput struct {
	Material   string `json:"material" validate:"required,max=32"`
	Item       string `json:"item,omitempty" validate:"max=64"`
	Confidence string `json:"confidence,omitempty" validate:"omitempty,oneof=alta media baja"`
}

// RecordResult aggregates everything a single recycled item changed
type RecordResult struct {
	Record            domain.RecycleRecord `json:"record"`
	CompletedMissions []domain.Mission     `json:"completedMissions"`
	Daily             *domain.DailyStats   `json:"daily,omitempty"`
	NewBadges         []string             `json:"newBadges"`
	NewAchievements   []string             `json:"newAchievements"`
}

// Service records recycled items and serves cached history views
type Service interface {
	RecordRecycling(ctx context.Context, userID string, in RecordInput) (*RecordResult, error)
	GetStats(ctx context.Context, userID string) (*domain.RecyclingStats, error)
	GetRecent(ctx context.Context, userID string, limit int) ([]domain.RecycleRecord, error)

	InvalidateCache(ctx context.Context, userID string)
	ClearCache(ctx context.Context) error
	PurgeExpired(ctx context.Context) (int, error)
}

// Config holds cache lifetimes and the day boundary location
type Config struct {
	StatsTTL  time.Duration
	RecentTTL time.Duration
	Location  *time.Location
}

type service struct {
	remote   store.Remote
	missions MissionService
	progress ProgressService
	stats    StatsService
	bus      event.Bus
	clock    clock.Clock
	cfg      Config

	statsCache  *ttlCache[domain.RecyclingStats]
	recentCache *ttlCache[[]domain.RecycleRecord]
	newID       func() string
}

// NewService creates the recycling recorder
func NewService(remote store.Remote, local store.Local, missions MissionService, progress ProgressService, stats StatsService, bus event.Bus, clk clock.Clock, cfg Config) Service {
	if cfg.StatsTTL <= 0 {
		cfg.StatsTTL = DefaultStatsTTL
	}
	if cfg.RecentTTL <= 0 {
		cfg.RecentTTL = DefaultRecentTTL
	}
	return &service{
		remote:      remote,
		missions:    missions,
		progress:    progress,
		stats:       stats,
		bus:         bus,
		clock:       clk,
		cfg:         cfg,
		statsCache:  newTTLCache[domain.RecyclingStats](StatsKeyPrefix, cfg.StatsTTL, local, clk),
		recentCache: newTTLCache[[]domain.RecycleRecord](RecentKeyPrefix, cfg.RecentTTL, local, clk),
		newID:       uuid.NewString,
	}
}

// RecordRecycling stores one recycled item and feeds it through missions, the
// daily goal and unlockables. Failures after the item is stored are logged and
// leave the corresponding result fields empty.
func (s *service) RecordRecycling(ctx context.Context, userID string, in RecordInput) (*RecordResult, error) {
	material := NormalizeMaterial(in.Material)
	if !domain.IsMaterial(material) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMaterial, in.Material)
	}
	log := logger.FromContext(ctx)

	if _, err := s.stats.EnsureProfile(ctx, userID, ""); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgEnsureProfile, err)
	}

	rec := domain.RecycleRecord{
		ID:         s.newID(),
		UserID:     userID,
		Material:   material,
		Item:       in.Item,
		Confidence: NormalizeMaterial(in.Confidence),
		CreatedAt:  s.clock.Now(),
	}
	doc, err := store.Encode(rec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRecordFailed, err)
	}
	if err := s.remote.SetDocument(ctx, store.Join(store.RecycleHistory(userID), rec.ID), doc, false); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgWriteHistory, err)
	}
	if err := s.remote.IncrementField(ctx, store.RecycleProgressDoc(userID), material, 1); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgIncrementCounters, err)
	}
	if err := s.stats.IncrementRecycled(ctx, userID); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgIncrementCounters, err)
	}

	result := &RecordResult{
		Record:            rec,
		CompletedMissions: []domain.Mission{},
		NewBadges:         []string{},
		NewAchievements:   []string{},
	}

	completed, err := s.missions.ApplyRecycling(ctx, userID, material)
	if err != nil {
		log.Warn(LogMsgMissionsNotApplied, "user_id", userID, "error", err)
	}
	if completed != nil {
		result.CompletedMissions = completed
	}

	if p, err := s.progress.AddRecycling(ctx, userID); err != nil {
		log.Warn(LogMsgDailyNotUpdated, "user_id", userID, "error", err)
	} else {
		daily := p.Stats()
		result.Daily = &daily
	}

	if ids, err := s.stats.CheckAndAwardBadges(ctx, userID); err != nil {
		log.Warn(LogMsgBadgeCheckFailed, "user_id", userID, "error", err)
	} else if ids != nil {
		result.NewBadges = ids
	}
	if ids, err := s.stats.CheckAndAwardAchievements(ctx, userID); err != nil {
		log.Warn(LogMsgAchievementsFailed, "user_id", userID, "error", err)
	} else if ids != nil {
		result.NewAchievements = ids
	}

	s.InvalidateCache(ctx, userID)
	event.Emit(ctx, s.bus, event.RecyclingRecordedPayload{UserID: userID, Material: material, Item: rec.Item})

	log.Info(LogMsgRecyclingRecorded, "user_id", userID, "material", material,
		"missions_completed", len(result.CompletedMissions))
	return result, nil
}

// GetStats summarises the user's history. A stale cached summary is served
// when the remote store cannot be read.
func (s *service) GetStats(ctx context.Context, userID string) (*domain.RecyclingStats, error) {
	cached, fresh, ok := s.statsCache.Get(ctx, userID)
	if fresh {
		recordLookup(metrics.ResultHit)
		return &cached, nil
	}

	records, err := s.loadHistory(ctx, userID)
	if err != nil {
		if ok {
			recordLookup(metrics.ResultStale)
			logger.FromContext(ctx).Warn(LogMsgServingStaleCache, "user_id", userID, "error", err)
			return &cached, nil
		}
		return nil, err
	}
	recordLookup(metrics.ResultMiss)

	stats := s.summarise(records)
	s.statsCache.Put(ctx, userID, stats)
	return &stats, nil
}

// GetRecent returns up to limit records, newest first. limit is clamped to
// [1, MaxRecentLimit]; zero means DefaultRecentLimit.
func (s *service) GetRecent(ctx context.Context, userID string, limit int) ([]domain.RecycleRecord, error) {
	switch {
	case limit <= 0:
		limit = DefaultRecentLimit
	case limit > MaxRecentLimit:
		limit = MaxRecentLimit
	}

	cached, fresh, ok := s.recentCache.Get(ctx, userID)
	if fresh {
		recordLookup(metrics.ResultHit)
		return head(cached, limit), nil
	}

	records, err := s.loadHistory(ctx, userID)
	if err != nil {
		if ok {
			recordLookup(metrics.ResultStale)
			logger.FromContext(ctx).Warn(LogMsgServingStaleCache, "user_id", userID, "error", err)
			return head(cached, limit), nil
		}
		return nil, err
	}
	recordLookup(metrics.ResultMiss)

	recent := head(records, MaxRecentLimit)
	s.recentCache.Put(ctx, userID, recent)
	return head(recent, limit), nil
}

func head(records []domain.RecycleRecord, n int) []domain.RecycleRecord {
	if len(records) > n {
		records = records[:n]
	}
	out := make([]domain.RecycleRecord, len(records))
	copy(out, records)
	return out
}

// loadHistory reads every history entry, newest first
func (s *service) loadHistory(ctx context.Context, userID string) ([]domain.RecycleRecord, error) {
	docs, err := s.remote.ListDocuments(ctx, store.RecycleHistory(userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadHistoryFailed, err)
	}
	records := make([]domain.RecycleRecord, 0, len(docs))
	for id, doc := range docs {
		var rec domain.RecycleRecord
		if err := doc.Decode(&rec); err != nil {
			logger.FromContext(ctx).Warn(LogMsgSkippedHistoryEntry, "user_id", userID, "id", id, "error", err)
			continue
		}
		if rec.ID == "" {
			rec.ID = id
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID > records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func (s *service) summarise(records []domain.RecycleRecord) domain.RecyclingStats {
	today := clock.Today(s.clock, s.cfg.Location)
	weekStart := today.AddDays(-WeekWindowDays)
	monthStart := today.AddDays(-MonthWindowDays)

	stats := domain.RecyclingStats{Total: len(records), ByType: map[string]int{}}
	for _, r := range records {
		stats.ByType[r.Material]++
		day := domain.DateOf(r.CreatedAt, s.cfg.Location)
		if day == today {
			stats.Today++
		}
		if !day.Before(weekStart) {
			stats.ThisWeek++
		}
		if !day.Before(monthStart) {
			stats.ThisMonth++
		}
	}
	return stats
}

// InvalidateCache drops the user's cached views
func (s *service) InvalidateCache(ctx context.Context, userID string) {
	s.statsCache.Invalidate(ctx, userID)
	s.recentCache.Invalidate(ctx, userID)
}

// ClearCache drops every user's cached views
func (s *service) ClearCache(ctx context.Context) error {
	if err := errors.Join(s.statsCache.Clear(ctx), s.recentCache.Clear(ctx)); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgClearCacheFailed, err)
	}
	return nil
}

// PurgeExpired removes persisted cache records past their lifetime
func (s *service) PurgeExpired(ctx context.Context) (int, error) {
	a, errA := s.statsCache.PurgeExpired(ctx)
	b, errB := s.recentCache.PurgeExpired(ctx)
	if err := errors.Join(errA, errB); err != nil {
		return a + b, fmt.Errorf("%s: %w", ErrMsgPurgeFailed, err)
	}
	if a+b > 0 {
		logger.FromContext(ctx).Info(LogMsgCachePurged, "removed", a+b)
	}
	return a + b, nil
}
