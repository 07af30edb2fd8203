package userstats

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/osse101/EcoQuest_Go/internal/clock"
	"github.com/osse101/EcoQuest_Go/internal/domain"
	"github.com/osse101/EcoQuest_Go/internal/event"
	"github.com/osse101/EcoQuest_Go/internal/logger"
	"github.com/osse101/EcoQuest_Go/internal/store"
)

// StreakProvider reports a user's current daily-goal streak
type StreakProvider interface {
	CurrentStreak(ctx context.Context, userID string) (int, error)
}

// StreakFunc adapts a function to StreakProvider
type StreakFunc func(ctx context.Context, userID string) (int, error)

// CurrentStreak implements StreakProvider
func (f StreakFunc) CurrentStreak(ctx context.Context, userID string) (int, error) {
	return f(ctx, userID)
}

// Service owns leveling, experience and unlockables
type Service interface {
	EnsureProfile(ctx context.Context, userID, displayName string) (*domain.UserStats, error)
	GetUserStats(ctx context.Context, userID string) (*domain.UserStats, error)
	AddExperience(ctx context.Context, userID string, amount int) (*domain.LevelResult, error)
	OnMissionCompleted(ctx context.Context, userID string, mission domain.Mission) error
	IncrementRecycled(ctx context.Context, userID string) error
	CheckAndAwardAchievements(ctx context.Context, userID string) ([]string, error)
	CheckAndAwardBadges(ctx context.Context, userID string) ([]string, error)
	AwardTitleForLevel(ctx context.Context, userID string, level int) error
	Catalog() *Catalog
}

type service struct {
	remote  store.Remote
	users   *store.Tiered[string]
	catalog *Catalog
	streaks StreakProvider
	bus     event.Bus
	clock   clock.Clock
}

// NewService creates the user stats service. streaks may be nil, in which
// case the stored dailyMissionStreak is used for achievements.
func NewService(remote store.Remote, local store.Local, catalog *Catalog, streaks StreakProvider, bus event.Bus, clk clock.Clock) Service {
	mirror := store.NewKeyMirror[string](local, LocalKeyPrefix, func(userID string) string { return userID })
	return &service{
		remote:  remote,
		users:   store.NewTiered[string](remote, mirror, store.UserDoc),
		catalog: catalog,
		streaks: streaks,
		bus:     bus,
		clock:   clk,
	}
}

// CalculateXpForLevel returns the cumulative experience needed to be at level
func CalculateXpForLevel(level int) int {
	return level*XPPerLevel + (level-1)*XPLevelBonus
}

// CalculateXpProgress returns how far xp is through level, as 0-100. Level 1
// starts at zero experience.
func CalculateXpProgress(xp, level int) float64 {
	base := 0
	if level > InitialLevel {
		base = CalculateXpForLevel(level)
	}
	next := CalculateXpForLevel(level + 1)
	if next <= base {
		return 100
	}
	pct := float64(xp-base) / float64(next-base) * 100
	return math.Min(100, math.Max(0, pct))
}

func (s *service) Catalog() *Catalog {
	return s.catalog
}

func decodeStats(doc store.Document) (*domain.UserStats, error) {
	var st domain.UserStats
	if err := doc.Decode(&st); err != nil {
		return nil, err
	}
	if st.Level < InitialLevel {
		st.Level = InitialLevel
	}
	if st.XPToNextLevel == 0 {
		st.XPToNextLevel = CalculateXpForLevel(st.Level + 1)
	}
	if st.Achievements == nil {
		st.Achievements = []string{}
	}
	if st.Medals == nil {
		st.Medals = []string{}
	}
	return &st, nil
}

// mutate runs fn over the user's stats inside a transaction. fn reports whether it
// changed anything; a missing profile is ErrUserNotFound.
func (s *service) mutate(ctx context.Context, userID string, fn func(st *domain.UserStats) (bool, error)) error {
	_, _, err := s.users.Transact(ctx, userID, func(current store.Document) (store.Document, error) {
		if current == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
		}
		st, err := decodeStats(current)
		if err != nil {
			return nil, err
		}
		changed, err := fn(st)
		if err != nil || !changed {
			return nil, err
		}
		return store.Encode(st)
	})
	return err
}

// EnsureProfile creates default stats for a new user and returns the stored profile
func (s *service) EnsureProfile(ctx context.Context, userID, displayName string) (*domain.UserStats, error) {
	now := s.clock.Now()

	var (
		result  *domain.UserStats
		created bool
	)
	_, _, err := s.users.Transact(ctx, userID, func(current store.Document) (store.Document, error) {
		created = false
		if current != nil {
			st, err := decodeStats(current)
			if err != nil {
				return nil, err
			}
			result = st
			return nil, nil
		}
		created = true
		result = &domain.UserStats{
			UserID:        userID,
			DisplayName:   displayName,
			Level:         InitialLevel,
			XPToNextLevel: CalculateXpForLevel(InitialLevel + 1),
			Achievements:  []string{},
			Medals:        []string{},
			Bio:           DefaultBio,
			LastSeen:      now,
		}
		return store.Encode(result)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgEnsureProfileFailed, err)
	}
	if created {
		logger.FromContext(ctx).Info(LogMsgProfileCreated, "user_id", userID)
	}
	return result, nil
}

// GetUserStats returns the stored profile
func (s *service) GetUserStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	doc, _, err := s.users.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetStatsFailed, err)
	}
	st, err := decodeStats(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetStatsFailed, err)
	}
	if st.UserID == "" {
		st.UserID = userID
	}
	return st, nil
}

// AddExperience grants amount and raises the level by at most one step per call
func (s *service) AddExperience(ctx context.Context, userID string, amount int) (*domain.LevelResult, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNegativeExperience)
	}
	now := s.clock.Now()

	var (
		result   domain.LevelResult
		oldLevel int
	)
	err := s.mutate(ctx, userID, func(st *domain.UserStats) (bool, error) {
		oldLevel = st.Level
		st.XP += amount
		result = domain.LevelResult{NewLevel: st.Level, TotalXP: st.XP}
		if st.XP >= CalculateXpForLevel(st.Level+1) {
			st.Level++
			result.NewLevel = st.Level
			result.LeveledUp = true
		}
		st.XPToNextLevel = CalculateXpForLevel(st.Level + 1)
		st.TotalPoints += amount
		st.LastSeen = now
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgAddExperienceFailed, err)
	}

	if result.LeveledUp {
		logger.FromContext(ctx).Info(LogMsgLevelUp, "user_id", userID, "level", result.NewLevel)
		event.Emit(ctx, s.bus, event.LevelUpPayload{UserID: userID, OldLevel: oldLevel, NewLevel: result.NewLevel})
	}
	event.Emit(ctx, s.bus, event.UserStatsUpdatedPayload{UserID: userID})
	return &result, nil
}

// OnMissionCompleted credits a completed mission
func (s *service) OnMissionCompleted(ctx context.Context, userID string, mission domain.Mission) error {
	if _, err := s.AddExperience(ctx, userID, mission.XP); err != nil {
		return err
	}
	if mission.IsRecycling() {
		return s.IncrementRecycled(ctx, userID)
	}
	return nil
}

// IncrementRecycled adds one to the lifetime recycled counter using a server-side increment
func (s *service) IncrementRecycled(ctx context.Context, userID string) error {
	err := s.remote.IncrementField(ctx, store.UserDoc(userID), FieldTotalRecycled, 1)
	if err == nil {
		return nil
	}
	logger.FromContext(ctx).Warn(LogMsgIncrementFallback, "user_id", userID, "error", err)

	doc, lerr := s.users.LoadLocal(ctx, userID)
	if lerr != nil {
		return fmt.Errorf("%s: %w", ErrMsgIncrementFailed, errors.Join(err, lerr))
	}
	doc[FieldTotalRecycled] = doc.Int(FieldTotalRecycled) + 1
	if serr := s.users.SaveLocal(ctx, userID, doc); serr != nil {
		return fmt.Errorf("%s: %w", ErrMsgIncrementFailed, errors.Join(err, serr))
	}
	return nil
}

// CheckAndAwardAchievements unlocks every newly qualifying achievement in one
// write and grants their summed reward in a single experience call
func (s *service) CheckAndAwardAchievements(ctx context.Context, userID string) ([]string, error) {
	streak := -1
	if s.streaks != nil {
		v, err := s.streaks.CurrentStreak(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgStreakLookupFailed, err)
		}
		streak = v
	}
	now := s.clock.Now()

	var unlocked []domain.Achievement
	err := s.mutate(ctx, userID, func(st *domain.UserStats) (bool, error) {
		unlocked = nil
		changed := false
		if streak >= 0 && st.DailyMissionStreak != streak {
			st.DailyMissionStreak = streak
			changed = true
		}
		for _, a := range s.catalog.Achievements {
			if st.HasAchievement(a.ID) || !qualifies(a.Condition, st) {
				continue
			}
			unlocked = append(unlocked, a)
			st.Achievements = append(st.Achievements, a.ID)
		}
		if len(unlocked) > 0 {
			st.LastSeen = now
			changed = true
		}
		return changed, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgAchievementsFailed, err)
	}
	if len(unlocked) == 0 {
		return []string{}, nil
	}

	ids := make([]string, 0, len(unlocked))
	reward := 0
	for _, a := range unlocked {
		ids = append(ids, a.ID)
		reward += a.RewardXP
		event.Emit(ctx, s.bus, event.AchievementUnlockedPayload{
			UserID:        userID,
			AchievementID: a.ID,
			Name:          a.Title,
			RewardXP:      a.RewardXP,
		})
	}
	logger.FromContext(ctx).Info(LogMsgAchievementsUnlocked, "user_id", userID, "ids", ids, "reward_xp", reward)

	if reward > 0 {
		if _, err := s.AddExperience(ctx, userID, reward); err != nil {
			return ids, err
		}
	}
	return ids, nil
}

func qualifies(c domain.AchievementCondition, st *domain.UserStats) bool {
	switch c.Type {
	case domain.ConditionLevel:
		return st.Level >= c.Value
	case domain.ConditionTotalRecycled:
		return st.TotalRecycled >= c.Value
	case domain.ConditionDailyMissionStreak:
		return st.DailyMissionStreak >= c.Value
	default:
		return false
	}
}

// CheckAndAwardBadges unlocks badges whose per-material counter reached its target
func (s *service) CheckAndAwardBadges(ctx context.Context, userID string) ([]string, error) {
	counters, err := s.remote.GetDocument(ctx, store.RecycleProgressDoc(userID))
	if errors.Is(err, store.ErrNotFound) {
		counters = store.Document{}
	} else if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRecycleProgressFailed, err)
	}
	now := s.clock.Now()

	var unlocked []domain.Badge
	err = s.mutate(ctx, userID, func(st *domain.UserStats) (bool, error) {
		unlocked = nil
		for _, b := range s.catalog.Badges {
			if st.HasMedal(b.ID) || counters.Int(b.Type) < int64(b.Target) {
				continue
			}
			unlocked = append(unlocked, b)
			st.Medals = append(st.Medals, b.ID)
		}
		if len(unlocked) == 0 {
			return false, nil
		}
		st.LastSeen = now
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBadgesFailed, err)
	}
	if len(unlocked) == 0 {
		return []string{}, nil
	}

	ids := make([]string, 0, len(unlocked))
	reward := 0
	for _, b := range unlocked {
		ids = append(ids, b.ID)
		reward += b.RewardXP
		event.Emit(ctx, s.bus, event.BadgeUnlockedPayload{
			UserID:      userID,
			BadgeID:     b.ID,
			Name:        b.Title,
			Description: b.Description,
			RewardXP:    b.RewardXP,
		})
	}
	logger.FromContext(ctx).Info(LogMsgBadgesUnlocked, "user_id", userID, "ids", ids, "reward_xp", reward)

	if reward > 0 {
		if _, err := s.AddExperience(ctx, userID, reward); err != nil {
			return ids, err
		}
	}
	return ids, nil
}

// AwardTitleForLevel sets the highest title available at level, if it differs
func (s *service) AwardTitleForLevel(ctx context.Context, userID string, level int) error {
	title, ok := s.catalog.TitleForLevel(level)
	if !ok {
		return nil
	}

	awarded := false
	err := s.mutate(ctx, userID, func(st *domain.UserStats) (bool, error) {
		awarded = false
		if st.Title == title.Title {
			return false, nil
		}
		st.Title = title.Title
		st.Bio = title.Description
		awarded = true
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgAwardTitleFailed, err)
	}
	if awarded {
		logger.FromContext(ctx).Info(LogMsgTitleAwarded, "user_id", userID, "title", title.Title)
		event.Emit(ctx, s.bus, event.UserStatsUpdatedPayload{UserID: userID})
	}
	return nil
}
