package domain

import "time"

// UserStats is a user's cumulative progression profile
type UserStats struct {
	UserID             string    `json:"id"`
	DisplayName        string    `json:"displayName,omitempty"`
	Level              int       `json:"level"`
	XP                 int       `json:"xp"`
	XPToNextLevel      int       `json:"xpToNextLevel"`
	TotalPoints        int       `json:"totalPoints"`
	TotalRecycled      int       `json:"totalRecycled"`
	DailyMissionStreak int       `json:"dailyMissionStreak"`
	Achievements       []string  `json:"achievements"`
	Medals             []string  `json:"medals"`
	Title              string    `json:"title,omitempty"`
	Bio                string    `json:"bio,omitempty"`
	LastSeen           time.Time `json:"lastSeen"`
}

// HasAchievement reports whether id is already unlocked
func (s *UserStats) HasAchievement(id string) bool {
	return contains(s.Achievements, id)
}

// HasMedal reports whether badge id is already unlocked
func (s *UserStats) HasMedal(id string) bool {
	return contains(s.Medals, id)
}

func contains(set []string, id string) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}

// LevelResult is the outcome of an experience grant
type LevelResult struct {
	NewLevel  int  `json:"newLevel"`
	LeveledUp bool `json:"leveledUp"`
	TotalXP   int  `json:"totalXp"`
}

// ConditionType selects which stat an achievement is evaluated against
type ConditionType string

const (
	ConditionLevel              ConditionType = "level"
	ConditionTotalRecycled      ConditionType = "totalRecycled"
	ConditionDailyMissionStreak ConditionType = "dailyMissionStreak"
)

// AchievementCondition is the threshold an achievement requires
type AchievementCondition struct {
	Type  ConditionType `json:"type" validate:"required,oneof=level totalRecycled dailyMissionStreak"`
	Value int           `json:"value" validate:"min=1"`
}

// Achievement is a static catalog entry unlocked by level, lifetime recycling or streak
type Achievement struct {
	ID          string               `json:"id" validate:"required"`
	Title       string               `json:"title" validate:"required"`
	Description string               `json:"description"`
	Condition   AchievementCondition `json:"condition" validate:"required"`
	RewardXP    int                  `json:"rewardXP" validate:"min=0"`
}

// Badge is a static catalog entry unlocked by a per-material recycling count
type Badge struct {
	ID          string `json:"id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	IconURL     string `json:"iconUrl"`
	Level       int    `json:"level" validate:"min=0"`
	Type        string `json:"type" validate:"required,material"`
	Target      int    `json:"target" validate:"min=1"`
	RewardXP    int    `json:"rewardXP" validate:"min=0"`
	Color       string `json:"color"`
}

// Title is a profile title granted at a level threshold
type Title struct {
	Level       int    `json:"level" validate:"min=1"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}
