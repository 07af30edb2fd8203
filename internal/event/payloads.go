package event

// Typed event payloads

// LevelUpPayload is published when a user reaches a new level
type LevelUpPayload struct {
	UserID   string `json:"user_id"`
	OldLevel int    `json:"old_level"`
	NewLevel int    `json:"new_level"`
}

// BadgeUnlockedPayload is published once per newly unlocked badge
type BadgeUnlockedPayload struct {
	UserID      string `json:"user_id"`
	BadgeID     string `json:"badge_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	RewardXP    int    `json:"reward_xp"`
}

// AchievementUnlockedPayload is published once per newly unlocked achievement
type AchievementUnlockedPayload struct {
	UserID        string `json:"user_id"`
	AchievementID string `json:"achievement_id"`
	Name          string `json:"name"`
	RewardXP      int    `json:"reward_xp"`
}

// UserStatsUpdatedPayload signals that a user's stats document changed
type UserStatsUpdatedPayload struct {
	UserID string `json:"user_id"`
}

// MissionCompletedPayload is published when a daily mission reaches its target
type MissionCompletedPayload struct {
	UserID    string `json:"user_id"`
	MissionID string `json:"mission_id"`
	Title     string `json:"title"`
	XP        int    `json:"xp"`
}

// DailyGoalCompletedPayload is published the first time the daily target is met on a day
type DailyGoalCompletedPayload struct {
	UserID string `json:"user_id"`
	Streak int    `json:"streak"`
	XP     int    `json:"xp"`
}

// RecyclingRecordedPayload is published for every recycled item
type RecyclingRecordedPayload struct {
	UserID   string `json:"user_id"`
	Material string `json:"material"`
	Item     string `json:"item,omitempty"`
}

func (LevelUpPayload) eventType() Type             { return LevelUp }
func (BadgeUnlockedPayload) eventType() Type       { return BadgeUnlocked }
func (AchievementUnlockedPayload) eventType() Type { return AchievementUnlocked }
func (UserStatsUpdatedPayload) eventType() Type    { return UserStatsUpdated }
func (MissionCompletedPayload) eventType() Type    { return MissionCompleted }
func (DailyGoalCompletedPayload) eventType() Type  { return DailyGoalCompleted }
func (RecyclingRecordedPayload) eventType() Type   { return RecyclingRecorded }

func (p LevelUpPayload) User() string             { return p.UserID }
func (p BadgeUnlockedPayload) User() string       { return p.UserID }
func (p AchievementUnlockedPayload) User() string { return p.UserID }
func (p UserStatsUpdatedPayload) User() string    { return p.UserID }
func (p MissionCompletedPayload) User() string    { return p.UserID }
func (p DailyGoalCompletedPayload) User() string  { return p.UserID }
func (p RecyclingRecordedPayload) User() string   { return p.UserID }
