package userstats

// Profile defaults
const (
	InitialLevel = 1
	DefaultBio   = "Nuevo usuario"
)

// Leveling formula coefficients: xp(level) = level*XPPerLevel + (level-1)*XPLevelBonus
const (
	XPPerLevel   = 100
	XPLevelBonus = 50
)

// LocalKeyPrefix prefixes the local mirror key of each user's stats
const LocalKeyPrefix = "user_stats_"

// Error Messages
const (
	ErrMsgCatalogLoadFailed     = "failed to load catalog"
	ErrMsgCatalogInvalid        = "invalid catalog"
	ErrMsgGetStatsFailed        = "failed to get user stats"
	ErrMsgEnsureProfileFailed   = "failed to ensure profile"
	ErrMsgAddExperienceFailed   = "failed to add experience"
	ErrMsgIncrementFailed       = "failed to increment recycled count"
	ErrMsgAchievementsFailed    = "failed to check achievements"
	ErrMsgBadgesFailed          = "failed to check badges"
	ErrMsgAwardTitleFailed      = "failed to award title"
	ErrMsgRecycleProgressFailed = "failed to read recycling progress"
	ErrMsgNegativeExperience    = "experience amount must not be negative"
	ErrMsgStreakLookupFailed    = "failed to read daily streak"
)

// Log Messages
const (
	LogMsgProfileCreated       = "Created user profile"
	LogMsgLevelUp              = "User leveled up"
	LogMsgAchievementsUnlocked = "Achievements unlocked"
	LogMsgBadgesUnlocked       = "Badges unlocked"
	LogMsgTitleAwarded         = "Title awarded"
	LogMsgIncrementFallback    = "Remote increment failed, counting locally"
	LogMsgTitleAwardFailed     = "Failed to award title for level"
)

// Stats document fields updated with server-side increments
const (
	FieldTotalRecycled = "totalRecycled"
)
