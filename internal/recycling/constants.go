package recycling

import "time"

// Cache lifetimes
const (
	DefaultStatsTTL  = 10 * time.Minute
	DefaultRecentTTL = 5 * time.Minute
)

// Recent history bounds
const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 50
)

// Windows used by GetStats, counted back from today
const (
	WeekWindowDays  = 7
	MonthWindowDays = 30
)

// FrontCacheSize bounds the number of users held in each in-process cache
const FrontCacheSize = 1024

// Local cache key prefixes, followed by the user id
const (
	StatsKeyPrefix  = "recycling_stats_"
	RecentKeyPrefix = "recent_recycling_"
)

// Error Messages
const (
	ErrMsgRecordFailed      = "failed to record recycling"
	ErrMsgEnsureProfile     = "failed to ensure user profile"
	ErrMsgWriteHistory      = "failed to write recycling history"
	ErrMsgIncrementCounters = "failed to increment recycling counters"
	ErrMsgLoadHistoryFailed = "failed to load recycling history"
	ErrMsgClearCacheFailed  = "failed to clear recycling cache"
	ErrMsgPurgeFailed       = "failed to purge recycling cache"
)

// Log Messages
const (
	LogMsgRecyclingRecorded   = "Recycling recorded"
	LogMsgMissionsNotApplied  = "Failed to apply recycling to missions"
	LogMsgDailyNotUpdated     = "Failed to update daily progress"
	LogMsgBadgeCheckFailed    = "Failed to check badges"
	LogMsgAchievementsFailed  = "Failed to check achievements"
	LogMsgServingStaleCache   = "Remote read failed, serving stale cache"
	LogMsgCacheWriteFailed    = "Failed to write recycling cache"
	LogMsgCacheRemoveFailed   = "Failed to remove recycling cache entry"
	LogMsgCorruptCacheRecord  = "Recycling cache record is corrupt, ignoring"
	LogMsgSkippedHistoryEntry = "Skipping unreadable history entry"
	LogMsgCachePurged         = "Purged expired recycling cache entries"
)
