package dailyprogress

// Defaults for the daily goal
const (
	DefaultTargetDaily = 3
	DefaultXPReward    = 30
)

// LocalKeyPrefix prefixes the local mirror key of each user's progress
const LocalKeyPrefix = "daily_progress_"

// Error Messages
const (
	ErrMsgGetProgressFailed    = "failed to get daily progress"
	ErrMsgResetProgressFailed  = "failed to validate daily progress"
	ErrMsgAddRecyclingFailed   = "failed to add recycling to daily progress"
	ErrMsgGrantGoalXPFailed    = "failed to grant daily goal experience"
	ErrMsgDecodeProgressFailed = "failed to decode daily progress"
)

// Log Messages
const (
	LogMsgProgressRolledOver = "Daily progress rolled over"
	LogMsgDailyGoalCompleted = "Daily goal completed"
)
