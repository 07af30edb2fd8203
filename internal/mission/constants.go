package mission

// Generation bounds
const (
	DefaultMissionCount = 5
	MinTarget           = 1
	MaxMaterialTarget   = 5
	MaxItemTarget       = 4
	MaxCountTarget      = 8
	MinXPPerUnit        = 5
	MaxXPPerUnit        = 20
)

// DefaultRetentionDays is how long local mission entries are kept
const DefaultRetentionDays = 7

// LocalKey is the single local item holding every user's cached mission set
const LocalKey = "daily_missions_data"

// Error Messages
const (
	ErrMsgLoadMissionsFailed   = "failed to load today's missions"
	ErrMsgUpdateProgressFailed = "failed to update mission progress"
	ErrMsgCompleteFailed       = "failed to complete mission"
	ErrMsgApplyRecyclingFailed = "failed to apply recycling to missions"
	ErrMsgSyncFailed           = "failed to sync local missions"
	ErrMsgCleanupFailed        = "failed to clean local missions"
	ErrMsgStatsUpdateFailed    = "failed to credit mission reward"
)

// Log Messages
const (
	LogMsgMissionsGenerated     = "Generated daily missions"
	LogMsgEphemeralMissions     = "Both stores failed, serving unsaved missions"
	LogMsgMissionCompleted      = "Mission completed"
	LogMsgMissionsSynced        = "Local missions synced to remote"
	LogMsgLocalMissionsPruned   = "Pruned old local mission entries"
	LogMsgCorruptLocalRecord    = "Local missions record is corrupt, treating as empty"
	LogMsgCompletionNotReopened = "Failed to reopen mission after reward credit failed"
)
