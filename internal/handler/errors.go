package handler

// Generic HTTP error messages for client responses.
// These messages do not expose internal error details.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingUserID         = "Missing user ID"
	ErrMsgMissingMissionID      = "Missing mission ID"
	ErrMsgInvalidLimit          = "Invalid limit parameter"

	// Operation names used in logs and error responses
	OpEnsureProfile      = "Ensure profile"
	OpGetUserStats       = "Get user stats"
	OpGetMissions        = "Get missions"
	OpGetMissionsSummary = "Get missions summary"
	OpUpdateMission      = "Update mission progress"
	OpCompleteMission    = "Complete mission"
	OpSyncMissions       = "Sync missions"
	OpGetDailyProgress   = "Get daily progress"
	OpRecordRecycling    = "Record recycling"
	OpRecordClassified   = "Record classification"
	OpGetRecyclingStats  = "Get recycling stats"
	OpGetRecentRecycling = "Get recent recycling"
	OpCheckAchievements  = "Check achievements"
	OpCheckBadges        = "Check badges"
)

// User-facing messages for service errors
const (
	ErrMsgGenericServerError    = "Something went wrong"
	ErrMsgUnknownError          = "Unknown error"
	ErrMsgUserNotFoundError     = "User not found"
	ErrMsgMissionNotFoundError  = "Mission not found"
	ErrMsgMissionCompletedError = "Mission already completed"
	ErrMsgInvalidMaterialError  = "Unknown material"
	ErrMsgInvalidResponseError  = "Could not understand the classification"
	ErrMsgInvalidInputError     = "Invalid request. Please check your inputs."
	ErrMsgUnavailableError      = "Server is temporarily unavailable. Please try again later."
)

// Success messages returned in JSON responses
const (
	MsgMissionsSynced = "Missions synced"
)
