package store

// Remote document layout, one namespace per user
const (
	CollectionUsers           = "users"
	CollectionDailyMissions   = "dailyMissions"
	CollectionDailyProgress   = "dailyProgress"
	CollectionRecycleProgress = "recycleProgress"
	CollectionRecycleHistory  = "recycle_history"

	ProgressDocID = "progress"
)

// UserDoc is the path of the user's stats/profile document
func UserDoc(userID string) string {
	return Join(CollectionUsers, userID)
}

// MissionsDoc is the path of the user's mission set for a date
func MissionsDoc(userID, date string) string {
	return Join(CollectionUsers, userID, CollectionDailyMissions, date)
}

// DailyProgressDoc is the path of the user's daily progress record
func DailyProgressDoc(userID string) string {
	return Join(CollectionUsers, userID, CollectionDailyProgress, ProgressDocID)
}

// RecycleProgressDoc is the path of the user's per-material counters
func RecycleProgressDoc(userID string) string {
	return Join(CollectionUsers, userID, CollectionRecycleProgress, ProgressDocID)
}

// RecycleHistory is the collection of the user's recycling records
func RecycleHistory(userID string) string {
	return Join(CollectionUsers, userID, CollectionRecycleHistory)
}
