package metrics

// ============================================================================
// Metric Names
// ============================================================================

// Namespace prefixes every metric exported by the service
const Namespace = "eco"

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameMissionsCompleted    = "missions_completed_total"
	MetricNameXPGranted            = "xp_granted_total"
	MetricNameLevelUps             = "level_ups_total"
	MetricNameBadgesUnlocked       = "badges_unlocked_total"
	MetricNameAchievementsUnlocked = "achievements_unlocked_total"
	MetricNameDailyGoalsCompleted  = "daily_goals_completed_total"
	MetricNameItemsRecycled        = "items_recycled_total"
)

// Storage metric names
const (
	MetricNameStoreFallbacks  = "store_fallbacks_total"
	MetricNameCacheLookups    = "cache_lookups_total"
	MetricNameLocalEntriesGCd = "local_entries_purged_total"
)

// Streaming metric names
const (
	MetricNameSSEStreams = "sse_streams"
	MetricNameSSEDropped = "sse_events_dropped_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"

	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"

	HelpTextMissionsCompleted    = "Total number of daily missions completed"
	HelpTextXPGranted            = "Total experience granted by source"
	HelpTextLevelUps             = "Total number of level ups"
	HelpTextBadgesUnlocked       = "Total number of badges unlocked"
	HelpTextAchievementsUnlocked = "Total number of achievements unlocked"
	HelpTextDailyGoalsCompleted  = "Total number of daily goals reached"
	HelpTextItemsRecycled        = "Total number of recycled items by material"

	HelpTextStoreFallbacks  = "Remote store failures served from the local cache"
	HelpTextCacheLookups    = "Recycling cache lookups by result"
	HelpTextLocalEntriesGCd = "Local cache entries removed by housekeeping"

	HelpTextSSEStreams = "Open server-sent event streams"
	HelpTextSSEDropped = "Events not delivered to a stream because it fell behind"
)

// ============================================================================
// Labels
// ============================================================================

const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelSource    = "source"
	LabelBadge     = "badge"
	LabelMaterial  = "material"
	LabelOperation = "operation"
	LabelResult    = "result"
)

// Label values
const (
	SourceMission   = "mission"
	SourceDailyGoal = "daily_goal"
	ResultHit       = "hit"
	ResultMiss      = "miss"
	ResultStale     = "stale"
	UnmatchedRoute  = "unmatched"
)

// HTTPLatencyBuckets are the histogram buckets for request latency
var HTTPLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// Log messages
const (
	LogMsgEventCollected = "Recorded metrics for event"
)
