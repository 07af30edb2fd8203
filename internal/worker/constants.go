package worker

import "time"

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// Log messages for worker pool operations
const (
	LogMsgWorkerJobFailed = "Worker job failed"
	LogMsgJobQueueFull    = "Job queue full, dropping job"
)

// ============================================================================
// Log Messages - Cleanup Job
// ============================================================================

// Log messages for local cache cleanup
const (
	LogMsgCleanupStarting  = "Local cache cleanup starting"
	LogMsgCleanupCompleted = "Local cache cleanup completed"
)

// Error messages for local cache cleanup
const (
	ErrMsgMissionCleanupFailed = "failed to clean local missions"
	ErrMsgCachePurgeFailed     = "failed to purge recycling cache"
)

// ============================================================================
// Log Messages - Midnight Worker
// ============================================================================

// Log messages for the day rollover worker
const (
	LogMsgMidnightStandby   = "Day rollover standby"
	LogMsgMidnightApproach  = "Day rollover scheduled"
	LogMsgMidnightExecuting = "Day rollover executing"
	LogMsgMidnightFailed    = "Day rollover job failed"
	LogMsgMidnightShutdown  = "Day rollover worker shutdown complete"
	LogMsgMidnightTimeout   = "Day rollover worker shutdown timeout"
)

// Two-stage scheduling around midnight
const (
	MidnightStandbyThreshold = time.Hour
	MidnightWakeBefore       = 45 * time.Minute
	MidnightEarlyTolerance   = 10 * time.Second
	MidnightLateWindow       = 23 * time.Hour
)

// DefaultJobTimeout bounds a single job run in the pool
const DefaultJobTimeout = 2 * time.Minute

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)
