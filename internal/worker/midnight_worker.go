package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/EcoQuest_Go/internal/logger"
)

// MidnightWorker runs a job at each local midnight in its location, so work
// keyed by calendar day happens as soon as the day changes
type MidnightWorker struct {
	job      Job
	location *time.Location
	now      func() time.Time
	timer    *time.Timer
	shutdown chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
}

// NewMidnightWorker creates a new MidnightWorker. A nil location means UTC.
func NewMidnightWorker(job Job, location *time.Location) *MidnightWorker {
	if location == nil {
		location = time.UTC
	}
	return &MidnightWorker{
		job:      job,
		location: location,
		now:      time.Now,
		shutdown: make(chan struct{}),
	}
}

// Start schedules the first run
func (w *MidnightWorker) Start() {
	w.scheduleNext()
}

// scheduleNext waits for the next midnight
func (w *MidnightWorker) scheduleNext() {
	duration := timeUntilMidnight(w.now(), w.location)
	log := logger.FromContext(context.Background())

	w.mu.Lock()
	select {
	case <-w.shutdown:
		w.mu.Unlock()
		return
	default:
	}
	if w.timer != nil {
		w.timer.Stop()
	}

	// Two-stage scheduling to avoid rescheduling in a tight loop on early timers
	if duration > MidnightStandbyThreshold {
		waitDuration := duration - MidnightWakeBefore
		w.timer = time.AfterFunc(waitDuration, w.scheduleNext)
		w.mu.Unlock()

		log.Info(LogMsgMidnightStandby, "next_check_at", w.now().Add(waitDuration))
		return
	}

	w.timer = time.AfterFunc(duration, func() {
		select {
		case <-w.shutdown:
			return
		default:
		}

		// Fired early: wait out the remainder
		rem := timeUntilMidnight(w.now(), w.location)
		if rem > MidnightEarlyTolerance && rem < MidnightLateWindow {
			w.scheduleNext()
			return
		}

		w.execute()
		w.scheduleNext()
	})
	w.mu.Unlock()

	log.Info(LogMsgMidnightApproach, "run_at", w.now().Add(duration))
}

// execute runs the job in a tracked goroutine
func (w *MidnightWorker) execute() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ctx := context.Background()
		log := logger.FromContext(ctx)
		log.Info(LogMsgMidnightExecuting)

		if err := w.job.Process(ctx); err != nil {
			log.Error(LogMsgMidnightFailed, "error", err)
		}
	}()
}

// Shutdown cancels the pending timer and waits for an in-flight run
func (w *MidnightWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)

	w.mu.Lock()
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgMidnightShutdown)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgMidnightTimeout)
		return ctx.Err()
	}
}

// timeUntilMidnight returns the duration from now until the next 00:00 in loc
func timeUntilMidnight(now time.Time, loc *time.Location) time.Duration {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(local)
}
