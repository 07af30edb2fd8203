package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/osse101/EcoQuest_Go/internal/worker"
)

const (
	LogMsgJobScheduled = "Job scheduled"
	LogMsgTickSkipped  = "Scheduled job skipped, worker queue full"
)

// Scheduler enqueues named jobs onto a worker pool at fixed intervals
type Scheduler struct {
	workerPool *worker.Pool
	quit       chan struct{}
	once       sync.Once
	wg         sync.WaitGroup
}

// New creates a scheduler feeding pool
func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{
		workerPool: pool,
		quit:       make(chan struct{}),
	}
}

// Schedule runs job every interval, first one interval from now.
// A tick whose job cannot be queued is skipped, not retried.
func (s *Scheduler) Schedule(name string, interval time.Duration, job worker.Job) {
	s.schedule(name, interval, job, false)
}

// ScheduleNow is Schedule with an extra run queued immediately
func (s *Scheduler) ScheduleNow(name string, interval time.Duration, job worker.Job) {
	s.schedule(name, interval, job, true)
}

func (s *Scheduler) schedule(name string, interval time.Duration, job worker.Job, immediate bool) {
	slog.Info(LogMsgJobScheduled, "job", name, "interval", interval.String(), "immediate", immediate)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		if immediate {
			s.enqueue(name, job)
		}
		for {
			select {
			case <-ticker.C:
				s.enqueue(name, job)
			case <-s.quit:
				return
			}
		}
	}()
}

func (s *Scheduler) enqueue(name string, job worker.Job) {
	if !s.workerPool.Enqueue(job) {
		slog.Warn(LogMsgTickSkipped, "job", name)
	}
}

// Stop ends every schedule and waits for the tickers to exit. It is safe to
// call more than once.
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.quit) })
	s.wg.Wait()
}
