package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/EcoQuest_Go/internal/testing/leaktest"
	"github.com/osse101/EcoQuest_Go/internal/worker"
)

// MockJob is a simple job for testing
type MockJob struct {
	RunCount atomic.Int32
	Done     chan struct{}
}

func (m *MockJob) Process(ctx context.Context) error {
	m.RunCount.Add(1)
	// Signal that job ran
	select {
	case m.Done <- struct{}{}:
	default:
	}
	return nil
}

func TestScheduler(t *testing.T) {
	// Create worker pool
	pool := worker.NewPool(1, 10)
	pool.Start(context.Background())
	defer pool.Stop()

	// Create scheduler
	sched := New(pool)
	defer sched.Stop()

	// Create mock job
	job := &MockJob{
		Done: make(chan struct{}, 10),
	}

	// Schedule job every 10ms
	sched.Schedule("tick", 10*time.Millisecond, job)

	// Wait for at least 2 runs
	timeout := time.After(time.Second)
	runCount := 0

	for runCount < 2 {
		select {
		case <-job.Done:
			runCount++
		case <-timeout:
			t.Fatal("Timeout waiting for job execution")
		}
	}

	assert.GreaterOrEqual(t, runCount, 2)
}

func TestScheduler_ScheduleNowRunsImmediately(t *testing.T) {
	pool := worker.NewPool(1, 10)
	pool.Start(context.Background())
	defer pool.Stop()

	sched := New(pool)
	defer sched.Stop()

	job := &MockJob{Done: make(chan struct{}, 10)}
	sched.ScheduleNow("now", time.Hour, job)

	select {
	case <-job.Done:
	case <-time.After(time.Second):
		t.Fatal("job was not run immediately")
	}
	assert.Equal(t, int32(1), job.RunCount.Load())
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	sched := New(worker.NewPool(1, 1))
	sched.Stop()
	sched.Stop()
}

func TestScheduler_StopReleasesTickers(t *testing.T) {
	leaktest.Verify(t, func() {
		pool := worker.NewPool(1, 4)
		pool.Start(context.Background())
		sched := New(pool)
		sched.Schedule("a", time.Hour, &MockJob{Done: make(chan struct{}, 1)})
		sched.ScheduleNow("b", time.Hour, &MockJob{Done: make(chan struct{}, 1)})
		sched.Stop()
		pool.Stop()
	})
}
