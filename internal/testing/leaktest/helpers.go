// Package leaktest checks that background goroutines started by a test have
// exited by the time it finishes.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// DefaultWait bounds how long Check polls for goroutines to exit
const DefaultWait = 2 * time.Second

// GoroutineChecker compares the goroutine count against a baseline
type GoroutineChecker struct {
	t        testing.TB
	baseline int
	wait     time.Duration
}

// NewGoroutineChecker records the current goroutine count as the baseline
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	runtime.Gosched()
	return &GoroutineChecker{t: t, baseline: runtime.NumGoroutine(), wait: DefaultWait}
}

// WithWait overrides how long Check keeps polling
func (g *GoroutineChecker) WithWait(d time.Duration) *GoroutineChecker {
	g.wait = d
	return g
}

// Check fails the test if more than tolerance goroutines above the baseline
// are still running once the wait expires. It returns as soon as the count
// settles, so clean shutdowns cost nothing.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	deadline := time.Now().Add(g.wait)
	leaked := 0
	for {
		runtime.Gosched()
		leaked = runtime.NumGoroutine() - g.baseline
		if leaked <= tolerance || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if leaked > tolerance {
		g.t.Errorf("goroutine leak: baseline=%d leaked=%d tolerance=%d", g.baseline, leaked, tolerance)
	}
}

// Verify runs fn and fails t if it leaves goroutines behind
func Verify(t testing.TB, fn func()) {
	t.Helper()
	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}
