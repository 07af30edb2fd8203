package domain

import (
	"math"
	"time"
)

// DailyProgress tracks items recycled today and the daily-goal streak
type DailyProgress struct {
	CurrentProgress int       `json:"currentProgress"`
	LastRecycleDate time.Time `json:"lastRecycleDate"`
	DailyStreak     int       `json:"dailyStreak"`
	TotalRecycled   int       `json:"totalRecycled"`
	TargetDaily     int       `json:"targetDaily"`
	BestStreak      int       `json:"bestStreak"`
}

// GoalReached reports whether today's target has been met
func (p DailyProgress) GoalReached() bool {
	return p.TargetDaily > 0 && p.CurrentProgress >= p.TargetDaily
}

// DailyStats is a read-only view over DailyProgress
type DailyStats struct {
	CurrentProgress    int     `json:"currentProgress"`
	TargetDaily        int     `json:"targetDaily"`
	DailyStreak        int     `json:"dailyStreak"`
	TotalRecycled      int     `json:"totalRecycled"`
	IsCompleted        bool    `json:"isCompleted"`
	ProgressPercentage float64 `json:"progressPercentage"`
	BestStreak         int     `json:"bestStreak"`
}

// Stats derives the display view of the progress record
func (p DailyProgress) Stats() DailyStats {
	pct := 0.0
	if p.TargetDaily > 0 {
		pct = math.Min(100, float64(p.CurrentProgress)/float64(p.TargetDaily)*100)
	}
	return DailyStats{
		CurrentProgress:    p.CurrentProgress,
		TargetDaily:        p.TargetDaily,
		DailyStreak:        p.DailyStreak,
		TotalRecycled:      p.TotalRecycled,
		IsCompleted:        p.GoalReached(),
		ProgressPercentage: pct,
		BestStreak:         p.BestStreak,
	}
}
