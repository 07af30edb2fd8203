package domain

import (
	"fmt"
	"time"
)

// MissionType identifies what a mission counts
type MissionType string

const (
	MissionMaterialRecycle MissionType = "material_recycle"
	MissionItemCategory    MissionType = "item_category"
	MissionCountRecycle    MissionType = "count_recycle"
)

// MissionStatus is the lifecycle state of a mission. A credited completion is final.
type MissionStatus string

const (
	MissionPending    MissionStatus = "pendiente"
	MissionInProgress MissionStatus = "en_proceso"
	MissionCompleted  MissionStatus = "completada"
)

// Mission is a single daily task with a progress target and an XP reward
type Mission struct {
	ID         string        `json:"id"`
	Type       MissionType   `json:"type"`
	Material   string        `json:"material,omitempty"`
	Item       string        `json:"item,omitempty"`
	Target     int           `json:"target"`
	XP         int           `json:"xp"`
	Progress   int           `json:"progresoActual"`
	Status     MissionStatus `json:"estado"`
	AssignedAt time.Time     `json:"fechaAsignacion"`
	ExpiresAt  time.Time     `json:"fechaExpiracion"`
}

// Title returns a short human readable description of the mission
func (m Mission) Title() string {
	switch m.Type {
	case MissionMaterialRecycle:
		return fmt.Sprintf("Recicla %d de %s", m.Target, m.Material)
	case MissionItemCategory:
		return fmt.Sprintf("Recicla %d %s (%s)", m.Target, m.Item, m.Material)
	default:
		return fmt.Sprintf("Recicla %d objetos", m.Target)
	}
}

// IsRecycling reports whether completing the mission counts as recycled items
func (m Mission) IsRecycling() bool {
	return m.Type == MissionMaterialRecycle || m.Type == MissionCountRecycle
}

// IsCompleted reports whether the mission reached its target
func (m Mission) IsCompleted() bool {
	return m.Status == MissionCompleted
}

// Matches reports whether recycling one unit of material advances this mission
func (m Mission) Matches(material string) bool {
	switch m.Type {
	case MissionCountRecycle:
		return true
	case MissionMaterialRecycle, MissionItemCategory:
		return m.Material == material
	default:
		return false
	}
}

// WithProgress returns a copy with progress clamped to [0, Target] and the
// status derived from it. A completed mission is returned unchanged.
func (m Mission) WithProgress(progress int) Mission {
	if m.IsCompleted() {
		return m
	}
	if progress < 0 {
		progress = 0
	}
	if progress > m.Target {
		progress = m.Target
	}
	m.Progress = progress
	switch {
	case progress == m.Target:
		m.Status = MissionCompleted
	case progress > 0:
		m.Status = MissionInProgress
	default:
		m.Status = MissionPending
	}
	return m
}

// DailyMissionSet is one user's missions for one calendar day
type DailyMissionSet struct {
	Date           Date      `json:"id"`
	Missions       []Mission `json:"missions"`
	GeneratedAt    time.Time `json:"generatedAt"`
	LastUpdated    time.Time `json:"lastUpdated"`
	CompletedCount int       `json:"completedCount"`
	TotalCount     int       `json:"totalCount"`
}

// Find returns the index of the mission with the given id, or -1
func (s *DailyMissionSet) Find(missionID string) int {
	for i := range s.Missions {
		if s.Missions[i].ID == missionID {
			return i
		}
	}
	return -1
}

// Recount refreshes the derived counters
func (s *DailyMissionSet) Recount() {
	completed := 0
	for _, m := range s.Missions {
		if m.IsCompleted() {
			completed++
		}
	}
	s.CompletedCount = completed
	s.TotalCount = len(s.Missions)
}

// MissionsSummary aggregates a mission set for display
type MissionsSummary struct {
	Total      int     `json:"total"`
	Completed  int     `json:"completed"`
	Pending    int     `json:"pending"`
	Percentage float64 `json:"percentage"`
}

// Summary computes completion totals for the set
func (s *DailyMissionSet) Summary() MissionsSummary {
	summary := MissionsSummary{Total: len(s.Missions)}
	for _, m := range s.Missions {
		if m.IsCompleted() {
			summary.Completed++
		}
	}
	summary.Pending = summary.Total - summary.Completed
	if summary.Total > 0 {
		summary.Percentage = float64(summary.Completed) / float64(summary.Total) * 100
	}
	return summary
}
