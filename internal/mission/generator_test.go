package mission

import (
	"fmt"
	"math/rand"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/EcoQuest_Go/internal/domain"
)

func fixedRnd(v float64) func() float64 {
	return func() float64 { return v }
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("m%d", n)
	}
}

func TestGenerator_Generate_Count(t *testing.T) {
	g := NewGenerator(nil, nil)
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	for _, n := range []int{0, 1, 5, 12} {
		missions := g.Generate(n, now)
		assert.Len(t, missions, n)
	}
	assert.Empty(t, g.Generate(-3, now))
}

func TestGenerator_Generate_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42)) //nolint:gosec
	g := NewGenerator(rng.Float64, nil)
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	seen := map[string]bool{}
	for _, m := range g.Generate(500, now) {
		require.False(t, seen[m.ID], "ids must be unique")
		seen[m.ID] = true

		assert.Equal(t, domain.MissionPending, m.Status)
		assert.Zero(t, m.Progress)
		assert.Equal(t, now, m.AssignedAt)
		assert.Equal(t, now.AddDate(0, 0, 1), m.ExpiresAt)
		assert.GreaterOrEqual(t, m.XP, m.Target*MinXPPerUnit)
		assert.LessOrEqual(t, m.XP, m.Target*MaxXPPerUnit)
		assert.Zero(t, m.XP%m.Target, "xp is a whole multiple of the target")

		switch m.Type {
		case domain.MissionMaterialRecycle:
			assert.Contains(t, generatedMaterials, m.Material)
			assert.Empty(t, m.Item)
			assert.True(t, m.Target >= 1 && m.Target <= MaxMaterialTarget)
		case domain.MissionItemCategory:
			assert.Contains(t, itemsByMaterial[m.Material], m.Item)
			assert.True(t, m.Target >= 1 && m.Target <= MaxItemTarget)
		case domain.MissionCountRecycle:
			assert.Empty(t, m.Material)
			assert.True(t, m.Target >= 1 && m.Target <= MaxCountTarget)
		default:
			t.Fatalf("unexpected mission type %q", m.Type)
		}
	}
}

func TestGenerator_Generate_ExpiresSameWallClockAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	g := NewGenerator(fixedRnd(0.5), sequentialIDs())

	// Clocks spring forward on 2024-03-10, so that day is 23 hours long
	now := time.Date(2024, 3, 9, 9, 30, 0, 0, loc)
	m := g.Generate(1, now)[0]

	assert.Equal(t, time.Date(2024, 3, 10, 9, 30, 0, 0, loc), m.ExpiresAt)
	assert.Equal(t, 23*time.Hour, m.ExpiresAt.Sub(now))
}

func TestGenerator_Generate_Extremes(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rnd  float64
		want domain.Mission
	}{
		{
			name: "lowest roll",
			rnd:  0,
			want: domain.Mission{Type: domain.MissionMaterialRecycle, Material: domain.MaterialGlass, Target: 1, XP: 5},
		},
		{
			name: "middle roll",
			rnd:  0.5,
			want: domain.Mission{Type: domain.MissionItemCategory, Material: domain.MaterialOrganic, Item: "cascara", Target: 3, XP: 39},
		},
		{
			name: "highest roll",
			rnd:  0.9999,
			want: domain.Mission{Type: domain.MissionCountRecycle, Target: 8, XP: 160},
		},
		{
			name: "out of range roll is clamped",
			rnd:  1,
			want: domain.Mission{Type: domain.MissionCountRecycle, Target: 8, XP: 160},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(fixedRnd(tt.rnd), sequentialIDs())
			got := g.Generate(1, now)[0]
			assert.Equal(t, "m1", got.ID)
			assert.Equal(t, tt.want.Type, got.Type)
			assert.Equal(t, tt.want.Material, got.Material)
			assert.Equal(t, tt.want.Item, got.Item)
			assert.Equal(t, tt.want.Target, got.Target)
			assert.Equal(t, tt.want.XP, got.XP)
		})
	}
}
