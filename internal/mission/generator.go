package mission

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/EcoQuest_Go/internal/domain"
)

// itemsByMaterial lists the objects an item_category mission may ask for
var itemsByMaterial = map[string][]string{
	domain.MaterialGlass:     {"botella", "espejo"},
	domain.MaterialPlastic:   {"envase", "bolsa"},
	domain.MaterialPaper:     {"hoja", "cuaderno"},
	domain.MaterialOrganic:   {"restos de comida", "cascara"},
	domain.MaterialAluminium: {"lata", "envoltorio"},
	domain.MaterialCardboard: {"caja", "tubo"},
}

// generatedMaterials are the materials missions are drawn from. Electronics are
// recordable but never assigned as a mission.
var generatedMaterials = []string{
	domain.MaterialGlass,
	domain.MaterialPlastic,
	domain.MaterialPaper,
	domain.MaterialOrganic,
	domain.MaterialAluminium,
	domain.MaterialCardboard,
}

var missionTypes = []domain.MissionType{
	domain.MissionMaterialRecycle,
	domain.MissionItemCategory,
	domain.MissionCountRecycle,
}

// Generator builds random daily missions
type Generator struct {
	rnd   func() float64
	newID func() string
}

// NewGenerator creates a generator. Nil arguments fall back to math/rand and uuid.
func NewGenerator(rnd func() float64, newID func() string) *Generator {
	if rnd == nil {
		rnd = rand.Float64 //nolint:gosec
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &Generator{rnd: rnd, newID: newID}
}

// Generate returns exactly n fresh missions assigned at now and expiring a day later
func (g *Generator) Generate(n int, now time.Time) []domain.Mission {
	if n < 0 {
		n = 0
	}
	missions := make([]domain.Mission, 0, n)
	for i := 0; i < n; i++ {
		missions = append(missions, g.one(now))
	}
	return missions
}

func (g *Generator) one(now time.Time) domain.Mission {
	m := domain.Mission{
		ID:         g.newID(),
		Type:       missionTypes[g.intn(len(missionTypes))],
		Status:     domain.MissionPending,
		AssignedAt: now,
		ExpiresAt:  now.AddDate(0, 0, 1),
	}

	switch m.Type {
	case domain.MissionMaterialRecycle:
		m.Material = g.pick(generatedMaterials)
		m.Target = g.between(MinTarget, MaxMaterialTarget)
	case domain.MissionItemCategory:
		m.Material = g.pick(generatedMaterials)
		m.Item = g.pick(itemsByMaterial[m.Material])
		m.Target = g.between(MinTarget, MaxItemTarget)
	default:
		m.Target = g.between(MinTarget, MaxCountTarget)
	}
	m.XP = m.Target * g.between(MinXPPerUnit, MaxXPPerUnit)
	return m
}

// intn returns a value in [0, n)
func (g *Generator) intn(n int) int {
	i := int(g.rnd() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// between returns a value in [lo, hi]
func (g *Generator) between(lo, hi int) int {
	return lo + g.intn(hi-lo+1)
}

func (g *Generator) pick(options []string) string {
	return options[g.intn(len(options))]
}
