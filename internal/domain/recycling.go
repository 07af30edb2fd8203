package domain

import "time"

// Material keys as produced by the image classifier
const (
	MaterialGlass      = "vidrio"
	MaterialPlastic    = "plastico"
	MaterialPaper      = "papel"
	MaterialOrganic    = "organico"
	MaterialAluminium  = "aluminio"
	MaterialCardboard  = "carton"
	MaterialElectronic = "electronicos"
)

// Materials lists every material a recycling record may carry
var Materials = []string{
	MaterialCardboard,
	MaterialPaper,
	MaterialGlass,
	MaterialAluminium,
	MaterialPlastic,
	MaterialOrganic,
	MaterialElectronic,
}

// IsMaterial reports whether s is a known material key
func IsMaterial(s string) bool {
	for _, m := range Materials {
		if m == s {
			return true
		}
	}
	return false
}

// Confidence levels reported by the classifier
const (
	ConfidenceHigh   = "alta"
	ConfidenceMedium = "media"
	ConfidenceLow    = "baja"
)

// RecycleRecord is one recycled item in a user's history
type RecycleRecord struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Material   string    `json:"tipo"`
	Item       string    `json:"objeto,omitempty"`
	Confidence string    `json:"confianza,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RecyclingStats summarises a user's recycling history
type RecyclingStats struct {
	Total     int            `json:"total"`
	ByType    map[string]int `json:"byType"`
	Today     int            `json:"today"`
	ThisWeek  int            `json:"thisWeek"`
	ThisMonth int            `json:"thisMonth"`
}
