// Package catalog embeds the static achievement, badge and title definitions
// together with the JSON schemas they are checked against at load time.
package catalog

import "embed"

// File names within FS
const (
	AchievementsFile   = "achievements.json"
	BadgesFile         = "badges.json"
	TitlesFile         = "titles.json"
	AchievementsSchema = "achievements.schema.json"
	BadgesSchema       = "badges.schema.json"
	TitlesSchema       = "titles.schema.json"
)

// FS holds the catalog data and schema files
//
//go:embed *.json
var FS embed.FS
