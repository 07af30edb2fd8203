package userstats

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"

	"github.com/osse101/EcoQuest_Go/internal/domain"
	"github.com/osse101/EcoQuest_Go/internal/userstats/catalog"
	"github.com/osse101/EcoQuest_Go/internal/validation"
)

// Catalog is the static set of unlockables
type Catalog struct {
	Achievements []domain.Achievement `json:"achievements"`
	Badges       []domain.Badge       `json:"badges"`
	// Titles are ordered by ascending level
	Titles []domain.Title `json:"titles"`
}

// DefaultCatalog loads the catalog compiled into the binary
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(catalog.FS)
}

// LoadCatalog reads the catalog data files in fsys and validates them
// against the embedded schemas
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	schemas := validation.NewSchemaValidator(catalog.FS)
	c := &Catalog{}

	if err := loadList(fsys, schemas, catalog.AchievementsFile, catalog.AchievementsSchema, &c.Achievements); err != nil {
		return nil, err
	}
	if err := loadList(fsys, schemas, catalog.BadgesFile, catalog.BadgesSchema, &c.Badges); err != nil {
		return nil, err
	}
	if err := loadList(fsys, schemas, catalog.TitlesFile, catalog.TitlesSchema, &c.Titles); err != nil {
		return nil, err
	}

	if err := uniqueIDs(catalog.AchievementsFile, len(c.Achievements), func(i int) string { return c.Achievements[i].ID }); err != nil {
		return nil, err
	}
	if err := uniqueIDs(catalog.BadgesFile, len(c.Badges), func(i int) string { return c.Badges[i].ID }); err != nil {
		return nil, err
	}
	if err := uniqueIDs(catalog.TitlesFile, len(c.Titles), func(i int) string { return c.Titles[i].Title }); err != nil {
		return nil, err
	}
	sort.SliceStable(c.Titles, func(i, j int) bool { return c.Titles[i].Level < c.Titles[j].Level })
	return c, nil
}

func loadList[T any](fsys fs.FS, schemas validation.SchemaValidator, file, schema string, out *[]T) error {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgCatalogLoadFailed, file, err)
	}
	if err := schemas.ValidateBytes(data, schema); err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgCatalogInvalid, file, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgCatalogLoadFailed, file, err)
	}
	for i := range *out {
		if err := validation.Struct((*out)[i]); err != nil {
			return fmt.Errorf("%s %s[%d]: %w", ErrMsgCatalogInvalid, file, i, err)
		}
	}
	return nil
}

func uniqueIDs(file string, n int, id func(int) string) error {
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		if seen[id(i)] {
			return fmt.Errorf("%s %s: duplicate id %q", ErrMsgCatalogInvalid, file, id(i))
		}
		seen[id(i)] = true
	}
	return nil
}

// TitleForLevel returns the highest title whose level is at most level
func (c *Catalog) TitleForLevel(level int) (domain.Title, bool) {
	var best domain.Title
	found := false
	for _, t := range c.Titles {
		if t.Level > level {
			break
		}
		best, found = t, true
	}
	return best, found
}
