package bootstrap

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/osse101/EcoQuest_Go/internal/userstats"
)

// LoadCatalog reads the unlockables catalog from dir, or the built-in one
// when dir is empty. The catalog is validated against its JSON schemas.
func LoadCatalog(dir string) (*userstats.Catalog, error) {
	var (
		catalog *userstats.Catalog
		err     error
		source  = "embedded"
	)
	if dir == "" {
		catalog, err = userstats.DefaultCatalog()
	} else {
		source = dir
		catalog, err = userstats.LoadCatalog(os.DirFS(dir))
	}
	if err != nil {
		return nil, fmt.Errorf("%s from %s: %w", ErrMsgFailedLoadCatalog, source, err)
	}

	slog.Info(LogMsgCatalogLoaded,
		"source", source,
		"achievements", len(catalog.Achievements),
		"badges", len(catalog.Badges),
		"titles", len(catalog.Titles))
	return catalog, nil
}
