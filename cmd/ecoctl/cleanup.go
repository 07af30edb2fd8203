package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osse101/EcoQuest_Go/internal/bootstrap"
	"github.com/osse101/EcoQuest_Go/internal/clock"
	"github.com/osse101/EcoQuest_Go/internal/config"
	"github.com/osse101/EcoQuest_Go/internal/event"
	"github.com/osse101/EcoQuest_Go/internal/worker"
)

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Prune expired local cache entries once",
	Long: `Runs the same job the server schedules: drops cached mission sets older
than LOCAL_RETENTION_DAYS and expired recycling cache entries.`,
	Args: cobra.NoArgs,
	RunE: runCleanup,
}

func runCleanup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	bootstrap.SetupLogger(cfg)

	ctx := cmd.Context()
	stores, err := bootstrap.InitializeStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	catalog, err := bootstrap.LoadCatalog(cfg.CatalogDir)
	if err != nil {
		return err
	}
	svcs := bootstrap.InitializeServices(stores, catalog, event.NewMemoryBus(), clock.NewRealClock(), cfg)

	if err := worker.NewCleanupJob(svcs.Missions, svcs.Recycling).Process(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ cleanup finished")
	return nil
}
