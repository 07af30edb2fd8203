package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osse101/EcoQuest_Go/internal/config"
	"github.com/osse101/EcoQuest_Go/internal/database"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending remote store migrations",
	Long:  `Applies the embedded goose migrations to the Postgres document store.`,
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.RemoteBackend != config.BackendPostgres {
		return fmt.Errorf("migrate needs REMOTE_BACKEND=%s, got %q", config.BackendPostgres, cfg.RemoteBackend)
	}
	if err := database.Migrate(cmd.Context(), cfg.GetDBConnString()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ migrations applied")
	return nil
}
