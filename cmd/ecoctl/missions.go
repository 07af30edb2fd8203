package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/osse101/EcoQuest_Go/internal/mission"
)

func init() {
	rootCmd.AddCommand(missionsCmd)
	missionsCmd.AddCommand(missionsPreviewCmd)

	missionsPreviewCmd.Flags().IntP("count", "n", mission.DefaultMissionCount, "Number of missions to generate")
	missionsPreviewCmd.Flags().Int64("seed", 0, "Random seed (0 picks one from the clock)")
}

var missionsCmd = &cobra.Command{
	Use:   "missions",
	Short: "Inspect daily mission generation",
}

var missionsPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print a sample daily mission set as JSON",
	Long:  `Generates missions with the server's generator without touching any store.`,
	Args:  cobra.NoArgs,
	RunE:  runMissionsPreview,
}

func runMissionsPreview(cmd *cobra.Command, _ []string) error {
	count, _ := cmd.Flags().GetInt("count")
	seed, _ := cmd.Flags().GetInt64("seed")
	if count < 1 {
		return fmt.Errorf("count must be positive, got %d", count)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rnd := rand.New(rand.NewSource(seed)) //nolint:gosec
	gen := mission.NewGenerator(rnd.Float64, nil)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(gen.Generate(count, time.Now()))
}
