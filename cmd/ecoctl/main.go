package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const appName = "ecoquest"

var rootCmd = &cobra.Command{
	Use:   "ecoctl",
	Short: "Operator commands for the EcoQuest service",
	Long: `ecoctl runs maintenance tasks against the stores configured for the
EcoQuest service. It reads the same environment variables (and .env file)
as the server.`,
	SilenceUsage: true,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
