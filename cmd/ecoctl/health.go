package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const defaultBaseURL = "http://localhost:8080"

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().String("url", defaultBaseURL, "Base URL of the running server")
	healthCmd.Flags().Bool("ready", false, "Check /readyz (store connectivity) instead of /healthz")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that a running " + appName + " server responds",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func runHealth(cmd *cobra.Command, _ []string) error {
	base, _ := cmd.Flags().GetString("url")
	ready, _ := cmd.Flags().GetBool("ready")

	path := "/healthz"
	if ready {
		path = "/readyz"
	}
	url := strings.TrimRight(base, "/") + path

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("server not reachable at %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d %s", path, resp.StatusCode, body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d", path, resp.StatusCode)
	}
	return nil
}
