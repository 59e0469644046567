package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all selections and the leaderboard as JSON",
		Long:  "Export the combined snapshot: the full selection ledger plus the per-model counters. The output is accepted by import.",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	svc, cleanup := openService(loadConfig(), newLogger())
	defer cleanup()

	selections, stats := svc.Snapshot(cmd.Context())

	b, _ := json.MarshalIndent(map[string]any{
		"selections": selections,
		"stats":      stats,
	}, "", "  ")
	fmt.Println(string(b))
}
