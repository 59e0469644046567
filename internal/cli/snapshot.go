package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Show all selections and the current leaderboard",
		Run:   runSnapshot,
	}

	RootCmd.AddCommand(cmd)
}

func runSnapshot(cmd *cobra.Command, args []string) {
	svc, cleanup := openService(loadConfig(), newLogger())
	defer cleanup()

	selections, stats := svc.Snapshot(cmd.Context())

	b, _ := json.MarshalIndent(map[string]any{
		"selections": selections,
		"stats":      stats,
	}, "", "  ")
	fmt.Println(string(b))
}
