package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show how many times each model has been selected",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	svc, cleanup := openService(loadConfig(), newLogger())
	defer cleanup()

	_, stats := svc.Snapshot(cmd.Context())

	b, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(b))
}
