package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute the leaderboard from the ledger",
		Long:  "Recompute the per-model counters from the selection ledger and persist the result. Heals drift left behind when a stats write failed after a successful ledger write.",
		Run:   runReconcile,
	}

	RootCmd.AddCommand(cmd)
}

func runReconcile(cmd *cobra.Command, args []string) {
	svc, cleanup := openService(loadConfig(), newLogger())
	defer cleanup()

	stats, err := svc.Reconcile(cmd.Context())
	if err != nil {
		exitErr("reconcile", err)
	}

	b, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(b))
}
