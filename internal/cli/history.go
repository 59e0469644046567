package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent selection events",
		Run:   runHistory,
	}

	cmd.Flags().IntP("limit", "l", 50, "Max events")

	RootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	svc, cleanup := openService(loadConfig(), newLogger())
	defer cleanup()

	events, err := svc.History(cmd.Context(), limit)
	if err != nil {
		exitErr("history", err)
	}

	b, _ := json.MarshalIndent(events, "", "  ")
	fmt.Println(string(b))
}
