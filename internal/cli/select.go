package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/reviewdesk/internal/review"
)

func init() {
	cmd := &cobra.Command{
		Use:   "select <item-id> <model>",
		Short: "Record that a model's output was judged best for an item",
		Args:  cobra.ExactArgs(2),
		Run:   runSelect,
	}

	RootCmd.AddCommand(cmd)
}

func runSelect(cmd *cobra.Command, args []string) {
	itemID, modelName := args[0], args[1]

	logger := newLogger()
	svc, cleanup := openService(loadConfig(), logger)
	defer cleanup()

	rec, stats, err := svc.Select(cmd.Context(), itemID, modelName)

	var partial *review.PartialError
	switch {
	case err == nil:
	case errors.As(err, &partial):
		fmt.Fprintf(os.Stderr, "warning: %v (run reconcile to heal the counter)\n", partial)
	default:
		exitErr("select", err)
	}

	out := map[string]any{
		"item_id": itemID,
		"record":  rec,
		"stats":   stats,
	}
	if partial != nil {
		out["partial"] = true
	}
	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}
