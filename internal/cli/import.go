package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/reviewdesk/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import selections from JSON",
		Long:  "Import selections from stdin. Accepts the bare ledger format or the combined snapshot produced by export. Each (item, model) pair not already in the ledger is replayed through the selection service so the leaderboard stays consistent; pairs already present are skipped.",
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitErr("read stdin", err)
	}

	ledger, err := model.ParseLedger(data)
	if err != nil {
		exitErr("parse json", err)
	}

	svc, cleanup := openService(loadConfig(), newLogger())
	defer cleanup()

	imported, skipped, partials, err := svc.Import(cmd.Context(), ledger)
	if err != nil {
		exitErr("import", err)
	}

	fmt.Printf(`{"ok":true,"imported":%d,"skipped":%d,"partial":%d}`+"\n", imported, skipped, partials)
}
