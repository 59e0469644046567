// Package cli implements the reviewdesk CLI commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/reviewdesk/internal/config"
	"github.com/rcliao/reviewdesk/internal/review"
	"github.com/rcliao/reviewdesk/internal/store"
)

var configPath string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "reviewdesk",
	Short: "Compare model analysis outputs and keep a selection ledger",
	Long:  "A reviewer tool for comparing per-model email analysis outputs. Selections and the per-model leaderboard persist as JSON snapshots on disk.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config path (default: $REVIEWDESK_CONFIG or reviewdesk.yaml)")
}

func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("REVIEWDESK_CONFIG"); env != "" {
		return env
	}
	return "reviewdesk.yaml"
}

func loadConfig() config.Config {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		exitErr("load config", err)
	}
	return cfg
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// openService wires the stores behind a selection service. The returned
// cleanup closes the history log; a history open failure is downgraded
// to a warning since the audit trail is best-effort.
func openService(cfg config.Config, logger *slog.Logger) (*review.Service, func()) {
	ledger := store.NewLedgerFile(cfg.LedgerPath, logger)
	stats := store.NewStatsFile(cfg.StatsPath, cfg.ModelNames(), logger)

	history, err := store.NewHistoryLog(cfg.HistoryDBPath)
	if err != nil {
		logger.Warn("history log unavailable", "path", cfg.HistoryDBPath, "error", err)
		history = nil
	}

	svc := review.NewService(ledger, stats, history, logger)
	cleanup := func() {
		if history != nil {
			history.Close()
		}
	}
	return svc, cleanup
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
