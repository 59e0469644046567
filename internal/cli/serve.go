package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/rcliao/reviewdesk/internal/config"
	"github.com/rcliao/reviewdesk/internal/corpus"
	"github.com/rcliao/reviewdesk/internal/web"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the comparison UI",
		Run:   runServe,
	}

	cmd.Flags().StringP("addr", "a", "", "Listen address (overrides config)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("addr")

	cfg := loadConfig()
	if addr != "" {
		cfg.ListenAddr = addr
	}

	logger := newLogger()
	svc, cleanup := openService(cfg, logger)
	defer cleanup()

	corpora := corpus.LoadSet(sources(cfg), logger)
	srv := web.New(svc, corpora, logger)

	logger.Info("serving comparison UI", "addr", cfg.ListenAddr, "models", cfg.ModelNames())
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Router()); err != nil {
		exitErr("serve", err)
	}
}

func sources(cfg config.Config) []corpus.Source {
	srcs := make([]corpus.Source, 0, len(cfg.Models))
	for _, m := range cfg.Models {
		srcs = append(srcs, corpus.Source{Name: m.Name, Path: m.CorpusPath})
	}
	return srcs
}
