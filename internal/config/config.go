// Package config loads reviewdesk configuration from YAML with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/reviewdesk/internal/model"
)

// ModelSource names one analysis model and the JSON corpus of its outputs.
type ModelSource struct {
	Name       string `yaml:"name"`
	CorpusPath string `yaml:"corpus_path"`
}

// Config holds all file locations and the model set under review.
type Config struct {
	LedgerPath    string `yaml:"ledger_path"`
	StatsPath     string `yaml:"stats_path"`
	HistoryDBPath string `yaml:"history_db_path"`
	ListenAddr    string `yaml:"listen_addr"`

	Models []ModelSource `yaml:"models"`
}

// Default returns the built-in configuration: files in the working
// directory, the seeded model set, corpora named after each model.
func Default() Config {
	cfg := Config{
		LedgerPath:    "comparison_results.json",
		StatsPath:     "selection_stats.json",
		HistoryDBPath: "review_history.db",
		ListenAddr:    ":8378",
	}
	for _, name := range model.DefaultModels {
		cfg.Models = append(cfg.Models, ModelSource{
			Name:       name,
			CorpusPath: fmt.Sprintf("analyzed_emails_%s.json", strings.ToLower(name)),
		})
	}
	return cfg
}

// Load reads the config file at path, falling back to Default when the
// file does not exist. An explicitly provided but unparsable file is an
// error. Environment variables override file values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults apply.
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	if v := os.Getenv("REVIEWDESK_LEDGER"); v != "" {
		cfg.LedgerPath = v
	}
	if v := os.Getenv("REVIEWDESK_STATS"); v != "" {
		cfg.StatsPath = v
	}
	if v := os.Getenv("REVIEWDESK_HISTORY_DB"); v != "" {
		cfg.HistoryDBPath = v
	}
	if v := os.Getenv("REVIEWDESK_ADDR"); v != "" {
		cfg.ListenAddr = v
	}

	if len(cfg.Models) == 0 {
		return Config{}, fmt.Errorf("%s: at least one model is required", path)
	}
	for i, m := range cfg.Models {
		if m.Name == "" {
			return Config{}, fmt.Errorf("%s: models[%d] has no name", path, i)
		}
	}

	return cfg, nil
}

// ModelNames returns the configured model names in declaration order.
func (c Config) ModelNames() []string {
	names := make([]string, 0, len(c.Models))
	for _, m := range c.Models {
		names = append(names, m.Name)
	}
	return names
}
