package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/rcliao/reviewdesk/internal/model"
)

// StatsFile is the JSON-file StatsStore. On-disk format is a flat object
// of model name to count:
//
//	{"<model_name>": <count>, ...}
//
// Known models from the seed are always present in loaded tables, at
// zero when never selected; models found on disk but not in the seed are
// kept as-is.
type StatsFile struct {
	path   string
	seed   []string
	logger *slog.Logger

	mu sync.Mutex
}

// NewStatsFile returns a stats store backed by the file at path, seeded
// with the given known model names.
func NewStatsFile(path string, seed []string, logger *slog.Logger) *StatsFile {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsFile{path: path, seed: seed, logger: logger}
}

// Load implements StatsStore.
func (s *StatsFile) Load(ctx context.Context) (model.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

// load reads the current table, seeded defaults overlaid with whatever
// the file holds. Callers must hold s.mu.
func (s *StatsFile) load() model.Stats {
	stats := s.seeded()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("stats unreadable, using seeded defaults", "path", s.path, "error", err)
		}
		return stats
	}

	var persisted model.Stats
	if err := json.Unmarshal(data, &persisted); err != nil {
		s.logger.Warn("stats corrupt, using seeded defaults", "path", s.path, "error", err)
		return stats
	}
	for name, n := range persisted {
		stats[name] = n
	}
	return stats
}

func (s *StatsFile) seeded() model.Stats {
	stats := make(model.Stats, len(s.seed))
	for _, name := range s.seed {
		stats[name] = 0
	}
	return stats
}

// Increment implements StatsStore.
func (s *StatsFile) Increment(ctx context.Context, modelName string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.load()
	stats[modelName]++

	if err := writeSnapshot(s.path, stats); err != nil {
		return 0, fmt.Errorf("persist stats: %w", err)
	}
	return stats[modelName], nil
}

// Replace implements StatsStore.
func (s *StatsFile) Replace(ctx context.Context, stats model.Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.seeded()
	for name, n := range stats {
		merged[name] = n
	}
	if err := writeSnapshot(s.path, merged); err != nil {
		return fmt.Errorf("persist stats: %w", err)
	}
	return nil
}
