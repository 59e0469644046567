package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/rcliao/reviewdesk/internal/model"
)

// LedgerFile is the JSON-file SelectionStore. The on-disk format is an
// object keyed by item id:
//
//	{"<item_id>": {"selected_models": [...], "comparison_date": "<RFC3339>"}, ...}
//
// Every mutation reloads the file, applies the delta and rewrites the
// whole snapshot under the store mutex, so concurrent callers within the
// process cannot lose each other's updates.
type LedgerFile struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex
}

// NewLedgerFile returns a ledger store backed by the file at path. The
// file is created lazily on first write.
func NewLedgerFile(path string, logger *slog.Logger) *LedgerFile {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerFile{path: path, logger: logger}
}

// Load implements SelectionStore.
func (s *LedgerFile) Load(ctx context.Context) (model.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

// load reads the current snapshot. Callers must hold s.mu.
func (s *LedgerFile) load() model.Ledger {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("ledger unreadable, starting empty", "path", s.path, "error", err)
		}
		return model.Ledger{}
	}

	var ledger model.Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		s.logger.Warn("ledger corrupt, starting empty", "path", s.path, "error", err)
		return model.Ledger{}
	}
	if ledger == nil {
		ledger = model.Ledger{}
	}
	return ledger
}

// Record implements SelectionStore. The no-op path (model already
// selected) returns the current record without touching the file.
func (s *LedgerFile) Record(ctx context.Context, itemID, modelName string) (model.SelectionRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.load()
	rec := ledger[itemID]
	if rec.Has(modelName) {
		return rec.Clone(), false, nil
	}

	rec = rec.Clone()
	rec.SelectedModels = append(rec.SelectedModels, modelName)
	rec.ComparisonDate = time.Now().UTC()
	ledger[itemID] = rec

	if err := writeSnapshot(s.path, ledger); err != nil {
		return model.SelectionRecord{}, false, fmt.Errorf("persist ledger: %w", err)
	}
	return rec.Clone(), true, nil
}
