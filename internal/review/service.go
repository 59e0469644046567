// Package review implements the selection service: the single write
// path that keeps the ledger and the stats table consistent.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/rcliao/reviewdesk/internal/model"
	"github.com/rcliao/reviewdesk/internal/store"
)

// PartialError reports a selection that was durably recorded in the
// ledger while the stats update failed. The reviewer's intent was
// partially honored; Reconcile (or the next successful write) heals the
// counter. Record holds the successfully persisted state.
type PartialError struct {
	Record model.SelectionRecord
	Err    error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("selection recorded but stats update failed: %v", e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// Service is the only component allowed to mutate both stores. Going
// around it breaks the ledger/stats invariant.
type Service struct {
	ledger  store.SelectionStore
	stats   store.StatsStore
	history *store.HistoryLog // optional
	logger  *slog.Logger
}

// NewService wires the service. history may be nil; the audit trail is
// best-effort and never fails a selection.
func NewService(ledger store.SelectionStore, stats store.StatsStore, history *store.HistoryLog, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{ledger: ledger, stats: stats, history: history, logger: logger}
}

// Select records that the reviewer judged modelName best for itemID and
// bumps the model's counter iff the selection is new. Returns the fresh
// record and the fresh stats table so the caller can re-render.
//
// A ledger failure aborts the whole operation before stats are touched.
// A stats failure after a successful ledger write returns *PartialError.
func (s *Service) Select(ctx context.Context, itemID, modelName string) (model.SelectionRecord, model.Stats, error) {
	if itemID == "" {
		return model.SelectionRecord{}, nil, fmt.Errorf("item id is required")
	}
	if modelName == "" {
		return model.SelectionRecord{}, nil, fmt.Errorf("model name is required")
	}

	rec, added, err := s.ledger.Record(ctx, itemID, modelName)
	if err != nil {
		return model.SelectionRecord{}, nil, fmt.Errorf("record selection: %w", err)
	}

	var statsErr error
	if added {
		if _, statsErr = s.stats.Increment(ctx, modelName); statsErr != nil {
			s.logger.Error("stats increment failed after ledger write",
				"item", itemID, "model", modelName, "error", statsErr)
		}
	}

	s.audit(ctx, itemID, modelName, added, statsErr)

	stats, _ := s.stats.Load(ctx)
	if statsErr != nil {
		return rec, stats, &PartialError{Record: rec, Err: statsErr}
	}
	return rec, stats, nil
}

// Snapshot returns all selections and all stats for display. The read
// path never fails: both stores degrade to defaults on their own.
func (s *Service) Snapshot(ctx context.Context) (model.Ledger, model.Stats) {
	ledger, _ := s.ledger.Load(ctx)
	stats, _ := s.stats.Load(ctx)
	return ledger, stats
}

// Reconcile recomputes the stats table from the ledger (distinct items
// per model) and persists it, healing any drift left behind by a
// partial application.
func (s *Service) Reconcile(ctx context.Context) (model.Stats, error) {
	ledger, _ := s.ledger.Load(ctx)

	recounted := model.Stats{}
	for _, rec := range ledger {
		for _, name := range rec.SelectedModels {
			recounted[name]++
		}
	}

	if err := s.stats.Replace(ctx, recounted); err != nil {
		return nil, fmt.Errorf("reconcile stats: %w", err)
	}

	stats, _ := s.stats.Load(ctx)
	return stats, nil
}

// Import replays the given ledger through Select, one (item, model)
// pair at a time, so the leaderboard stays consistent with what
// actually lands. Pairs already present are skipped and not counted as
// imported. A ledger write failure aborts the import; stats failures
// are tallied as partials and the import continues.
func (s *Service) Import(ctx context.Context, ledger model.Ledger) (imported, skipped, partials int, err error) {
	current, _ := s.ledger.Load(ctx)

	ids := make([]string, 0, len(ledger))
	for id := range ledger {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		for _, name := range ledger[id].SelectedModels {
			if current[id].Has(name) {
				skipped++
				continue
			}

			rec, _, serr := s.Select(ctx, id, name)
			var partial *PartialError
			switch {
			case serr == nil:
				imported++
			case errors.As(serr, &partial):
				imported++
				partials++
			default:
				return imported, skipped, partials, serr
			}
			current[id] = rec
		}
	}
	return imported, skipped, partials, nil
}

// History returns the most recent selection events, newest first. An
// empty slice when no history log is configured.
func (s *Service) History(ctx context.Context, limit int) ([]store.Event, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.Recent(ctx, limit)
}

func (s *Service) audit(ctx context.Context, itemID, modelName string, added bool, statsErr error) {
	if s.history == nil {
		return
	}
	ev := store.Event{
		ItemID:     itemID,
		Model:      modelName,
		NewlyAdded: added,
		StatsOK:    statsErr == nil,
	}
	if statsErr != nil {
		ev.StatsError = statsErr.Error()
	}
	if _, err := s.history.Append(ctx, ev); err != nil {
		s.logger.Warn("history append failed", "item", itemID, "model", modelName, "error", err)
	}
}
