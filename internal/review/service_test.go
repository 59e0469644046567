package review

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/reviewdesk/internal/model"
	"github.com/rcliao/reviewdesk/internal/store"
)

var seed = []string{"OpenAI", "DeepSeek", "LLaMA", "Qwen"}

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	ledger := store.NewLedgerFile(filepath.Join(dir, "comparison_results.json"), nil)
	stats := store.NewStatsFile(filepath.Join(dir, "selection_stats.json"), seed, nil)
	return NewService(ledger, stats, nil, nil)
}

func TestSelectScenarios(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	// First selection on an empty ledger.
	rec, stats, err := svc.Select(ctx, "e1", "OpenAI")
	require.NoError(t, err)
	assert.Equal(t, []string{"OpenAI"}, rec.SelectedModels)
	assert.Equal(t, 1, stats["OpenAI"])

	// Repeating it changes nothing.
	rec, stats, err = svc.Select(ctx, "e1", "OpenAI")
	require.NoError(t, err)
	assert.Equal(t, []string{"OpenAI"}, rec.SelectedModels)
	assert.Equal(t, 1, stats["OpenAI"])

	// A second model joins the same item's set.
	rec, stats, err = svc.Select(ctx, "e1", "DeepSeek")
	require.NoError(t, err)
	assert.Equal(t, []string{"OpenAI", "DeepSeek"}, rec.SelectedModels)
	assert.Equal(t, 1, stats["OpenAI"])
	assert.Equal(t, 1, stats["DeepSeek"])

	// A second item bumps the global counter.
	rec, stats, err = svc.Select(ctx, "e2", "OpenAI")
	require.NoError(t, err)
	assert.Equal(t, []string{"OpenAI"}, rec.SelectedModels)
	assert.Equal(t, 2, stats["OpenAI"])
}

func TestSelectValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, _, err := svc.Select(ctx, "", "OpenAI")
	assert.Error(t, err)

	_, _, err = svc.Select(ctx, "e1", "")
	assert.Error(t, err)
}

func TestStatsMonotonic(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	prev := 0
	calls := []struct{ item, model string }{
		{"e1", "OpenAI"}, {"e1", "OpenAI"}, {"e2", "OpenAI"},
		{"e2", "Qwen"}, {"e3", "OpenAI"}, {"e1", "OpenAI"},
	}
	for _, c := range calls {
		_, stats, err := svc.Select(ctx, c.item, c.model)
		require.NoError(t, err)
		require.GreaterOrEqual(t, stats["OpenAI"], prev, "counter must never decrease")
		prev = stats["OpenAI"]
	}
	assert.Equal(t, 3, prev)
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	selections, stats := svc.Snapshot(ctx)
	assert.Empty(t, selections)
	assert.Equal(t, 0, stats["OpenAI"])

	svc.Select(ctx, "e1", "OpenAI")
	svc.Select(ctx, "e2", "Qwen")

	selections, stats = svc.Snapshot(ctx)
	assert.Len(t, selections, 2)
	assert.True(t, selections["e1"].Has("OpenAI"))
	assert.Equal(t, 1, stats["Qwen"])
}

// failingStats fails every write; reads pass through.
type failingStats struct {
	store.StatsStore
}

func (f *failingStats) Increment(ctx context.Context, modelName string) (int, error) {
	return 0, fmt.Errorf("disk full")
}

func TestSelectPartialFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	ledger := store.NewLedgerFile(filepath.Join(dir, "comparison_results.json"), nil)
	stats := store.NewStatsFile(filepath.Join(dir, "selection_stats.json"), seed, nil)
	svc := NewService(ledger, &failingStats{StatsStore: stats}, nil, nil)

	rec, _, err := svc.Select(ctx, "e1", "OpenAI")

	var partial *PartialError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, []string{"OpenAI"}, rec.SelectedModels)
	assert.Equal(t, []string{"OpenAI"}, partial.Record.SelectedModels)

	// The ledger half of the operation is durable despite the error.
	persisted, _ := ledger.Load(ctx)
	assert.True(t, persisted["e1"].Has("OpenAI"))
}

func TestSelectLedgerFailureStopsStats(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	// Ledger path in a missing directory: every write fails.
	ledger := store.NewLedgerFile(filepath.Join(dir, "missing", "ledger.json"), nil)
	stats := store.NewStatsFile(filepath.Join(dir, "selection_stats.json"), seed, nil)
	svc := NewService(ledger, stats, nil, nil)

	_, _, err := svc.Select(ctx, "e1", "OpenAI")
	require.Error(t, err)

	var partial *PartialError
	assert.False(t, errors.As(err, &partial), "total failure must not look partial")

	loaded, _ := stats.Load(ctx)
	assert.Equal(t, 0, loaded["OpenAI"], "counter must not advance for an unrecorded selection")
}

func TestReconcileHealsDrift(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	ledger := store.NewLedgerFile(filepath.Join(dir, "comparison_results.json"), nil)
	stats := store.NewStatsFile(filepath.Join(dir, "selection_stats.json"), seed, nil)

	// Drive selections through a service whose stats backend drops
	// every write, leaving ledger and counters out of sync.
	broken := NewService(ledger, &failingStats{StatsStore: stats}, nil, nil)
	broken.Select(ctx, "e1", "OpenAI")
	broken.Select(ctx, "e1", "DeepSeek")
	broken.Select(ctx, "e2", "OpenAI")

	svc := NewService(ledger, stats, nil, nil)
	healed, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, healed["OpenAI"])
	assert.Equal(t, 1, healed["DeepSeek"])
	assert.Equal(t, 0, healed["Qwen"])

	// The healed table is persisted, not just returned.
	persisted, _ := stats.Load(ctx)
	assert.Equal(t, model.Stats{"OpenAI": 2, "DeepSeek": 1, "LLaMA": 0, "Qwen": 0}, persisted)
}

func TestImportCountsOnlyNewPairs(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	// e1/OpenAI is already in the ledger before the import.
	_, _, err := svc.Select(ctx, "e1", "OpenAI")
	require.NoError(t, err)

	imported, skipped, partials, err := svc.Import(ctx, model.Ledger{
		"e1": {SelectedModels: []string{"OpenAI", "DeepSeek"}},
		"e2": {SelectedModels: []string{"Qwen"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, imported, "only pairs that mutate the ledger count")
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 0, partials)

	_, stats := svc.Snapshot(ctx)
	assert.Equal(t, 1, stats["OpenAI"], "replaying an existing pair must not double count")
	assert.Equal(t, 1, stats["DeepSeek"])
	assert.Equal(t, 1, stats["Qwen"])
}

func TestImportDuplicatePairsInInput(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	imported, skipped, _, err := svc.Import(ctx, model.Ledger{
		"e1": {SelectedModels: []string{"OpenAI", "OpenAI"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 1, skipped)

	_, stats := svc.Snapshot(ctx)
	assert.Equal(t, 1, stats["OpenAI"])
}

func TestImportPartialsCounted(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	ledger := store.NewLedgerFile(filepath.Join(dir, "comparison_results.json"), nil)
	stats := store.NewStatsFile(filepath.Join(dir, "selection_stats.json"), seed, nil)
	svc := NewService(ledger, &failingStats{StatsStore: stats}, nil, nil)

	imported, _, partials, err := svc.Import(ctx, model.Ledger{
		"e1": {SelectedModels: []string{"OpenAI"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 1, partials)

	persisted, _ := ledger.Load(ctx)
	assert.True(t, persisted["e1"].Has("OpenAI"), "ledger half still lands on a partial")
}

func TestHistoryRecordsEvents(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	ledger := store.NewLedgerFile(filepath.Join(dir, "comparison_results.json"), nil)
	stats := store.NewStatsFile(filepath.Join(dir, "selection_stats.json"), seed, nil)
	history, err := store.NewHistoryLog(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	defer history.Close()

	svc := NewService(ledger, stats, history, nil)
	svc.Select(ctx, "e1", "OpenAI")
	svc.Select(ctx, "e1", "OpenAI")

	events, err := svc.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.False(t, events[0].NewlyAdded, "second select is a no-op")
	assert.True(t, events[1].NewlyAdded)
}
