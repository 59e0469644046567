package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// Event is one entry in the selection history: a single reviewer action
// and how far it got. The history is an audit trail, not a source of
// truth; the ledger and stats files stay authoritative.
type Event struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"item_id"`
	Model       string    `json:"model"`
	NewlyAdded  bool      `json:"newly_added"`
	StatsOK     bool      `json:"stats_ok"`
	StatsError  string    `json:"stats_error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HistoryLog records selection events in SQLite. Safe for concurrent
// use; selects may arrive in parallel from the HTTP surface.
type HistoryLog struct {
	db *sql.DB
}

// NewHistoryLog opens or creates the history database at the given path.
func NewHistoryLog(dbPath string) (*HistoryLog, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	h := &HistoryLog{db: db}

	if err := h.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return h, nil
}

func (h *HistoryLog) newID() string {
	// ulid.Make reads the package-level locked entropy source, so ids
	// can be minted from concurrent Appends.
	return ulid.Make().String()
}

func (h *HistoryLog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS selection_events (
		id          TEXT PRIMARY KEY,
		item_id     TEXT NOT NULL,
		model       TEXT NOT NULL,
		newly_added INTEGER NOT NULL,
		stats_ok    INTEGER NOT NULL,
		stats_error TEXT,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_item ON selection_events(item_id);
	CREATE INDEX IF NOT EXISTS idx_events_created ON selection_events(created_at DESC);
	`
	_, err := h.db.Exec(schema)
	return err
}

// Append records one event and returns it with id and timestamp filled.
func (h *HistoryLog) Append(ctx context.Context, ev Event) (Event, error) {
	ev.ID = h.newID()
	ev.CreatedAt = time.Now().UTC()

	var statsErr *string
	if ev.StatsError != "" {
		statsErr = &ev.StatsError
	}

	_, err := h.db.ExecContext(ctx,
		`INSERT INTO selection_events (id, item_id, model, newly_added, stats_ok, stats_error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.ItemID, ev.Model, boolInt(ev.NewlyAdded), boolInt(ev.StatsOK),
		statsErr, ev.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Event{}, fmt.Errorf("insert event: %w", err)
	}
	return ev, nil
}

// Recent returns up to limit events, newest first.
func (h *HistoryLog) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := h.db.QueryContext(ctx,
		`SELECT id, item_id, model, newly_added, stats_ok, stats_error, created_at
		 FROM selection_events ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		var newlyAdded, statsOK int
		var statsErr sql.NullString
		var createdAt string
		if err := rows.Scan(&ev.ID, &ev.ItemID, &ev.Model, &newlyAdded, &statsOK, &statsErr, &createdAt); err != nil {
			return nil, err
		}
		ev.NewlyAdded = newlyAdded != 0
		ev.StatsOK = statsOK != 0
		ev.StatsError = statsErr.String
		ev.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Close closes the history database.
func (h *HistoryLog) Close() error {
	return h.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
