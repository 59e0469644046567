package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcliao/reviewdesk/internal/model"
)

var testSeed = []string{"OpenAI", "DeepSeek", "LLaMA", "Qwen"}

func newTestStats(t *testing.T) (*StatsFile, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "selection_stats.json")
	return NewStatsFile(path, testSeed, nil), path
}

func TestStatsLoadMissingFileSeedsZero(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStats(t)

	stats, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(stats) != len(testSeed) {
		t.Fatalf("expected %d seeded models, got %d", len(testSeed), len(stats))
	}
	for _, name := range testSeed {
		if n, ok := stats[name]; !ok || n != 0 {
			t.Errorf("expected %s seeded at 0, got %d (present=%v)", name, n, ok)
		}
	}
}

func TestStatsIncrement(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStats(t)

	n, err := s.Increment(ctx, "OpenAI")
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1, got %d", n)
	}

	n, _ = s.Increment(ctx, "OpenAI")
	if n != 2 {
		t.Errorf("expected 2, got %d", n)
	}

	stats, _ := s.Load(ctx)
	if stats["OpenAI"] != 2 {
		t.Errorf("expected persisted count 2, got %d", stats["OpenAI"])
	}
	if stats["Qwen"] != 0 {
		t.Errorf("expected Qwen untouched at 0, got %d", stats["Qwen"])
	}
}

func TestStatsIncrementUnknownModel(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStats(t)

	n, err := s.Increment(ctx, "Mistral")
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	if n != 1 {
		t.Errorf("expected unknown model to start at 1, got %d", n)
	}

	stats, _ := s.Load(ctx)
	if stats["Mistral"] != 1 {
		t.Errorf("expected Mistral=1, got %d", stats["Mistral"])
	}
}

func TestStatsCorruptFileFallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStats(t)

	s.Increment(ctx, "OpenAI")
	if err := os.WriteFile(path, []byte("]["), 0o644); err != nil {
		t.Fatal(err)
	}

	stats, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stats["OpenAI"] != 0 {
		t.Errorf("corrupt file should fall back to seed, got OpenAI=%d", stats["OpenAI"])
	}
}

func TestStatsReplace(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStats(t)

	s.Increment(ctx, "OpenAI")
	s.Increment(ctx, "OpenAI")
	s.Increment(ctx, "OpenAI")

	err := s.Replace(ctx, model.Stats{"OpenAI": 1, "DeepSeek": 2})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	stats, _ := s.Load(ctx)
	if stats["OpenAI"] != 1 || stats["DeepSeek"] != 2 {
		t.Errorf("unexpected stats after replace: %v", stats)
	}
	// Seed survives a replace that omits it.
	if n, ok := stats["LLaMA"]; !ok || n != 0 {
		t.Errorf("expected LLaMA reseeded at 0, got %d (present=%v)", n, ok)
	}
}

func TestStatsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStats(t)

	s.Increment(ctx, "OpenAI")
	s.Increment(ctx, "Qwen")
	s.Increment(ctx, "Qwen")

	reopened := NewStatsFile(path, testSeed, nil)
	stats, _ := reopened.Load(ctx)
	if stats["OpenAI"] != 1 || stats["Qwen"] != 2 || stats["DeepSeek"] != 0 {
		t.Errorf("round trip lost counts: %v", stats)
	}
}
