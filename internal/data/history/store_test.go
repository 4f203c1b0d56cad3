// # internal/data/history/store_test.go
package history

import (
	"path/filepath"
	"testing"
	"time"

	"mainseq/internal/engine/metrics"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndReadBack(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveRun(RunRecord{
		ProjectKey:      "demo",
		CommitHash:      "abc123def456",
		TotalFiles:      12,
		AverageDistance: 0.31,
		MinDistance:     0.0,
		MaxDistance:     0.9,
		ZoneCounts: map[metrics.Zone]int{
			metrics.ZoneMainSequence: 8,
			metrics.ZonePain:         4,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("empty run id")
	}

	runs, err := store.RecentRuns("demo", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	got := runs[0]
	if got.RunID != id || got.TotalFiles != 12 || got.CommitHash != "abc123def456" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.ZoneCounts[metrics.ZonePain] != 4 {
		t.Errorf("pain count = %d, want 4", got.ZoneCounts[metrics.ZonePain])
	}
	if got.Timestamp.IsZero() {
		t.Error("timestamp not populated")
	}
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := store.SaveRun(RunRecord{
			ProjectKey: "demo",
			Timestamp:  base.Add(time.Duration(i) * time.Hour),
			TotalFiles: i,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.RecentRuns("demo", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("runs = %d, want 3", len(runs))
	}
	if runs[0].TotalFiles != 4 {
		t.Errorf("newest run first: got total_files = %d, want 4", runs[0].TotalFiles)
	}
}

func TestProjectsAreIsolated(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveRun(RunRecord{ProjectKey: "alpha"}); err != nil {
		t.Fatal(err)
	}
	runs, err := store.RecentRuns("beta", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("beta sees %d runs from alpha", len(runs))
	}
}

func TestOpenRejectsDirectory(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("directory accepted as database path")
	}
}
