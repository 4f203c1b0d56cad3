// # internal/data/history/store.go

// Package history persists per-run summary snapshots to sqlite so trend
// reports can compare design balance across commits.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"mainseq/internal/engine/metrics"
)

const (
	driverName    = "sqlite"
	SchemaVersion = 1
)

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

// RunRecord is one persisted analysis run.
type RunRecord struct {
	RunID           string
	ProjectKey      string
	Timestamp       time.Time
	CommitHash      string
	CommitTimestamp time.Time
	TotalFiles      int
	AverageDistance float64
	MinDistance     float64
	MaxDistance     float64
	ZoneCounts      map[metrics.Zone]int
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  run_id            TEXT PRIMARY KEY,
  project_key       TEXT NOT NULL,
  schema_version    INTEGER NOT NULL,
  ts_utc            TEXT NOT NULL,
  commit_hash       TEXT NOT NULL DEFAULT '',
  commit_ts_utc     TEXT NOT NULL DEFAULT '',
  total_files       INTEGER NOT NULL,
  avg_distance      REAL NOT NULL,
  min_distance      REAL NOT NULL,
  max_distance      REAL NOT NULL,
  main_sequence     INTEGER NOT NULL DEFAULT 0,
  near_main         INTEGER NOT NULL DEFAULT 0,
  zone_pain         INTEGER NOT NULL DEFAULT 0,
  zone_uselessness  INTEGER NOT NULL DEFAULT 0,
  far_from_main     INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_runs_project_ts ON runs(project_key, ts_utc);
`)
	return err
}

// SaveRun inserts one run snapshot and returns its generated id.
func (s *Store) SaveRun(rec RunRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.RunID == "" {
		rec.RunID = uuid.NewString()
	}
	if rec.ProjectKey == "" {
		rec.ProjectKey = "default"
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	commitTS := ""
	if !rec.CommitTimestamp.IsZero() {
		commitTS = rec.CommitTimestamp.UTC().Format(time.RFC3339Nano)
	}

	_, err := s.db.Exec(`
INSERT INTO runs (
  run_id, project_key, schema_version, ts_utc, commit_hash, commit_ts_utc,
  total_files, avg_distance, min_distance, max_distance,
  main_sequence, near_main, zone_pain, zone_uselessness, far_from_main
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		rec.RunID,
		rec.ProjectKey,
		SchemaVersion,
		rec.Timestamp.UTC().Format(time.RFC3339Nano),
		rec.CommitHash,
		commitTS,
		rec.TotalFiles,
		rec.AverageDistance,
		rec.MinDistance,
		rec.MaxDistance,
		rec.ZoneCounts[metrics.ZoneMainSequence],
		rec.ZoneCounts[metrics.ZoneNearMainSequence],
		rec.ZoneCounts[metrics.ZonePain],
		rec.ZoneCounts[metrics.ZoneUselessness],
		rec.ZoneCounts[metrics.ZoneFarFromMain],
	)
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	return rec.RunID, nil
}

// RecentRuns returns up to limit runs for a project, newest first.
func (s *Store) RecentRuns(projectKey string, limit int) ([]RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
SELECT run_id, project_key, ts_utc, commit_hash, commit_ts_utc,
       total_files, avg_distance, min_distance, max_distance,
       main_sequence, near_main, zone_pain, zone_uselessness, far_from_main
FROM runs WHERE project_key = ? ORDER BY ts_utc DESC LIMIT ?
`, projectKey, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var ts, commitTS string
		var mainSeq, nearMain, pain, useless, far int
		if err := rows.Scan(
			&rec.RunID, &rec.ProjectKey, &ts, &rec.CommitHash, &commitTS,
			&rec.TotalFiles, &rec.AverageDistance, &rec.MinDistance, &rec.MaxDistance,
			&mainSeq, &nearMain, &pain, &useless, &far,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rec.Timestamp = parsed
		}
		if commitTS != "" {
			if parsed, err := time.Parse(time.RFC3339Nano, commitTS); err == nil {
				rec.CommitTimestamp = parsed
			}
		}
		rec.ZoneCounts = map[metrics.Zone]int{
			metrics.ZoneMainSequence:     mainSeq,
			metrics.ZoneNearMainSequence: nearMain,
			metrics.ZonePain:             pain,
			metrics.ZoneUselessness:      useless,
			metrics.ZoneFarFromMain:      far,
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
