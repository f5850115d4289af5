// Package history keeps a local log of assessments in SQLite.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DefaultPath is used when no history path is configured.
const DefaultPath = "readiness_history.db"

// Entry is a single recorded assessment.
type Entry struct {
	ID              string          `json:"session_id"`
	Timestamp       time.Time       `json:"timestamp"`
	Input           string          `json:"input"`
	TargetRole      string          `json:"target_role,omitempty"`
	ExtractedSkills []string        `json:"extracted_skills"`
	MissingSkills   []string        `json:"missing_skills"`
	Result          json.RawMessage `json:"full_result,omitempty"`
	DurationSeconds float64         `json:"execution_time_seconds"`
}

// Stats summarises every recorded entry.
type Stats struct {
	TotalExecutions        int        `json:"total_executions"`
	MostCommonTargetRole   string     `json:"most_common_target_role,omitempty"`
	AverageExtractedSkills float64    `json:"average_extracted_skills"`
	AverageMissingSkills   float64    `json:"average_missing_skills"`
	FirstExecution         *time.Time `json:"first_execution,omitempty"`
	LastExecution          *time.Time `json:"last_execution,omitempty"`
}

// Store is an append-only assessment log.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the SQLite database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("history: mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: init schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS assessments (
		seq              INTEGER PRIMARY KEY AUTOINCREMENT,
		id               TEXT NOT NULL UNIQUE,
		created_at       TEXT NOT NULL,
		input            TEXT NOT NULL,
		target_role      TEXT NOT NULL DEFAULT '',
		extracted_skills TEXT NOT NULL,
		extracted_count  INTEGER NOT NULL,
		missing_skills   TEXT NOT NULL,
		missing_count    INTEGER NOT NULL,
		result           TEXT,
		duration_seconds REAL NOT NULL DEFAULT 0
	)`)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends e to the log. ID and Timestamp are filled in when empty and
// the stored entry is returned.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}
	e.Timestamp = e.Timestamp.UTC()
	if e.ExtractedSkills == nil {
		e.ExtractedSkills = []string{}
	}
	if e.MissingSkills == nil {
		e.MissingSkills = []string{}
	}

	extracted, err := json.Marshal(e.ExtractedSkills)
	if err != nil {
		return Entry{}, fmt.Errorf("history: marshal extracted skills: %w", err)
	}
	missing, err := json.Marshal(e.MissingSkills)
	if err != nil {
		return Entry{}, fmt.Errorf("history: marshal missing skills: %w", err)
	}

	var result sql.NullString
	if len(e.Result) > 0 {
		result = sql.NullString{String: string(e.Result), Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO assessments (id, created_at, input, target_role, extracted_skills, extracted_count,
			missing_skills, missing_count, result, duration_seconds)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp.Format(time.RFC3339Nano), e.Input, strings.TrimSpace(e.TargetRole),
		string(extracted), len(e.ExtractedSkills), string(missing), len(e.MissingSkills),
		result, e.DurationSeconds,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("history: insert: %w", err)
	}

	return e, nil
}

const selectColumns = `id, created_at, input, target_role, extracted_skills, missing_skills, result, duration_seconds`

// Recent returns the last n entries in recording order.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return []Entry{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM (
			SELECT * FROM assessments ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC`, n)
	if err != nil {
		return nil, fmt.Errorf("history: query recent: %w", err)
	}
	return scanEntries(rows)
}

// ByRole returns every entry whose target role matches role, ignoring case.
func (s *Store) ByRole(ctx context.Context, role string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM assessments
		 WHERE LOWER(target_role) = LOWER(?) ORDER BY seq ASC`, strings.TrimSpace(role))
	if err != nil {
		return nil, fmt.Errorf("history: query by role: %w", err)
	}
	return scanEntries(rows)
}

// Stats aggregates the whole log. The most common role ignores multi-role
// assessments; ties go to the role recorded first.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var (
		stats        Stats
		avgExtracted sql.NullFloat64
		avgMissing   sql.NullFloat64
		first, last  sql.NullString
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(extracted_count), AVG(missing_count),
			(SELECT created_at FROM assessments ORDER BY seq ASC LIMIT 1),
			(SELECT created_at FROM assessments ORDER BY seq DESC LIMIT 1)
		 FROM assessments`,
	).Scan(&stats.TotalExecutions, &avgExtracted, &avgMissing, &first, &last)
	if err != nil {
		return Stats{}, fmt.Errorf("history: stats: %w", err)
	}
	if stats.TotalExecutions == 0 {
		return stats, nil
	}

	stats.AverageExtractedSkills = round2(avgExtracted.Float64)
	stats.AverageMissingSkills = round2(avgMissing.Float64)

	if stats.FirstExecution, err = parseTimestamp(first.String); err != nil {
		return Stats{}, err
	}
	if stats.LastExecution, err = parseTimestamp(last.String); err != nil {
		return Stats{}, err
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT target_role FROM assessments WHERE target_role != ''
		 GROUP BY target_role ORDER BY COUNT(*) DESC, MIN(seq) ASC LIMIT 1`,
	).Scan(&stats.MostCommonTargetRole)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Stats{}, fmt.Errorf("history: most common role: %w", err)
	}

	return stats, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			e                  Entry
			created            string
			extracted, missing string
			result             sql.NullString
		)
		if err := rows.Scan(&e.ID, &created, &e.Input, &e.TargetRole, &extracted, &missing, &result, &e.DurationSeconds); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}

		ts, err := parseTimestamp(created)
		if err != nil {
			return nil, err
		}
		e.Timestamp = *ts

		if err := json.Unmarshal([]byte(extracted), &e.ExtractedSkills); err != nil {
			return nil, fmt.Errorf("history: decode extracted skills of %s: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(missing), &e.MissingSkills); err != nil {
			return nil, fmt.Errorf("history: decode missing skills of %s: %w", e.ID, err)
		}
		if result.Valid {
			e.Result = json.RawMessage(result.String)
		}

		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: rows: %w", err)
	}

	return entries, nil
}

func parseTimestamp(s string) (*time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, fmt.Errorf("history: parse timestamp %q: %w", s, err)
	}
	return &ts, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
