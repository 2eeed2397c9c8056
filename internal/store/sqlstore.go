package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vigil/internal/track"

	_ "modernc.org/sqlite"
)

// currentSchemaVersion is the target schema version for this build.
const currentSchemaVersion = 1

// SqlStore implements track.Gateway with SQLite. A sealed run and its defect
// upserts are written in one transaction, so a crash mid-write cannot leave a
// run visible without its catalog update or vice versa.
type SqlStore struct {
	db       *sql.DB
	warnings []string
}

// Open opens or creates a SQLite DB at path and runs migrations. Creates the
// parent directory (e.g. .vigil) if it does not exist. A corrupted database
// file is moved aside and replaced with a fresh one; the condition is
// surfaced through Load warnings rather than lost.
func Open(path string) (*SqlStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("store: create dir: %w", err)
	}
	s := &SqlStore{}
	db, err := openAndMigrate(path)
	if err != nil {
		aside := fmt.Sprintf("%s.corrupt-%d", path, time.Now().Unix())
		if mvErr := os.Rename(path, aside); mvErr != nil {
			return nil, fmt.Errorf("store: open sqlite: %w", err)
		}
		s.warnings = append(s.warnings,
			fmt.Sprintf("corrupted database moved to %s; starting with empty history (%v)", aside, err))
		db, err = openAndMigrate(path)
		if err != nil {
			return nil, fmt.Errorf("store: reopen sqlite: %w", err)
		}
	}
	s.db = db
	return s, nil
}

func openAndMigrate(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	var tableCount int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableCount == 0 {
		if _, err := db.Exec(schemaV1); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := db.Exec(
			"INSERT INTO schema_version(version) VALUES(?)", currentSchemaVersion,
		); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	}
	var version int
	if err := db.QueryRow("SELECT version FROM schema_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != currentSchemaVersion {
		return fmt.Errorf("unsupported schema version %d (want %d)", version, currentSchemaVersion)
	}
	return nil
}

// Close closes the database handle.
func (s *SqlStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load reads the full run history and defect map. Rows with undecodable
// JSON columns are skipped with a warning instead of failing the load.
func (s *SqlStore) Load() (*track.State, []string, error) {
	state := &track.State{Defects: make(map[string]*track.Defect)}
	warnings := append([]string(nil), s.warnings...)

	rows, err := s.db.Query(
		`SELECT number, uuid, timestamp, duration_ms, total_tests, passed, failed,
		        skipped, pass_rate, new_defects, fixed_defects, reopened_defects,
		        open_defects, categories, failed_tests
		 FROM runs ORDER BY number`,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r track.Run
		var ts string
		var uuid, cats, failed sql.NullString
		if err := rows.Scan(&r.Number, &uuid, &ts, &r.DurationMS, &r.TotalTests,
			&r.Passed, &r.Failed, &r.Skipped, &r.PassRate, &r.NewDefects,
			&r.FixedDefects, &r.ReopenedDefects, &r.OpenDefects, &cats, &failed,
		); err != nil {
			return nil, nil, fmt.Errorf("store: scan run: %w", err)
		}
		r.UUID = nullStr(uuid)
		// Keep the run even when the timestamp is undecodable: dropping it
		// would free its number for reuse and the next insert would collide
		// on the primary key. Ordering is by number, so a zero time is safe.
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("run %d: bad timestamp %q; using zero time", r.Number, ts))
		}
		r.Timestamp = t
		if c := nullStr(cats); c != "" {
			if err := json.Unmarshal([]byte(c), &r.Categories); err != nil {
				warnings = append(warnings, fmt.Sprintf("run %d: bad categories column; dropped", r.Number))
			}
		}
		if f := nullStr(failed); f != "" {
			if err := json.Unmarshal([]byte(f), &r.FailedTests); err != nil {
				warnings = append(warnings, fmt.Sprintf("run %d: bad failed_tests column; dropped", r.Number))
			}
		}
		state.Runs = append(state.Runs, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("store: iterate runs: %w", err)
	}

	drows, err := s.db.Query(
		`SELECT id, test_id, test_name, category, severity, status,
		        first_found_run, last_seen_run, fixed_in_run, error_message
		 FROM defects`,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("store: list defects: %w", err)
	}
	defer drows.Close()
	for drows.Next() {
		var d track.Defect
		var name, cat, errMsg sql.NullString
		var fixedIn sql.NullInt64
		if err := drows.Scan(&d.ID, &d.TestID, &name, &cat, &d.Severity, &d.Status,
			&d.FirstFoundRun, &d.LastSeenRun, &fixedIn, &errMsg,
		); err != nil {
			return nil, nil, fmt.Errorf("store: scan defect: %w", err)
		}
		d.TestName = nullStr(name)
		d.Category = nullStr(cat)
		d.ErrorMessage = nullStr(errMsg)
		if fixedIn.Valid {
			d.FixedInRun = int(fixedIn.Int64)
		}
		state.Defects[d.ID] = &d
	}
	if err := drows.Err(); err != nil {
		return nil, nil, fmt.Errorf("store: iterate defects: %w", err)
	}
	return state, warnings, nil
}

// SaveRun inserts the sealed run and upserts its changed defects in one
// transaction.
func (s *SqlStore) SaveRun(run *track.Run, changed []*track.Defect) error {
	if run == nil {
		return fmt.Errorf("store: run is nil")
	}
	cats, err := json.Marshal(run.Categories)
	if err != nil {
		return fmt.Errorf("store: marshal categories: %w", err)
	}
	failed, err := json.Marshal(run.FailedTests)
	if err != nil {
		return fmt.Errorf("store: marshal failed tests: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs(number, uuid, timestamp, duration_ms, total_tests, passed,
		                  failed, skipped, pass_rate, new_defects, fixed_defects,
		                  reopened_defects, open_defects, categories, failed_tests)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Number, nilIfEmpty(run.UUID), run.Timestamp.UTC().Format(time.RFC3339),
		run.DurationMS, run.TotalTests, run.Passed, run.Failed, run.Skipped,
		run.PassRate, run.NewDefects, run.FixedDefects, run.ReopenedDefects,
		run.OpenDefects, string(cats), string(failed),
	); err != nil {
		return fmt.Errorf("store: insert run %d: %w", run.Number, err)
	}

	for _, d := range changed {
		if _, err := tx.Exec(
			`INSERT INTO defects(id, test_id, test_name, category, severity, status,
			                     first_found_run, last_seen_run, fixed_in_run, error_message)
			 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   test_name = excluded.test_name,
			   category = excluded.category,
			   severity = excluded.severity,
			   status = excluded.status,
			   last_seen_run = excluded.last_seen_run,
			   fixed_in_run = excluded.fixed_in_run,
			   error_message = excluded.error_message`,
			d.ID, string(d.TestID), nilIfEmpty(d.TestName), nilIfEmpty(d.Category),
			string(d.Severity), string(d.Status), d.FirstFoundRun, d.LastSeenRun,
			nilIfZero(d.FixedInRun), nilIfEmpty(d.ErrorMessage),
		); err != nil {
			return fmt.Errorf("store: upsert defect %s: %w", d.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit run %d: %w", run.Number, err)
	}
	return nil
}

// Clear wipes runs and defects in one transaction.
func (s *SqlStore) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin clear: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("store: clear runs: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM defects"); err != nil {
		return fmt.Errorf("store: clear defects: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit clear: %w", err)
	}
	return nil
}

// nullStr converts a sql.NullString to a plain string (empty if null).
func nullStr(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// nilIfEmpty maps "" to NULL for optional text columns.
func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nilIfZero maps 0 to NULL for optional integer columns.
func nilIfZero(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
