package production

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SchemaVersion is the current run-store schema.
const SchemaVersion = "1"

// RunRecord is one completed run.
type RunRecord struct {
	ID          string
	Machine     string
	Version     string
	Input       string
	InputLength int
	Steps       int
	Outcome     string
	State       string
	Value       int
	HasValue    bool
	Elapsed     time.Duration
	CreatedAt   time.Time
}

// RunStore keeps run records in SQLite.
type RunStore struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenRunStore opens or creates the store at path. ":memory:" is accepted.
func OpenRunStore(path string) (*RunStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run store %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &RunStore{db: db}
	version, err := s.metadata("schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}
	switch version {
	case "":
		if err := s.migrateToV1(); err != nil {
			db.Close()
			return nil, err
		}
	case SchemaVersion:
	default:
		db.Close()
		return nil, fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}
	return s, nil
}

func (s *RunStore) migrateToV1() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			machine TEXT NOT NULL,
			version TEXT NOT NULL,
			input TEXT NOT NULL,
			input_length INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			state TEXT NOT NULL,
			value INTEGER,
			elapsed_ns INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS runs_machine ON runs (machine, created_at);
	`)
	if err != nil {
		return fmt.Errorf("migrate run store: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO metadata (key, value) VALUES ('schema_version', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, SchemaVersion)
	return err
}

func (s *RunStore) metadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// Record stores r, replacing a record with the same ID.
func (s *RunStore) Record(ctx context.Context, r RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	var value sql.NullInt64
	if r.HasValue {
		value = sql.NullInt64{Int64: int64(r.Value), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, machine, version, input, input_length, steps, outcome, state, value, elapsed_ns, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			machine = excluded.machine, version = excluded.version, input = excluded.input,
			input_length = excluded.input_length, steps = excluded.steps, outcome = excluded.outcome,
			state = excluded.state, value = excluded.value, elapsed_ns = excluded.elapsed_ns,
			created_at = excluded.created_at
	`, r.ID, r.Machine, r.Version, r.Input, r.InputLength, r.Steps, r.Outcome, r.State, value,
		r.Elapsed.Nanoseconds(), r.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("record run %s: %w", r.ID, err)
	}
	return nil
}

// List returns the records for machine ordered by creation time, or all
// records when machine is empty.
func (s *RunStore) List(ctx context.Context, machine string) ([]RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT id, machine, version, input, input_length, steps, outcome, state, value, elapsed_ns, created_at FROM runs`
	var args []any
	if machine != "" {
		query += ` WHERE machine = ?`
		args = append(args, machine)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			r         RunRecord
			value     sql.NullInt64
			elapsed   int64
			createdAt int64
		)
		if err := rows.Scan(&r.ID, &r.Machine, &r.Version, &r.Input, &r.InputLength, &r.Steps,
			&r.Outcome, &r.State, &value, &elapsed, &createdAt); err != nil {
			return nil, err
		}
		r.Value, r.HasValue = int(value.Int64), value.Valid
		r.Elapsed = time.Duration(elapsed)
		r.CreatedAt = time.Unix(0, createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// WriteCSV writes "Input Length,Execution Time (s)" rows for records.
func WriteCSV(w io.Writer, records []RunRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Input Length", "Execution Time (s)"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.InputLength),
			strconv.FormatFloat(r.Elapsed.Seconds(), 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
