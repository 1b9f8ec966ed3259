package storage

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/dsatizabal/pid-controller/internal/bench"
	"github.com/dsatizabal/pid-controller/internal/signal"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore keeps all runs in one database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path. Use ":memory:" for a
// throwaway store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "connect to database")
	}

	// single writer, and ":memory:" databases are per connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Init() error {
	if _, err := s.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return errors.Wrap(err, "enable foreign keys")
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return errors.Wrap(err, "apply schema")
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Save(meta *RunMetadata, records []bench.CycleRecord) (string, error) {
	stamp(meta)

	policy, err := json.Marshal(meta.Policy)
	if err != nil {
		return "", errors.Wrap(err, "encode policy")
	}
	metrics, err := json.Marshal(meta.Metrics)
	if err != nil {
		return "", errors.Wrap(err, "encode metrics")
	}
	gains, err := json.Marshal(meta.Gains)
	if err != nil {
		return "", errors.Wrap(err, "encode gains")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, scenario, model, timestamp, outcome, cycles_run, setpoint, initial_feedback, final_feedback,
		 policy, metrics, failure, clock, clock_hz, gains)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.Scenario, meta.Model, meta.Timestamp.Format(time.RFC3339Nano), meta.Outcome,
		meta.CyclesRun, int64(meta.Setpoint), int64(meta.InitialFeedback), int64(meta.FinalFeedback),
		string(policy), string(metrics), meta.Failure, meta.Clock, meta.ClockHz, string(gains))
	if err != nil {
		return "", errors.Wrap(err, "insert run")
	}

	stmt, err := tx.Prepare(`INSERT INTO cycles
		(run_id, cycle, phase, setpoint, feedback, control_signal, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", errors.Wrap(err, "prepare cycles")
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.Exec(meta.ID, rec.Cycle, rec.Phase.String(),
			int64(rec.Setpoint), int64(rec.Feedback), int64(rec.ControlOutput), rec.Error)
		if err != nil {
			return "", errors.Wrapf(err, "insert cycle %d", rec.Cycle)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(err, "commit")
	}
	return meta.ID, nil
}

const selectRun = `SELECT id, scenario, model, timestamp, outcome, cycles_run, setpoint,
	initial_feedback, final_feedback, policy, metrics, failure, clock, clock_hz, gains FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*RunMetadata, error) {
	var (
		meta               RunMetadata
		ts                 string
		sp, initial, final int64
		policy, metricsJS  string
		gains              string
	)
	err := row.Scan(&meta.ID, &meta.Scenario, &meta.Model, &ts, &meta.Outcome, &meta.CyclesRun,
		&sp, &initial, &final, &policy, &metricsJS, &meta.Failure, &meta.Clock, &meta.ClockHz, &gains)
	if err != nil {
		return nil, err
	}
	if meta.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
		return nil, errors.Wrap(err, "parse timestamp")
	}
	meta.Setpoint = uint64(sp)
	meta.InitialFeedback = uint64(initial)
	meta.FinalFeedback = uint64(final)
	if err := json.Unmarshal([]byte(policy), &meta.Policy); err != nil {
		return nil, errors.Wrap(err, "decode policy")
	}
	if err := json.Unmarshal([]byte(metricsJS), &meta.Metrics); err != nil {
		return nil, errors.Wrap(err, "decode metrics")
	}
	if err := json.Unmarshal([]byte(gains), &meta.Gains); err != nil {
		return nil, errors.Wrap(err, "decode gains")
	}
	return &meta, nil
}

func (s *SQLiteStore) List() ([]RunMetadata, error) {
	rows, err := s.db.Query(selectRun + " ORDER BY rowid")
	if err != nil {
		return nil, errors.Wrap(err, "list runs")
	}
	defer rows.Close()

	runs := make([]RunMetadata, 0)
	for rows.Next() {
		meta, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *meta)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) Load(runID string) (*RunMetadata, error) {
	meta, err := scanRun(s.db.QueryRow(selectRun+" WHERE id = ?", runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(ErrRunNotFound, runID)
	}
	return meta, err
}

func (s *SQLiteStore) LoadCycles(runID string) ([]bench.CycleRecord, error) {
	if _, err := s.Load(runID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT cycle, phase, setpoint, feedback, control_signal, error
		FROM cycles WHERE run_id = ? ORDER BY cycle`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "load cycles")
	}
	defer rows.Close()

	records := make([]bench.CycleRecord, 0)
	for rows.Next() {
		var (
			rec          bench.CycleRecord
			phase        string
			sp, fb, ctrl int64
		)
		if err := rows.Scan(&rec.Cycle, &phase, &sp, &fb, &ctrl, &rec.Error); err != nil {
			return nil, err
		}
		if rec.Phase, err = bench.ParsePhase(phase); err != nil {
			return nil, err
		}
		rec.Setpoint = signal.Value(sp)
		rec.Feedback = signal.Value(fb)
		rec.ControlOutput = signal.Value(ctrl)
		records = append(records, rec)
	}
	return records, rows.Err()
}
