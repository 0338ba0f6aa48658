package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/domain/interfaces"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row does not exist
var ErrNotFound = interfaces.ErrNotFound

const schema = `
CREATE TABLE IF NOT EXISTS divisions (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	parent_division_id TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS teams (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	division_id TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS services (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	division_id TEXT NOT NULL DEFAULT '',
	team_id TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	created_by TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS risk_assessments (
	id TEXT PRIMARY KEY,
	service_id TEXT NOT NULL,
	risk_category TEXT NOT NULL,
	risk_description TEXT NOT NULL,
	risk_level TEXT NOT NULL,
	data_classification TEXT NOT NULL DEFAULT '',
	data_interface TEXT NOT NULL DEFAULT '',
	data_location TEXT NOT NULL DEFAULT '',
	likelihood_per_year REAL NOT NULL DEFAULT 0,
	mitigation TEXT NOT NULL DEFAULT '',
	risk_owner TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	created_by TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL,
	revenue_impact TEXT NOT NULL DEFAULT '',
	has_global_revenue_impact INTEGER NOT NULL DEFAULT 0,
	global_revenue_impact_hours REAL,
	has_local_revenue_impact INTEGER NOT NULL DEFAULT 0,
	local_revenue_impact_hours REAL,
	pi_data_at_risk TEXT NOT NULL DEFAULT '',
	pi_data_amount TEXT NOT NULL DEFAULT '',
	hours_to_remediate REAL,
	additional_loss_event_costs REAL,
	mitigative_controls_implemented TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_risk_assessments_service ON risk_assessments(service_id, created_at);

CREATE TABLE IF NOT EXISTS tokens (
	id TEXT PRIMARY KEY,
	secret TEXT NOT NULL,
	sub TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL DEFAULT '',
	expires_at INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
`

// SQLite is a single-file repository backed by the pure Go SQLite driver
type SQLite struct {
	db         *sql.DB
	division   *divisionRepository
	team       *teamRepository
	service    *serviceRepository
	assessment *assessmentRepository
}

var _ interfaces.Repository = &SQLite{}

// New opens (and creates when missing) the database at path and applies the schema
func New(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, goerr.Wrap(err, "failed to create database directory", goerr.V("path", path))
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}
	// Serialize access through one connection; SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, goerr.Wrap(err, "failed to set pragma", goerr.V("pragma", pragma))
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to initialize schema", goerr.V("path", path))
	}

	return &SQLite{
		db:         db,
		division:   &divisionRepository{db: db},
		team:       &teamRepository{db: db},
		service:    &serviceRepository{db: db},
		assessment: &assessmentRepository{db: db},
	}, nil
}

func (s *SQLite) Division() interfaces.DivisionRepository {
	return s.division
}

func (s *SQLite) Team() interfaces.TeamRepository {
	return s.team
}

func (s *SQLite) Service() interfaces.ServiceRepository {
	return s.service
}

func (s *SQLite) RiskAssessment() interfaces.RiskAssessmentRepository {
	return s.assessment
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// Timestamps are stored as unix nanoseconds; 0 is the zero time
func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().UnixNano()
}

func fromUnix(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(0, v).UTC()
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fromNullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// execAffecting runs a statement and maps zero affected rows to ErrNotFound
func execAffecting(ctx context.Context, db *sql.DB, kind string, id string, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return goerr.Wrap(err, "failed to write "+kind, goerr.V("id", id))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return goerr.Wrap(err, "failed to get affected rows", goerr.V("id", id))
	}
	if n == 0 {
		return goerr.Wrap(ErrNotFound, kind+" not found", goerr.V("id", id))
	}
	return nil
}

// scanError maps sql.ErrNoRows to ErrNotFound
func scanError(err error, kind string, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return goerr.Wrap(ErrNotFound, kind+" not found", goerr.V("id", id))
	}
	return goerr.Wrap(err, "failed to get "+kind, goerr.V("id", id))
}

type rowScanner interface {
	Scan(dest ...any) error
}

// queryAll runs query and scans every row with scan
func queryAll[T any](ctx context.Context, db *sql.DB, kind string, scan func(rowScanner) (*T, error), query string, args ...any) ([]*T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list "+kind)
	}
	defer rows.Close()

	out := []*T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan "+kind)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate "+kind)
	}
	return out, nil
}
