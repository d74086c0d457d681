package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS curve_snapshots (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL,
	curve_date  DATE NOT NULL,
	knots       DOUBLE PRECISION[] NOT NULL,
	nodes       DOUBLE PRECISION[] NOT NULL,
	final_norm  DOUBLE PRECISION NOT NULL,
	iterations  INTEGER NOT NULL,
	status      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS curve_snapshots_name_created_idx ON curve_snapshots (name, created_at DESC);`

const selectColumns = `id, name, curve_date, knots, nodes, final_norm, iterations, status, created_at`

// PostgresStore keeps snapshots in the curve_snapshots table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens dsn with the lib/pq driver, pings it and creates the table if needed.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	s := NewPostgresStoreFromDB(db)
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStoreFromDB wraps an open database handle.
func NewPostgresStoreFromDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates curve_snapshots and its lookup index.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create curve_snapshots: %w", err)
	}
	return nil
}

func (p *PostgresStore) Save(ctx context.Context, s *Snapshot) error {
	s.stamp()
	const query = `
		INSERT INTO curve_snapshots (` + selectColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := p.db.ExecContext(ctx, query,
		s.ID, s.Name, s.CurveDate, pq.Array(s.Knots), pq.Array(s.Nodes),
		s.FinalNorm, s.Iterations, s.Status, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	const query = `SELECT ` + selectColumns + ` FROM curve_snapshots WHERE id = $1`
	return scanSnapshot(p.db.QueryRowContext(ctx, query, id))
}

func (p *PostgresStore) Latest(ctx context.Context, name string) (Snapshot, error) {
	const query = `
		SELECT ` + selectColumns + `
		FROM curve_snapshots
		WHERE name = $1
		ORDER BY created_at DESC
		LIMIT 1`
	return scanSnapshot(p.db.QueryRowContext(ctx, query, name))
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}

func scanSnapshot(row *sql.Row) (Snapshot, error) {
	var s Snapshot
	err := row.Scan(
		&s.ID, &s.Name, &s.CurveDate, pq.Array(&s.Knots), pq.Array(&s.Nodes),
		&s.FinalNorm, &s.Iterations, &s.Status, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}
	return s, nil
}
