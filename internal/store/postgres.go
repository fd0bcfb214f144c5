package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/culturiqai/nalanda/internal/domain"
)

const snapshotDDL = `
CREATE TABLE IF NOT EXISTS schemas (
    name       TEXT PRIMARY KEY,
    parent     TEXT NOT NULL DEFAULT '',
    properties JSONB NOT NULL DEFAULT '{}',
    verified   BOOLEAN NOT NULL DEFAULT FALSE,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// SnapshotStore persists the belief graph to Postgres as flat
// {name, parent, properties, verified} records.
type SnapshotStore struct {
	db *pgxpool.Pool
}

func NewSnapshotStore(ctx context.Context, db *pgxpool.Pool) (*SnapshotStore, error) {
	if _, err := db.Exec(ctx, snapshotDDL); err != nil {
		return nil, fmt.Errorf("create schemas table: %w", err)
	}
	return &SnapshotStore{db: db}, nil
}

// Load reads every schema record from the snapshot table.
func (s *SnapshotStore) Load(ctx context.Context) ([]domain.SchemaRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT name, parent, properties, verified FROM schemas ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	defer rows.Close()

	var records []domain.SchemaRecord
	for rows.Next() {
		var r domain.SchemaRecord
		var props []byte
		if err := rows.Scan(&r.Name, &r.Parent, &props, &r.Verified); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		if err := json.Unmarshal(props, &r.Properties); err != nil {
			return nil, fmt.Errorf("decode properties for %q: %w", r.Name, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Save upserts the given records in a single transaction. Records are
// the source of truth; rows for schemas no longer in the graph are
// removed so reloads reproduce the graph exactly.
func (s *SnapshotStore) Save(ctx context.Context, records []domain.SchemaRecord) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM schemas`); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	for _, r := range records {
		props, err := json.Marshal(r.Properties)
		if err != nil {
			return fmt.Errorf("encode properties for %q: %w", r.Name, err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO schemas (name, parent, properties, verified, updated_at)
			 VALUES ($1, $2, $3, $4, NOW())`,
			r.Name, r.Parent, props, r.Verified)
		if err != nil {
			return fmt.Errorf("insert snapshot row %q: %w", r.Name, err)
		}
	}

	return tx.Commit(ctx)
}
