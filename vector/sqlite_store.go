package vector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// SQLiteStore implements Store on a SQLite database. Samples keep their
// insertion order through the table rowid, which is the order trees are
// built from. Persisted indexes are dropped by triggers on the samples
// table (see InvalidationTriggers).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed Store. It ensures the schema
// exists in the provided database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("vector: db is nil")
	}
	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// AddSamples upserts samples into the dataset. Samples without an ID get a
// random UUID. All samples must share the same feature width.
func (s *SQLiteStore) AddSamples(ctx context.Context, dataset string, samples []Sample) ([]string, error) {
	if len(samples) == 0 {
		return nil, nil
	}
	if dataset == "" {
		return nil, fmt.Errorf("vector: dataset must be set")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	dim := len(samples[0].Features)
	for i, sm := range samples {
		if len(sm.Features) != dim {
			return nil, fmt.Errorf("vector: sample %d has %d features, want %d", i, len(sm.Features), dim)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO samples(dataset_id, id, label, features)
VALUES (?, ?, ?, ?)
ON CONFLICT(dataset_id, id) DO UPDATE SET
  label = excluded.label,
  features = excluded.features`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	ids := make([]string, 0, len(samples))
	for _, sm := range samples {
		id := sm.ID
		if id == "" {
			id = uuid.NewString()
		}
		blob, err := EncodeFeatures(sm.Features)
		if err != nil {
			return nil, err
		}
		if _, err := stmt.ExecContext(ctx, dataset, id, sm.Label, blob); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Samples returns every sample of the dataset in insertion order.
func (s *SQLiteStore) Samples(ctx context.Context, dataset string) ([]Sample, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, label, features FROM samples WHERE dataset_id = ? ORDER BY rowid`, dataset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		var sm Sample
		var blob []byte
		if err := rows.Scan(&sm.ID, &sm.Label, &blob); err != nil {
			return nil, err
		}
		if sm.Features, err = DecodeFeatures(blob); err != nil {
			return nil, fmt.Errorf("vector: sample %s: %w", sm.ID, err)
		}
		out = append(out, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Remove deletes a sample by ID.
func (s *SQLiteStore) Remove(ctx context.Context, dataset, id string) error {
	if id == "" {
		return fmt.Errorf("vector: Remove called with empty id")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM samples WHERE dataset_id = ? AND id = ?`, dataset, id)
	return err
}

// SaveIndex stores (or replaces) the serialized index of a dataset.
func (s *SQLiteStore) SaveIndex(ctx context.Context, dataset, kind string, blob []byte) error {
	if ctx == nil {
		ctx = context.Background()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO kd_index(dataset_id, kind, blob, updated_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(dataset_id) DO UPDATE SET
  kind = excluded.kind,
  blob = excluded.blob,
  updated_at = excluded.updated_at`, dataset, kind, blob)
	return err
}

// LoadIndex returns the serialized index of a dataset. ok is false when no
// index has been saved since the last change to the dataset.
func (s *SQLiteStore) LoadIndex(ctx context.Context, dataset string) (string, []byte, bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var kind string
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT kind, blob FROM kd_index WHERE dataset_id = ?`, dataset).Scan(&kind, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, false, nil
	}
	if err != nil {
		return "", nil, false, err
	}
	return kind, blob, true, nil
}

// Ensure SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)
