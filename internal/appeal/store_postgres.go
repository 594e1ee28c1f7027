package appeal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PostgresStore keeps the same create-once, read-many contract as the file
// store, with appeal_data as a jsonb column.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, a Appeal) (Record, error) {
	rec := newRecord(a)

	payload, err := json.Marshal(rec.Appeal)
	if err != nil {
		return Record{}, fmt.Errorf("encode appeal: %w", err)
	}

	const q = `
INSERT INTO appeals (id, appeal_data, created_at)
VALUES ($1, $2, $3);
`
	if _, err := s.db.ExecContext(ctx, q, rec.ID, payload, rec.CreatedAt); err != nil {
		return Record{}, fmt.Errorf("insert appeal: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Record, error) {
	const q = `
SELECT id, appeal_data, created_at
FROM appeals
WHERE id = $1;
`
	var (
		rec     Record
		payload []byte
	)
	err := s.db.QueryRowContext(ctx, q, id).Scan(&rec.ID, &payload, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("select appeal: %w", err)
	}

	if err := json.Unmarshal(payload, &rec.Appeal); err != nil {
		return Record{}, fmt.Errorf("decode appeal %s: %w", id, err)
	}
	return rec, nil
}
