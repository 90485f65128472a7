// Package postgres persists state snapshots as a single jsonb row.
// The core mutates one in-memory store and saves it wholesale, so the
// schema is a snapshot table, not a row-per-entity model.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"gira-service/internal/models"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS gira_state (
			id       integer PRIMARY KEY,
			data     jsonb NOT NULL,
			saved_at timestamptz NOT NULL
		)`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) LoadState(ctx context.Context) (*models.State, error) {
	const op = "storage.postgres.LoadState"

	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM gira_state WHERE id = 1`).Scan(&data)
	if err == sql.ErrNoRows {
		return models.Empty(), nil
	}
	if err != nil {
		return models.Empty(), fmt.Errorf("%s: %w", op, err)
	}

	var st models.State
	if err := json.Unmarshal(data, &st); err != nil {
		return models.Empty(), fmt.Errorf("%s: %w", op, err)
	}

	return &st, nil
}

func (s *Storage) SaveState(ctx context.Context, st *models.State) error {
	const op = "storage.postgres.SaveState"

	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO gira_state (id, data, saved_at)
		VALUES (1, $1, now())
		ON CONFLICT (id)
		DO UPDATE SET data = EXCLUDED.data, saved_at = EXCLUDED.saved_at`,
		data,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}
