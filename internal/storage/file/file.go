// Package file persists state snapshots as a JSON file, the closest
// server-side analogue of the browser-local storage this system grew
// out of. An absent file loads as an empty state; a file that fails to
// decode also loads empty but reports the decode error so the caller
// can log it.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gira-service/internal/models"
)

type Storage struct {
	path string
}

func New(path string) (*Storage, error) {
	const op = "storage.file.New"

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{path: path}, nil
}

func (s *Storage) LoadState(_ context.Context) (*models.State, error) {
	const op = "storage.file.LoadState"

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
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

func (s *Storage) SaveState(_ context.Context, st *models.State) error {
	const op = "storage.file.SaveState"

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// Write-then-rename keeps a crash from leaving a half-written file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Close() error {
	return nil
}
