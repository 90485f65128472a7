// Package redisstore persists state snapshots as a JSON blob under a
// single redis key.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gira-service/internal/models"
)

const stateKey = "gira:state"

type Storage struct {
	client *redis.Client
}

func New(redisAddr string) (*Storage, error) {
	const op = "storage.redisstore.New"

	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{client: client}, nil
}

func (s *Storage) LoadState(ctx context.Context) (*models.State, error) {
	const op = "storage.redisstore.LoadState"

	data, err := s.client.Get(ctx, stateKey).Bytes()
	if err == redis.Nil {
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
	const op = "storage.redisstore.SaveState"

	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.client.Set(ctx, stateKey, data, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Close() error {
	return s.client.Close()
}
