package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/campus-funding-api/internal/models"
	"github.com/noah-isme/campus-funding-api/pkg/config"
)

// RedisStore keeps the snapshot blob under a single key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedis connects to Redis and returns a key-value snapshot store.
func NewRedis(cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	key := cfg.Key
	if key == "" {
		key = "campus_funding:snapshot"
	}
	return &RedisStore{client: client, key: key}, nil
}

// Load fetches the snapshot blob. A missing key is an empty state.
func (s *RedisStore) Load(ctx context.Context) (models.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Snapshot{}, nil
		}
		return models.Snapshot{}, fmt.Errorf("read snapshot key: %w", err)
	}
	return Decode(data), nil
}

// Save overwrites the snapshot blob.
func (s *RedisStore) Save(ctx context.Context, snap models.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("write snapshot key: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
