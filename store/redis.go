package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "mcurve:"

// RedisStore keeps snapshots as JSON values with a TTL, plus a per-name pointer to the latest one.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to rawURL (redis://[:password@]host:port/db) and pings it.
// A zero ttl keeps keys forever.
func NewRedisStore(ctx context.Context, rawURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisStoreFromClient(client, ttl), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func snapshotKey(id uuid.UUID) string { return keyPrefix + "snapshot:" + id.String() }
func latestKey(name string) string    { return keyPrefix + "latest:" + name }

func (r *RedisStore) Save(ctx context.Context, s *Snapshot) error {
	s.stamp()
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, snapshotKey(s.ID), data, r.ttl)
		p.Set(ctx, latestKey(s.Name), s.ID.String(), r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save snapshot to Redis: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	data, err := r.client.Get(ctx, snapshotKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("failed to get snapshot from Redis: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return s, nil
}

func (r *RedisStore) Latest(ctx context.Context, name string) (Snapshot, error) {
	raw, err := r.client.Get(ctx, latestKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("failed to get latest snapshot id from Redis: %w", err)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return Snapshot{}, fmt.Errorf("corrupt latest pointer for %q: %w", name, err)
	}
	return r.Get(ctx, id)
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
