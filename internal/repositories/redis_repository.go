package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const discoverySnapshotTTL = 15 * time.Minute

// RedisRepository caches discovery snapshots per connection.
type RedisRepository struct {
	rdb *redis.Client
}

func NewRedisRepository(rdb *redis.Client) *RedisRepository {
	return &RedisRepository{rdb: rdb}
}

func snapshotKey(connID uuid.UUID) string {
	return "discovery:" + connID.String()
}

// StoreSnapshot caches the JSON-encoded discovery result for a connection.
func (r *RedisRepository) StoreSnapshot(ctx context.Context, connID uuid.UUID, snapshot any) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, snapshotKey(connID), payload, discoverySnapshotTTL).Err()
}

// GetSnapshot returns the cached discovery result, or (nil, nil) on a miss.
func (r *RedisRepository) GetSnapshot(ctx context.Context, connID uuid.UUID) (json.RawMessage, error) {
	raw, err := r.rdb.Get(ctx, snapshotKey(connID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// InvalidateSnapshot drops the cached discovery result after DDL.
func (r *RedisRepository) InvalidateSnapshot(ctx context.Context, connID uuid.UUID) error {
	return r.rdb.Del(ctx, snapshotKey(connID)).Err()
}
