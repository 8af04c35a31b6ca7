package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"tiffinbox/internal/domain"
)

// RedisStore keeps cart snapshots in redis, the server-side analog of
// the device storage the mobile client uses.
type RedisStore struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, baseTTL: 24 * time.Hour}
}

func (r *RedisStore) Load(ctx context.Context, ownerID string) ([]domain.CartLineItem, error) {
	data, err := r.client.Get(ctx, storeKey(ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	var items []domain.CartLineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	return items, nil
}

func (r *RedisStore) Save(ctx context.Context, ownerID string, items []domain.CartLineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	jitter := time.Duration(rand.Intn(30)) * time.Minute
	if err := r.client.Set(ctx, storeKey(ownerID), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context, ownerID string) error {
	if err := r.client.Del(ctx, storeKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func storeKey(ownerID string) string {
	return fmt.Sprintf("cart:%s", ownerID)
}
