package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"librarium/internal/dto"
)

const snapshotKey = "dashboard:snapshot"

// SnapshotCache keeps the latest dashboard snapshot in Redis for a short TTL
// so a dashboard poll does not always hit the database. It fails open: any
// Redis error is treated as a cache miss.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotCache(addr, password string, ttl time.Duration) *SnapshotCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &SnapshotCache{client: client, ttl: ttl}
}

// NewSnapshotCacheWithClient is used by tests to inject a client.
func NewSnapshotCacheWithClient(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

func (c *SnapshotCache) Get(ctx context.Context) (*dto.DashboardSnapshot, bool) {
	data, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Debug("snapshot cache read failed", "error", err)
		}
		return nil, false
	}
	var snapshot dto.DashboardSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		slog.Debug("snapshot cache decode failed", "error", err)
		return nil, false
	}
	return &snapshot, true
}

func (c *SnapshotCache) Set(ctx context.Context, snapshot *dto.DashboardSnapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, snapshotKey, data, c.ttl).Err(); err != nil {
		slog.Debug("snapshot cache write failed", "error", err)
	}
}
