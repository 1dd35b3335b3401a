package availability

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client часть redis.Client, которой пользуется кэш
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetEx(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}
