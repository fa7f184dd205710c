package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// WindowCounter счётчики окон ограничителя частоты в Redis
type WindowCounter struct {
	client *goredis.Client
}

func NewWindowCounter(client *goredis.Client) *WindowCounter {
	return &WindowCounter{client: client}
}

// Incr выполняет INCR и EXPIRE одним пайплайном.
// Ключ уже содержит начало окна, поэтому продление TTL не сдвигает окно.
func (c *WindowCounter) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := c.client.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("incr window: %w", err)
	}

	return incrCmd.Val(), nil
}
