package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultQueue = "smsbroker:notifications"

// RedisEmitter кладет уведомления в список Redis, откуда их забирает чат-транспорт.
type RedisEmitter struct {
	rdb   redis.Cmdable
	queue string
	now   func() time.Time
}

func NewRedisEmitter(rdb redis.Cmdable, queue string) *RedisEmitter {
	if queue == "" {
		queue = DefaultQueue
	}
	return &RedisEmitter{
		rdb:   rdb,
		queue: queue,
		now:   time.Now,
	}
}

func (e *RedisEmitter) Emit(ctx context.Context, n Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = e.now()
	}
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if pushErr := e.rdb.LPush(ctx, e.queue, data).Err(); pushErr != nil {
		return fmt.Errorf("push notification to %s: %w", e.queue, pushErr)
	}
	return nil
}
