package notify

import (
	"context"
	"fmt"

	"newsfeed/types"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis stream announcer
type RedisConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	Stream   string
}

// RedisNotifier appends one stream entry per new article
type RedisNotifier struct {
	client *redis.Client
	stream string
}

// NewRedisNotifier creates a client for cfg. The connection is established lazily.
func NewRedisNotifier(cfg RedisConfig) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisNotifier{client: client, stream: cfg.Stream}
}

// Ping checks connectivity
func (r *RedisNotifier) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Announce implements Notifier
func (r *RedisNotifier) Announce(ctx context.Context, feedName string, articles []types.Article) error {
	if len(articles) == 0 {
		return nil
	}

	pipe := r.client.Pipeline()
	for _, a := range articles {
		payload, err := encode(feedName, a)
		if err != nil {
			return fmt.Errorf("failed to encode article %s: %w", a.Link, err)
		}
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: r.stream,
			Values: map[string]interface{}{
				"id":      a.ID(),
				"feed":    feedName,
				"link":    a.Link,
				"payload": string(payload),
			},
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append to redis stream %s: %w", r.stream, err)
	}
	return nil
}

// Close implements Notifier
func (r *RedisNotifier) Close() error {
	return r.client.Close()
}
