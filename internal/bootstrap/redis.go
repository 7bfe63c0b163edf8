package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/Dav-123/Easy-biz-ai-service/config"
	"github.com/redis/go-redis/v9"
)

// OpenRedis connects the shared Redis client and fails fast on an
// unreachable server.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
