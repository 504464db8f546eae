package database

import (
	"context"
	"fmt"

	"bakery-storefront/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewRedisClient connects to the Redis instance that backs carts and the
// kitchen board cache.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("redis client connected")

	return client, nil
}
