// Package board caches the kitchen board so staff screens polling every
// few seconds do not each hit PostgreSQL.
package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"bakery-storefront/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	// Key is the Redis key holding the rendered board.
	Key = "kitchen:board"
	// GenerationKey is bumped on every invalidation. A board built from
	// reads taken under an older generation is never stored.
	GenerationKey = "kitchen:board:gen"
)

// Cache stores the current kitchen board.
type Cache interface {
	// Get returns the cached board, or nil when nothing is cached, along
	// with the generation a freshly built board must be stored under.
	Get(ctx context.Context) (*model.KitchenBoard, int64, error)
	// Set stores b unless the cache was invalidated after generation was read.
	Set(ctx context.Context, b *model.KitchenBoard, generation int64) error
	// Invalidate drops the cached board after any status change.
	Invalidate(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisCache creates a board cache entry that expires after ttl.
func NewRedisCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) Cache {
	return &redisCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "board_cache").Logger(),
	}
}

func (c *redisCache) Get(ctx context.Context) (*model.KitchenBoard, int64, error) {
	vals, err := c.client.MGet(ctx, Key, GenerationKey).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis get board: %w", err)
	}

	gen, err := parseGeneration(vals[1])
	if err != nil {
		return nil, 0, err
	}

	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, nil
	}

	var b model.KitchenBoard
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		c.logger.Warn().Err(err).Msg("discarding unreadable board cache entry")
		return nil, gen, nil
	}
	return &b, gen, nil
}

func (c *redisCache) Set(ctx context.Context, b *model.KitchenBoard, generation int64) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, GenerationKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		gen, err := parseGeneration(nilIfEmpty(cur))
		if err != nil {
			return err
		}
		if gen != generation {
			return redis.TxFailedErr
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, Key, data, c.ttl)
			return nil
		})
		return err
	}, GenerationKey)

	if errors.Is(err, redis.TxFailedErr) {
		c.logger.Debug().Int64("generation", generation).Msg("board changed while rendering, not caching")
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis set board: %w", err)
	}
	return nil
}

func (c *redisCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, GenerationKey)
		p.Del(ctx, Key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate board: %w", err)
	}
	c.logger.Debug().Msg("board cache invalidated")
	return nil
}

func parseGeneration(v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	gen, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad board generation %q: %w", s, err)
	}
	return gen, nil
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
