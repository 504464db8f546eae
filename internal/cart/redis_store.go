package cart

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"bakery-storefront/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const keyPrefix = "cart:"

var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{16,128}$`)

// ValidToken reports whether token can address a cart.
func ValidToken(token string) bool {
	return tokenPattern.MatchString(token)
}

// Store persists carts by device token.
type Store interface {
	// Get returns the cart for token, or an empty cart if none is stored.
	Get(ctx context.Context, token string) (*Cart, error)

	// Save writes the cart and refreshes its expiry.
	Save(ctx context.Context, token string, c *Cart) error

	// Delete forgets the cart.
	Delete(ctx context.Context, token string) error
}

type redisStore struct {
	client  *redis.Client
	ttl     time.Duration
	taxRate decimal.Decimal
	logger  zerolog.Logger
}

// NewRedisStore creates a Redis-backed cart store.
func NewRedisStore(client *redis.Client, ttl time.Duration, taxRate decimal.Decimal, logger zerolog.Logger) Store {
	return &redisStore{
		client:  client,
		ttl:     ttl,
		taxRate: taxRate,
		logger:  logger.With().Str("repository", "cart").Logger(),
	}
}

func (s *redisStore) Get(ctx context.Context, token string) (*Cart, error) {
	if !ValidToken(token) {
		return nil, model.ErrInvalidCartToken
	}

	data, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return New(s.taxRate), nil
		}
		s.logger.Error().Err(err).Msg("failed to read cart")
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	c, err := Unmarshal(data, s.taxRate)
	if err != nil {
		s.logger.Warn().Err(err).Msg("discarding unreadable cart")
		return New(s.taxRate), nil
	}
	return c, nil
}

func (s *redisStore) Save(ctx context.Context, token string, c *Cart) error {
	if !ValidToken(token) {
		return model.ErrInvalidCartToken
	}

	data, err := Marshal(c)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, keyPrefix+token, data, s.ttl).Err(); err != nil {
		s.logger.Error().Err(err).Msg("failed to save cart")
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, token string) error {
	if !ValidToken(token) {
		return model.ErrInvalidCartToken
	}

	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		s.logger.Error().Err(err).Msg("failed to delete cart")
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}
