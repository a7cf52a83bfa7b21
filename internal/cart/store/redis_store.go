package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Symbiotnev/PITIA-pitia/internal/cart/domain"
	"github.com/redis/go-redis/v9"
)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    90 * 24 * time.Hour, // abandoned carts expire after 90 days
	}
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*domain.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &cart, nil
}

// Save writes the cart under WATCH so a concurrent writer invalidates the
// transaction instead of being silently overwritten.
func (s *RedisStore) Save(ctx context.Context, cart *domain.Cart) error {
	key := cartKey(cart.SessionID)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if cart.Version != 0 {
				return ErrCartConflict
			}
		case err != nil:
			return fmt.Errorf("redis get failed: %w", err)
		default:
			var current domain.Cart
			if err := json.Unmarshal(data, &current); err != nil {
				return fmt.Errorf("unmarshal stored cart failed: %w", err)
			}
			if current.Version != cart.Version {
				return ErrCartConflict
			}
		}

		next := *cart
		next.Version = cart.Version + 1
		next.UpdatedAt = time.Now()

		payload, err := json.Marshal(&next)
		if err != nil {
			return fmt.Errorf("marshal cart failed: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		if err != nil {
			return fmt.Errorf("redis set failed: %w", err)
		}

		cart.Version = next.Version
		cart.UpdatedAt = next.UpdatedAt
		return nil
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrCartConflict
	}
	return err
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
