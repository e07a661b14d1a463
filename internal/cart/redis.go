package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lightbox/internal/domain/models"

	"github.com/redis/go-redis/v9"
)

type RedisStorage struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStorage(client redis.Cmdable, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, ttl: ttl}
}

func (r *RedisStorage) Load(ctx context.Context, id string) (models.Cart, error) {
	const op = "cart.RedisStorage.Load"

	raw, err := r.client.Get(ctx, cartKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Cart{}, ErrCartNotFound
	}
	if err != nil {
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	var cart models.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return models.Cart{}, fmt.Errorf("%s: decode: %w", op, err)
	}

	return cart, nil
}

func (r *RedisStorage) Save(ctx context.Context, cart models.Cart) error {
	const op = "cart.RedisStorage.Save"

	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", op, err)
	}

	if err := r.client.Set(ctx, cartKey(cart.ID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisStorage) Delete(ctx context.Context, id string) error {
	const op = "cart.RedisStorage.Delete"

	if err := r.client.Del(ctx, cartKey(id)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func cartKey(id string) string {
	return "cart:" + id
}
