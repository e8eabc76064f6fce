package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/skyrocket/config"
	"github.com/Domenick1991/skyrocket/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client    redis.UniversalClient
	offersTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, offersTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		offersTTL: offersTTL,
	}
}

// NewWithClient wraps an existing client, e.g. a cluster client.
func NewWithClient(client redis.UniversalClient, offersTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, offersTTL: offersTTL}
}

// GetOffers returns nil, nil on a miss.
func (c *RedisCache) GetOffers(ctx context.Context, departure, arrival string) ([]domain.Offer, error) {
	data, err := c.client.HGet(ctx, offersKey(), routeField(departure, arrival)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var offers []domain.Offer
	if err := json.Unmarshal(data, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

func (c *RedisCache) SetOffers(ctx context.Context, departure, arrival string, offers []domain.Offer) error {
	payload, err := json.Marshal(offers)
	if err != nil {
		return err
	}
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, offersKey(), routeField(departure, arrival), payload)
	pipe.Expire(ctx, offersKey(), c.offersTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateOffers drops every cached route listing.
func (c *RedisCache) InvalidateOffers(ctx context.Context) error {
	return c.client.Del(ctx, offersKey()).Err()
}

// ClaimCallback marks an OAuth callback as being handled. It reports false
// when another instance already claimed the same provider and code.
func (c *RedisCache) ClaimCallback(ctx context.Context, provider, code string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, callbackKey(provider, code), "claimed", ttl).Result()
}

func (c *RedisCache) ReleaseCallback(ctx context.Context, provider, code string) error {
	return c.client.Del(ctx, callbackKey(provider, code)).Err()
}

// DeleteSessionKey removes a backend session payload so a revoked session
// cannot be resumed.
func (c *RedisCache) DeleteSessionKey(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Ping reports whether Redis is reachable.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func offersKey() string {
	return "cache:offers"
}

func routeField(departure, arrival string) string {
	return departure + "|" + arrival
}

func callbackKey(provider, code string) string {
	return fmt.Sprintf("lock:oauth:%s:%s", provider, code)
}
