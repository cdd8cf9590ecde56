package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"invitation-canvas-editor/internal/logger"
)

// NewClient connects to addr. It returns nil when redis is unreachable so the
// server can run without a cache.
func NewClient(ctx context.Context, addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warnf("Redis not available at %s. Running without Redis.", addr)
		_ = client.Close()
		return nil
	}

	logger.Infof("Redis connected successfully.")
	return client
}

// Cache is a JSON cache plus a pub/sub fan-out. Every method is a no-op on a nil client.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get decodes the value at key into dest and reports whether it was present.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

// IncrementVersion bumps a version counter so keys built from the old version stop matching.
func (c *Cache) IncrementVersion(ctx context.Context, versionKey string) int64 {
	if !c.Enabled() {
		return 0
	}
	v, err := c.client.Incr(ctx, versionKey).Result()
	if err != nil {
		logger.Warnf("[CACHE] incr %s: %v", versionKey, err)
		return 0
	}
	return v
}

func (c *Cache) GetVersion(ctx context.Context, versionKey string) int64 {
	if !c.Enabled() {
		return 0
	}
	v, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil {
		return 0
	}
	return v
}

// Publish sends payload, JSON encoded, to channel.
func (c *Cache) Publish(ctx context.Context, channel string, payload any) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, channel, raw).Err()
}

// Subscribe streams messages on channel until ctx ends. The returned channel is
// closed when the subscription stops. A disabled cache yields a nil channel.
func (c *Cache) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	if !c.Enabled() {
		return nil, nil
	}
	sub := c.client.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- []byte(m.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
