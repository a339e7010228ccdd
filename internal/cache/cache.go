// Package cache memoises derived reports in Redis under versioned keys.
// Any mutation bumps the version, which invalidates every entry at once.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	versionKey  = "costeo:cache:version"
	bumpChannel = "costeo:cache:bump"
	keyPrefix   = "costeo"

	// buildTimeout bounds a shared build once it no longer follows the
	// context of the request that started it.
	buildTimeout = 30 * time.Second
)

// Cache wraps Redis based caching with versioning controls. A Cache without
// a Redis client still collapses concurrent identical builds.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
	log    zerolog.Logger
}

// New instantiates the cache helper. client may be nil.
func New(client *redis.Client, ttl time.Duration, log zerolog.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, log: log}
}

// Enabled reports whether results are stored in Redis.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Ping checks the Redis connection when one is configured.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Version returns the current cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, versionKey, 1, 0).Err(); err != nil {
			return 0, fmt.Errorf("init cache version: %w", err)
		}
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read cache version: %w", err)
	}
	return ver, nil
}

// BuildKey composes a cache key from parts and the current version.
func (c *Cache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := keyPrefix + ":" + strings.Join(parts, ":")
	if !c.Enabled() {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return joined + ":v" + strconv.FormatInt(ver, 10), nil
}

// FetchJSON fills dest from the cache or from loader. Concurrent calls for
// the same key share one loader run. Redis failures are logged and fall
// back to the loader.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}

	if c.Enabled() {
		payload, err := c.client.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			return json.Unmarshal(payload, dest)
		case !errors.Is(err, redis.Nil):
			c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
	}

	res := c.group.DoChan(key, func() (any, error) {
		// Other callers may be waiting on this build; one of them going away
		// must not fail the rest.
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), buildTimeout)
		defer cancel()

		value, err := loader(buildCtx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode cached value: %w", err)
		}
		if c.Enabled() {
			if err := c.client.Set(buildCtx, key, raw, c.ttl).Err(); err != nil {
				c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
			}
		}
		return raw, nil
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case r := <-res:
		if r.Err != nil {
			return r.Err
		}
		return json.Unmarshal(r.Val.([]byte), dest)
	}
}

// Bump invalidates the cache by incrementing the global version and
// publishing an event.
func (c *Cache) Bump(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	ver, err := c.client.Incr(ctx, versionKey).Result()
	if err != nil {
		return fmt.Errorf("bump cache version: %w", err)
	}
	if err := c.client.Publish(ctx, bumpChannel, strconv.FormatInt(ver, 10)).Err(); err != nil {
		return fmt.Errorf("publish cache bump: %w", err)
	}
	return nil
}

// Hash returns a stable hex digest of the JSON encoding of values, for use
// as a key part that changes whenever any input changes.
func Hash(values ...any) (string, error) {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, v := range values {
		if err := enc.Encode(v); err != nil {
			return "", fmt.Errorf("hash cache input: %w", err)
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:32], nil
}
