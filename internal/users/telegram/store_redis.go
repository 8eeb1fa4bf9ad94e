// Copyright (c) 2026 LinkUp. All rights reserved.

package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/linkup-app/linkup/internal/platform/constants"
	"github.com/linkup-app/linkup/internal/users/identity"
)

// # Redis Identity Cache

// RedisIdentityCache implements [IdentityCache] on Redis.
//
// Entries are JSON-serialized users keyed by Telegram ID under the
// auth:identity: prefix with a bounded TTL, so a directory write at worst
// goes unobserved for one TTL window unless explicitly invalidated.
type RedisIdentityCache struct {
	client *redis.Client
}

// NewRedisIdentityCache constructs the cache over an established client.
func NewRedisIdentityCache(client *redis.Client) *RedisIdentityCache {
	return &RedisIdentityCache{client: client}
}

// identityKey builds the Redis key for a Telegram ID.
func identityKey(telegramID int64) string {
	return constants.RedisPrefixIdentity + strconv.FormatInt(telegramID, 10)
}

/*
Get retrieves a cached resolution for a Telegram ID.

Parameters:
  - context: context.Context
  - telegramID: int64

Returns:
  - *identity.User: The cached user, or nil on a miss
  - error: Infrastructure or decoding failures
*/
func (cache *RedisIdentityCache) Get(context context.Context, telegramID int64) (*identity.User, error) {
	payload, err := cache.client.Get(context, identityKey(telegramID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_identity_cache_get_failed: %w", err)
	}

	user := &identity.User{}
	if err := json.Unmarshal(payload, user); err != nil {
		return nil, fmt.Errorf("redis_identity_cache_decode_failed: %w", err)
	}

	return user, nil
}

/*
Set stores a resolved user under its Telegram ID.

Parameters:
  - context: context.Context
  - user: *identity.User

Returns:
  - error: Serialization or infrastructure failures
*/
func (cache *RedisIdentityCache) Set(context context.Context, user *identity.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("redis_identity_cache_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, identityKey(user.TelegramID), payload, constants.IdentityCacheTTL).Err(); err != nil {
		return fmt.Errorf("redis_identity_cache_set_failed: %w", err)
	}

	return nil
}

/*
Invalidate purges the cached resolution for a Telegram ID.

Parameters:
  - context: context.Context
  - telegramID: int64

Returns:
  - error: Infrastructure failures
*/
func (cache *RedisIdentityCache) Invalidate(context context.Context, telegramID int64) error {
	if err := cache.client.Del(context, identityKey(telegramID)).Err(); err != nil {
		return fmt.Errorf("redis_identity_cache_invalidate_failed: %w", err)
	}
	return nil
}

// NopIdentityCache implements [IdentityCache] without storage. Used when
// Redis is not wired, and in tests.
type NopIdentityCache struct{}

func (NopIdentityCache) Get(context.Context, int64) (*identity.User, error) { return nil, nil }
func (NopIdentityCache) Set(context.Context, *identity.User) error          { return nil }
func (NopIdentityCache) Invalidate(context.Context, int64) error            { return nil }
