// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/folio/internal/platform/constants"
)

// RedisGrantStore implements [GrantStore] with one key per grant plus one
// set per collection indexing its grant ids.
type RedisGrantStore struct {
	client *redis.Client
}

// NewRedisGrantStore creates a redis-backed grant registry.
func NewRedisGrantStore(client *redis.Client) *RedisGrantStore {
	return &RedisGrantStore{client: client}
}

/*
Save stores a grant id with its collection and TTL.

Parameters:
  - context: context.Context
  - grantID: string (token jti)
  - collectionID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (store *RedisGrantStore) Save(context context.Context, grantID, collectionID string, ttl time.Duration) error {
	indexKey := collectionKey(collectionID)

	_, err := store.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Set(context, grantKey(grantID), collectionID, ttl)
		pipe.SAdd(context, indexKey, grantID)

		// The index lives as long as its newest grant.
		pipe.Expire(context, indexKey, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_grant_save_failed: %w", err)
	}

	return nil
}

// Lookup returns the collection of a live grant.
func (store *RedisGrantStore) Lookup(context context.Context, grantID string) (string, bool, error) {
	collectionID, err := store.client.Get(context, grantKey(grantID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis_grant_lookup_failed: %w", err)
	}

	return collectionID, true, nil
}

// RevokeAll deletes every grant indexed under the collection, then the index.
func (store *RedisGrantStore) RevokeAll(context context.Context, collectionID string) error {
	indexKey := collectionKey(collectionID)

	grantIDs, err := store.client.SMembers(context, indexKey).Result()
	if err != nil {
		return fmt.Errorf("redis_grant_index_failed: %w", err)
	}

	keys := make([]string, 0, len(grantIDs)+1)
	for _, grantID := range grantIDs {
		keys = append(keys, grantKey(grantID))
	}
	keys = append(keys, indexKey)

	if err := store.client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("redis_grant_revoke_failed: %w", err)
	}

	return nil
}

func grantKey(grantID string) string {
	return constants.RedisPrefixGrant + grantID
}

func collectionKey(collectionID string) string {
	return constants.RedisPrefixCollectionGrants + collectionID
}
