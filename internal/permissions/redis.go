package permissions

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces permission keys.
const DefaultRedisPrefix = "calc:permissions"

// RedisChecker reads a user's patterns from the set "<prefix>:<user>".
type RedisChecker struct {
	client redis.Cmdable
	prefix string
}

// NewRedisChecker creates a checker over an existing client.
func NewRedisChecker(client redis.Cmdable, prefix string) *RedisChecker {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisChecker{client: client, prefix: prefix}
}

// NewRedisClient dials addr with the options the checker needs: a single
// attempt per call, since the breaker owns retry decisions.
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:       addr,
		MaxRetries: -1,
	})
}

// Key returns the Redis key holding user's patterns.
func (r *RedisChecker) Key(user string) string {
	return r.prefix + ":" + user
}

// Allowed matches operation against the patterns stored for user.
func (r *RedisChecker) Allowed(ctx context.Context, operation, user string) (bool, error) {
	patterns, err := r.client.SMembers(ctx, r.Key(user)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis permissions lookup: %w", err)
	}
	return matchAny(patterns, operation)
}

// Grant adds patterns to user's set.
func (r *RedisChecker) Grant(ctx context.Context, user string, patterns ...string) error {
	if len(patterns) == 0 {
		return nil
	}
	if err := (&Policy{Users: map[string][]string{user: patterns}}).Validate(); err != nil {
		return err
	}

	members := make([]interface{}, len(patterns))
	for i, p := range patterns {
		members[i] = p
	}
	if err := r.client.SAdd(ctx, r.Key(user), members...).Err(); err != nil {
		return fmt.Errorf("redis grant: %w", err)
	}
	return nil
}

// Revoke removes patterns from user's set, or the whole set when none are given.
func (r *RedisChecker) Revoke(ctx context.Context, user string, patterns ...string) error {
	var err error
	if len(patterns) == 0 {
		err = r.client.Del(ctx, r.Key(user)).Err()
	} else {
		members := make([]interface{}, len(patterns))
		for i, p := range patterns {
			members[i] = p
		}
		err = r.client.SRem(ctx, r.Key(user), members...).Err()
	}
	if err != nil {
		return fmt.Errorf("redis revoke: %w", err)
	}
	return nil
}
