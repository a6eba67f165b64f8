// Package ratelimit throttles login attempts per client in Redis.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// hitScript counts one attempt and returns {count, remaining window in ms}.
// A counter left without a TTL gets one, so it can never block forever.
var hitScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {n, ttl}
`)

const redisTimeout = 2 * time.Second

// Verdict is the outcome of one counted attempt.
type Verdict struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Attempts limits how often a client may try to log in. Each client's
// window opens on its first attempt and lasts until the counter expires.
// A nil *Attempts allows everything.
type Attempts struct {
	client redis.UniversalClient
	prefix string
	limit  int
	window time.Duration
}

// NewAttempts builds a limiter allowing limit attempts per window.
func NewAttempts(client redis.UniversalClient, prefix string, limit int, window time.Duration) (*Attempts, error) {
	if client == nil {
		return nil, errors.New("ratelimit: redis client is required")
	}
	if limit <= 0 || window < time.Millisecond {
		return nil, fmt.Errorf("ratelimit: invalid limit %d per %s", limit, window)
	}
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = "clegacy:attempts"
	}
	return &Attempts{client: client, prefix: prefix, limit: limit, window: window}, nil
}

func (a *Attempts) key(client string) string {
	client = strings.TrimSpace(client)
	if client == "" {
		client = "unknown"
	}
	return a.prefix + ":" + client
}

// Hit counts an attempt by client. When Redis fails the error is returned
// and the verdict denies the attempt.
func (a *Attempts) Hit(ctx context.Context, client string) (Verdict, error) {
	if a == nil {
		return Verdict{Allowed: true}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	res, err := hitScript.Run(ctx, a.client, []string{a.key(client)}, a.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Verdict{}, fmt.Errorf("ratelimit: count attempt: %w", err)
	}
	if len(res) != 2 {
		return Verdict{}, fmt.Errorf("ratelimit: unexpected script reply %v", res)
	}
	count, ttl := int(res[0]), time.Duration(res[1])*time.Millisecond
	if count > a.limit {
		return Verdict{RetryAfter: ttl}, nil
	}
	return Verdict{Allowed: true, Remaining: a.limit - count}, nil
}

// Reset forgets the attempts counted for client.
func (a *Attempts) Reset(ctx context.Context, client string) error {
	if a == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	return a.client.Del(ctx, a.key(client)).Err()
}
