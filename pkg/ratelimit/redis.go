package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "gynergy:ratelimit:"

// fixedWindow increments the counter only while it is under the limit, so
// rejected requests do not extend or consume the window.
var fixedWindow = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
if current >= tonumber(ARGV[1]) then
  return {0, current, redis.call("PTTL", KEYS[1])}
end
current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return {1, current, redis.call("PTTL", KEYS[1])}
`)

// RedisLimiter stores counters in Redis so quotas survive restarts and are
// shared by every instance.
type RedisLimiter struct {
	rdb *redis.Client
}

func NewRedisLimiter(rdb *redis.Client) *RedisLimiter {
	return &RedisLimiter{rdb: rdb}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, rule Rule) (Decision, error) {
	res, err := fixedWindow.Run(ctx, l.rdb, []string{keyPrefix + key}, rule.Limit, rule.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit %s: %w", key, err)
	}
	if len(res) != 3 {
		return Decision{}, fmt.Errorf("rate limit %s: unexpected reply %v", key, res)
	}

	allowed, count, pttl := res[0] == 1, int(res[1]), res[2]
	d := Decision{Allowed: allowed}
	if allowed {
		d.Remaining = rule.Limit - count
	} else if pttl > 0 {
		d.RetryAfter = time.Duration(pttl) * time.Millisecond
	}
	return d, nil
}
