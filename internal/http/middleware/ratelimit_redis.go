package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/artemisa-labs/website-api/pkg/logging"
)

// slidingWindowScript atomically prunes, checks and records inside
// Redis, so concurrent requests across instances cannot both take the
// last slot.
//
// KEYS[1] window key, ARGV[1] cutoff ms, ARGV[2] limit,
// ARGV[3] now ms, ARGV[4] member, ARGV[5] ttl ms.
var slidingWindowScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, ARGV[1])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[2]) then
  return 0
end
redis.call('ZADD', KEYS[1], ARGV[3], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return 1
`)

// RedisSlidingWindowLimiter is the shared-cache variant of the sliding
// window limiter, for deployments running more than one API instance.
type RedisSlidingWindowLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *logging.Logger
	now    func() time.Time
}

// NewRedisSlidingWindowLimiter creates a limiter backed by the given
// Redis client.
func NewRedisSlidingWindowLimiter(client *redis.Client, limit int, window time.Duration, logger *logging.Logger) *RedisSlidingWindowLimiter {
	if client == nil {
		panic("middleware: redis client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisSlidingWindowLimiter{
		client: client,
		limit:  limit,
		window: window,
		logger: logger,
		now:    time.Now,
	}
}

// Allow reports whether a request from id is within the limit, and
// records it if so. On Redis errors the limiter fails open: losing a
// submission to an unavailable cache is worse than letting one through.
func (rl *RedisSlidingWindowLimiter) Allow(id string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	res, err := slidingWindowScript.Run(ctx, rl.client,
		[]string{"ratelimit:" + id},
		strconv.FormatInt(cutoff.UnixMilli(), 10),
		strconv.Itoa(rl.limit),
		strconv.FormatInt(now.UnixMilli(), 10),
		uuid.NewString(),
		strconv.FormatInt(rl.window.Milliseconds(), 10),
	).Result()
	if err != nil {
		rl.logger.Error("redis rate limit check failed, allowing request", "error", err, "id", id)
		return true
	}

	allowed, ok := res.(int64)
	return !ok || allowed == 1
}
