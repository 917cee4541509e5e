package lock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AndDavies/rooted-companion/internal"
)

const lockTTL = 2 * time.Minute

// RedisLocker implements the advisory lock with SET NX EX. The TTL bounds
// how long a crashed run can shadow the key.
type RedisLocker struct {
	client *redis.Client
	logger internal.Logger
}

func NewRedisLocker(addr string, logger internal.Logger) *RedisLocker {
	return &RedisLocker{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		logger: logger,
	}
}

func lockKey(userID, date string) string {
	return "plan-lock:" + userID + ":" + date
}

func (l *RedisLocker) TryAcquire(ctx context.Context, userID, date string) bool {
	ok, err := l.client.SetNX(ctx, lockKey(userID, date), "1", lockTTL).Result()
	if err != nil {
		// Treat an unreachable lock backend the same as a lost race.
		l.logger.Warnf("lock: acquire failed for %s/%s: %v", userID, date, err)
		return false
	}
	return ok
}

func (l *RedisLocker) Release(ctx context.Context, userID, date string) {
	if err := l.client.Del(ctx, lockKey(userID, date)).Err(); err != nil {
		l.logger.Warnf("lock: release failed for %s/%s: %v", userID, date, err)
	}
}

func (l *RedisLocker) Close() error {
	return l.client.Close()
}

var _ Locker = (*RedisLocker)(nil)
