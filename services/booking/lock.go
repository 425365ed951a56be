package booking

import (
	"context"
	"fmt"

	"swapp/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisLocker implements Locker with a per-teacher SET NX key. The TTL bounds
// how long a crashed process can keep a teacher's calendar locked.
type RedisLocker struct {
	Client *redis.Client
}

// NewRedisLocker creates a Locker backed by the shared lock client.
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{Client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, teacherID string) (func(), bool, error) {
	key := utils.BookingLockPrefix + teacherID

	ok, err := l.Client.SetNX(ctx, key, "1", utils.BookingLockTTL).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire booking lock for teacher %s: %w", teacherID, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		if err := l.Client.Del(context.Background(), key).Err(); err != nil {
			utils.GetLogger().Warn("failed to release booking lock",
				zap.String("teacherID", teacherID), zap.Error(err))
		}
	}
	return release, true, nil
}
