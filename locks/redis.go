package locks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-ops/utils"
)

// ErrLockTimeout is returned when a lock could not be taken in time.
var ErrLockTimeout = errors.New("lock wait timed out")

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Redis takes locks with SET NX PX so several instances share them. The TTL
// bounds how long a crashed holder can block others. It is not extended while
// the lock is held: a holder that runs past it loses exclusivity, which is
// reported when it releases. LOCK_TTL must stay above the slowest transaction.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	prefix string
}

func NewRedis(client redis.UniversalClient, ttl, wait time.Duration) *Redis {
	return &Redis{
		client: client,
		ttl:    ttl,
		wait:   wait,
		retry:  25 * time.Millisecond,
		prefix: "restaurant-ops:lock:",
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	name := r.prefix + key
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, r.wait)
	defer cancel()

	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, name, token, r.ttl).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, fmt.Errorf("lock %s: %w", key, ErrLockTimeout)
		}
	}

	return func() {
		// release must work even when the caller's context is already done
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		log := utils.ErrorLogger.WithFields(logrus.Fields{"lock": key, "ttl": r.ttl})
		n, err := releaseScript.Run(releaseCtx, r.client, []string{name}, token).Int64()
		if err != nil {
			log.Errorf("failed to release lock: %v", err)
			return
		}
		if n == 0 {
			log.Error("lock expired before release")
		}
	}, nil
}
