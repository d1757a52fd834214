// Package lock provides the per-upload locks used when operations on one upload must not interleave.
package lock

import (
	"context"
	"errors"
	"time"

	"codeberg.org/gruf/go-mutexes"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var ErrNotAcquired = errors.New("lock not acquired")

type Locker interface {
	// Lock blocks until key is held or ctx is done. The returned function releases the lock.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Local serializes holders within this process.
type Local struct {
	locks *mutexes.MutexMap
}

func NewLocal() *Local {
	return &Local{locks: &mutexes.MutexMap{}}
}

// Lock gives up when ctx is done first. The abandoned acquisition is released as soon as it succeeds.
func (l *Local) Lock(ctx context.Context, key string) (unlock func(), err error) {
	acquired := make(chan func(), 1)
	go func() {
		acquired <- l.locks.Lock(key)
	}()

	select {
	case unlock = <-acquired:
		return unlock, nil
	case <-ctx.Done():
		go func() {
			(<-acquired)()
		}()
		return nil, errors.Join(ErrNotAcquired, ctx.Err())
	}
}

const retryInterval = 50 * time.Millisecond

// releaseScript deletes the key only while it still holds the caller's token, so that a holder whose
// lock expired cannot release somebody else's.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Redis serializes holders across every process sharing the server.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) Lock(ctx context.Context, key string) (unlock func(), err error) {
	k := r.prefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()
	for {
		ok, err := r.client.SetNX(ctx, k, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.Join(ErrNotAcquired, err)
			}
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrNotAcquired, ctx.Err())
		case <-ticker.C:
		}
	}

	return func() {
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, r.client, []string{k}, token).Err(); err != nil {
			log.Error().Err(err).Str("key", k).Msg("failed to release lock; it expires on its own")
		}
	}, nil
}
