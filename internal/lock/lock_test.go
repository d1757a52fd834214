package lock

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func exclusive(t *testing.T, l Locker) {
	t.Helper()
	ctx := context.Background()
	var holders, max atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "upload")
			if err != nil {
				t.Error(err)
				return
			}
			n := holders.Add(1)
			if n > max.Load() {
				max.Store(n)
			}
			time.Sleep(time.Millisecond)
			holders.Add(-1)
			unlock()
		}()
	}
	wg.Wait()
	if max.Load() != 1 {
		t.Errorf("expected one holder at a time, saw %d", max.Load())
	}
}

func TestLocal(t *testing.T) {
	exclusive(t, NewLocal())
}

func TestLocalKeysAreIndependent(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}
	defer unlock()

	done := make(chan struct{})
	go func() {
		u, err := l.Lock(context.Background(), "b")
		if err == nil {
			u()
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("lock on another key blocked")
	}
}

func TestLocalHonoursContext(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background(), "held")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err = l.Lock(ctx, "held"); !errors.Is(err, ErrNotAcquired) {
		t.Errorf("expected ErrNotAcquired, got %v", err)
	}
	unlock()

	// The abandoned attempt must not keep the key.
	ctx, cancel = context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlock, err = l.Lock(ctx, "held")
	if err != nil {
		t.Fatalf("lock not released after an abandoned attempt: %s", err)
	}
	unlock()
}

func redisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	c := redis.NewClient(&redis.Options{Addr: addr})
	if err := c.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %s", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRedis(t *testing.T) {
	exclusive(t, NewRedis(redisClient(t), "filecat-test:"+t.Name()+":", time.Second))
}

func TestRedisHonoursContext(t *testing.T) {
	l := NewRedis(redisClient(t), "filecat-test:"+t.Name()+":", 10*time.Second)
	unlock, err := l.Lock(context.Background(), "held")
	if err != nil {
		t.Fatal(err)
	}
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if _, err = l.Lock(ctx, "held"); !errors.Is(err, ErrNotAcquired) {
		t.Errorf("expected ErrNotAcquired, got %v", err)
	}
}
