package lock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock re-acquired by another instance is never released by us.
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`

// renewScript extends the lease only while the key still holds our token.
const renewScript = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("pexpire", KEYS[1], ARGV[2]) else return 0 end`

// RedisLocker is a Locker shared by every instance pointing at the same
// Redis. The TTL bounds how long a crashed holder can block the key; a live
// holder renews its lease every third of the TTL until it unlocks.
type RedisLocker struct {
	client     redis.Cmdable
	ttl        time.Duration
	retry      time.Duration
	renewEvery time.Duration
	prefix     string
	newToken   func() string
}

func NewRedisLocker(client redis.Cmdable, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{
		client:     client,
		ttl:        ttl,
		retry:      25 * time.Millisecond,
		renewEvery: ttl / 3,
		prefix:     "hrcore:lock:",
		newToken:   uuid.NewString,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := l.newToken()
	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		timer := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	stop := make(chan struct{})
	renewed := make(chan struct{})
	go l.keepAlive(context.WithoutCancel(ctx), redisKey, token, stop, renewed)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-renewed
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
			defer cancel()
			if err := l.client.Eval(releaseCtx, releaseScript, []string{redisKey}, token).Err(); err != nil {
				slog.Warn("redis lock release failed", "key", redisKey, "err", err)
			}
		})
	}, nil
}

func (l *RedisLocker) keepAlive(ctx context.Context, redisKey, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	if l.renewEvery <= 0 {
		return
	}
	ticker := time.NewTicker(l.renewEvery)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			held, err := l.renew(ctx, redisKey, token)
			if err != nil {
				slog.Warn("redis lock renew failed", "key", redisKey, "err", err)
				continue
			}
			if !held {
				slog.Warn("redis lock lease lost", "key", redisKey)
				return
			}
		}
	}
}

// renew pushes the lease out by one TTL. It reports false once the key no
// longer carries token.
func (l *RedisLocker) renew(ctx context.Context, redisKey, token string) (bool, error) {
	renewCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	n, err := l.client.Eval(renewCtx, renewScript, []string{redisKey}, token, l.ttl.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
