package question

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker serializes writers of the question document.
type Locker interface {
	// Lock blocks until the lock is held or ctx is done.
	Lock(ctx context.Context) (unlock func() error, err error)
}

// LocalLocker is an in-process Locker.
type LocalLocker struct {
	sem chan struct{}
}

var _ Locker = (*LocalLocker)(nil)

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{sem: make(chan struct{}, 1)}
}

func (l *LocalLocker) Lock(ctx context.Context) (func() error, error) {
	select {
	case l.sem <- struct{}{}:
		return func() error {
			<-l.sem
			return nil
		}, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("acquire store lock: %w", ctx.Err())
	}
}

const (
	defaultLockTTL   = 10 * time.Second
	lockPollInterval = 25 * time.Millisecond
)

// releaseScript deletes the key only if it still holds our token.
const releaseScript = `
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`

type redisLockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisLocker is a Locker shared by every process pointing at the same
// Redis, for deployments that run several API replicas over one file.
// The key expires after ttl so a crashed holder cannot wedge writers.
type RedisLocker struct {
	client redisLockClient
	key    string
	ttl    time.Duration
}

var _ Locker = (*RedisLocker)(nil)

func NewRedisLocker(client redisLockClient, key string, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLocker{client: client, key: key, ttl: ttl}
}

func (l *RedisLocker) Lock(ctx context.Context) (func() error, error) {
	token := uuid.NewString()
	for {
		acquired, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire store lock: %w", err)
		}
		if acquired {
			return func() error {
				return l.client.Eval(context.Background(), releaseScript, []string{l.key}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire store lock: %w", ctx.Err())
		case <-time.After(lockPollInterval):
		}
	}
}
