// Package lock 提供按月份互斥的排班生成锁
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLocked 该月份正在生成排班
var ErrLocked = errors.New("该月份排班正在生成中")

// Locker 月份锁
type Locker interface {
	// Acquire 获取锁，成功时返回释放函数；已被占用时返回 ErrLocked
	Acquire(ctx context.Context, year int, month time.Month) (release func(), err error)
}

// Key 月份锁的键
func Key(year int, month time.Month) string {
	return fmt.Sprintf("roster:lock:%04d-%02d", year, int(month))
}

// LocalLocker 进程内锁，未配置 Redis 时使用
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewLocalLocker 创建进程内锁
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]bool)}
}

// Acquire 获取锁
func (l *LocalLocker) Acquire(ctx context.Context, year int, month time.Month) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := Key(year, month)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, ErrLocked
	}
	l.held[key] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}

// releaseScript 仅当锁仍属于自己时才删除
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker 基于 Redis SET NX PX 的分布式锁，多实例部署时使用
type RedisLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisLocker 创建 Redis 锁，ttl 应大于一次生成的最长耗时
func NewRedisLocker(client redis.UniversalClient, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

// Acquire 获取锁
func (l *RedisLocker) Acquire(ctx context.Context, year int, month time.Month) (func(), error) {
	key := Key(year, month)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("获取排班锁失败: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// 调用方的 ctx 可能已取消，释放使用独立的超时
			rctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			releaseScript.Run(rctx, l.client, []string{key}, token)
		})
	}, nil
}
