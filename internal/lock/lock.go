package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLocked 表示该学期已经有一个排课任务在运行
var ErrLocked = errors.New("该学期正在排课")

// 只有持有者才能释放锁，防止锁过期后被别的请求重新获取时误删
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// TermLocker 基于 redis 的学期级互斥锁，保证同一个学期同一时间只有一个排课或重置任务
type TermLocker struct {
	rdb        redis.Cmdable
	expiration time.Duration
}

func NewTermLocker(rdb redis.Cmdable, expiration time.Duration) *TermLocker {
	return &TermLocker{
		rdb:        rdb,
		expiration: expiration,
	}
}

func key(termID int64) string {
	return fmt.Sprintf("schedule_lock_term_%d", termID)
}

// Acquire 使用 token 获取学期锁，锁已被占用时返回 ErrLocked
func (l *TermLocker) Acquire(ctx context.Context, termID int64, token string) error {
	ok, err := l.rdb.SetNX(ctx, key(termID), token, l.expiration).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrLocked
	}
	return nil
}

// Release 释放学期锁，token 不匹配（锁已过期或被他人持有）时什么都不做
func (l *TermLocker) Release(ctx context.Context, termID int64, token string) error {
	return releaseScript.Run(ctx, l.rdb, []string{key(termID)}, token).Err()
}
