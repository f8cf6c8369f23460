package cache

import (
	"context"
	"errors"
	"time"

	"periscope-sol/internal/idl"
	"periscope-sol/internal/idlerr"

	"github.com/redis/go-redis/v9"
)

// Redis key 前缀
const idlKeyPrefix = "periscope:idl:"

// DefaultIdlTTL IDL 升级频率很低，默认缓存一天
const DefaultIdlTTL = 24 * time.Hour

// scan 每批返回的 key 数量
const clearScanCount = 200

// RedisIdlStore 把规范格式 IDL 存在 Redis 中，供多个进程共享
type RedisIdlStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisIdlStore ttl <= 0 时使用 DefaultIdlTTL
func NewRedisIdlStore(rdb *redis.Client, ttl time.Duration) *RedisIdlStore {
	if ttl <= 0 {
		ttl = DefaultIdlTTL
	}
	return &RedisIdlStore{rdb: rdb, ttl: ttl}
}

func (r *RedisIdlStore) getKey(program string) string {
	return idlKeyPrefix + program
}

func (r *RedisIdlStore) Get(ctx context.Context, program string) (*idl.Document, bool, error) {
	data, err := r.rdb.Get(ctx, r.getKey(program)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, idlerr.CacheFailed("redis get "+program, err)
	}

	doc, err := decode(program, data)
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func (r *RedisIdlStore) Set(ctx context.Context, program string, doc *idl.Document) error {
	data, err := encode(program, doc)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, r.getKey(program), data, r.ttl).Err(); err != nil {
		return idlerr.CacheFailed("redis set "+program, err)
	}
	return nil
}

func (r *RedisIdlStore) Clear(ctx context.Context, program string) error {
	if err := r.rdb.Del(ctx, r.getKey(program)).Err(); err != nil {
		return idlerr.CacheFailed("redis del "+program, err)
	}
	return nil
}

// ClearAll 只删除本前缀下的 key
func (r *RedisIdlStore) ClearAll(ctx context.Context) error {
	iter := r.rdb.Scan(ctx, 0, idlKeyPrefix+"*", clearScanCount).Iterator()
	keys := make([]string, 0, clearScanCount)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= clearScanCount {
			if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
				return idlerr.CacheFailed("redis del batch", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return idlerr.CacheFailed("redis scan", err)
	}
	if len(keys) > 0 {
		if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
			return idlerr.CacheFailed("redis del batch", err)
		}
	}
	return nil
}

// TTL 返回 program 对应 key 的剩余过期时间
func (r *RedisIdlStore) TTL(ctx context.Context, program string) (time.Duration, error) {
	ttl, err := r.rdb.TTL(ctx, r.getKey(program)).Result()
	if err != nil {
		return 0, idlerr.CacheFailed("redis ttl "+program, err)
	}
	return ttl, nil
}
