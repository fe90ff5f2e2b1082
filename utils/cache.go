package utils

import (
	"context"
	"encoding/json"
	"time"
)

// RankingCachePrefix namespaces every cached ranking response.
const RankingCachePrefix = "cache:ranking:"

const cacheOpTimeout = 2 * time.Second

// CacheGetBytes returns cached bytes for a key from Redis.
func CacheGetBytes(ctx context.Context, key string) ([]byte, bool) {
	rc := GetRedis()
	if rc == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()
	b, err := rc.Get(ctx, key).Bytes()
	if err != nil {
		Sugar.Debugf("cache get miss key=%s err=%v", key, err)
		return nil, false
	}
	return b, true
}

// CacheSetJSON marshals v and stores it for ttl. A non-positive ttl skips the write.
func CacheSetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	rc := GetRedis()
	if rc == nil || ttl <= 0 {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()
	if err := rc.Set(ctx, key, b, ttl).Err(); err != nil {
		Sugar.Warnf("cache set failed key=%s err=%v", key, err)
	}
}

// InvalidateByPrefix deletes keys that match the given prefix using SCAN.
func InvalidateByPrefix(ctx context.Context, prefix string) {
	rc := GetRedis()
	if rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var cursor uint64
	for i := 0; i < 10; i++ { // limit rounds to avoid long loops
		keys, cur, err := rc.Scan(ctx, cursor, prefix+"*", 1000).Result()
		if err != nil {
			Sugar.Warnf("cache invalidate scan failed prefix=%s err=%v", prefix, err)
			return
		}
		cursor = cur
		if len(keys) > 0 {
			if err := rc.Del(ctx, keys...).Err(); err != nil {
				Sugar.Warnf("cache invalidate delete failed prefix=%s err=%v", prefix, err)
			}
		}
		if cursor == 0 {
			return
		}
	}
}

// InvalidateRankings drops every cached ranking response.
func InvalidateRankings(ctx context.Context) {
	InvalidateByPrefix(ctx, RankingCachePrefix)
}
