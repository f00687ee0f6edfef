package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// GetJSON 讀取並解碼 key；key 不存在時回傳 (false, nil)
func GetJSON(ctx context.Context, c Cache, key string, dst any) (bool, error) {
	raw, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON 編碼後寫入 key
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// setIfVersion 版本號未變才寫入；KEYS[1] 資料、KEYS[2] 版本號，ARGV 為 版本號、值、毫秒 TTL
const setIfVersion = `
if (redis.call("GET", KEYS[2]) or "0") ~= ARGV[1] then
	return false
end
if tonumber(ARGV[3]) > 0 then
	return redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
end
return redis.call("SET", KEYS[1], ARGV[2])
`

// Version 讀取版本號，不存在視為 0
func Version(ctx context.Context, c Cache, verKey string) (int64, error) {
	v, err := c.Get(ctx, verKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache version %s: %w", verKey, err)
	}
	return v, nil
}

// BumpVersion 讓之前讀到的版本號全部失效
func BumpVersion(ctx context.Context, c Cache, verKey string) error {
	if err := c.Incr(ctx, verKey).Err(); err != nil {
		return fmt.Errorf("cache bump %s: %w", verKey, err)
	}
	return nil
}

// SetJSONIfVersion 僅在 verKey 仍為 ver 時寫入 key；版本已變時回傳 (false, nil)
func SetJSONIfVersion(ctx context.Context, c Cache, key, verKey string, ver int64, v any, ttl time.Duration) (bool, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("cache encode %s: %w", key, err)
	}
	err = c.Eval(ctx, setIfVersion, []string{key, verKey}, strconv.FormatInt(ver, 10), raw, ttl.Milliseconds()).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache set %s: %w", key, err)
	}
	return true, nil
}
