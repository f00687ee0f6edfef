package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewMemoryFake 回傳以 map 保存資料的 FakeCache，不處理 TTL；
// Eval 只認得 SetJSONIfVersion 使用的腳本
func NewMemoryFake() *FakeCache {
	var mu sync.Mutex
	data := map[string]string{}

	return &FakeCache{
		GetFn: func(_ context.Context, key string) *redis.StringCmd {
			mu.Lock()
			defer mu.Unlock()
			v, ok := data[key]
			if !ok {
				return redis.NewStringResult("", redis.Nil)
			}
			return redis.NewStringResult(v, nil)
		},
		SetFn: func(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
			mu.Lock()
			defer mu.Unlock()
			data[key] = toString(value)
			return redis.NewStatusResult("OK", nil)
		},
		DelFn: func(_ context.Context, keys ...string) *redis.IntCmd {
			mu.Lock()
			defer mu.Unlock()
			var n int64
			for _, k := range keys {
				if _, ok := data[k]; ok {
					delete(data, k)
					n++
				}
			}
			return redis.NewIntResult(n, nil)
		},
		IncrFn: func(_ context.Context, key string) *redis.IntCmd {
			mu.Lock()
			defer mu.Unlock()
			n, _ := strconv.ParseInt(data[key], 10, 64)
			n++
			data[key] = strconv.FormatInt(n, 10)
			return redis.NewIntResult(n, nil)
		},
		EvalFn: func(_ context.Context, script string, keys []string, args ...any) *redis.Cmd {
			if script != setIfVersion {
				panic("unexpected Eval script")
			}
			mu.Lock()
			defer mu.Unlock()
			cur, ok := data[keys[1]]
			if !ok {
				cur = "0"
			}
			if cur != toString(args[0]) {
				return redis.NewCmdResult(nil, redis.Nil)
			}
			data[keys[0]] = toString(args[1])
			return redis.NewCmdResult("OK", nil)
		},
	}
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
