package kv

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/storage/redis/v3"
)

// KeyPrefix namespaces every key written to a shared Redis database.
const KeyPrefix = "desksort:"

// RedisStorage stores each key under KeyPrefix in Redis.
type RedisStorage struct {
	db *redis.Storage
}

// OpenRedis connects to url. The driver pings on construction and panics
// when the server is unreachable; that panic is returned as an error.
func OpenRedis(url string) (s *RedisStorage, err error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("redis url is empty")
	}
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("failed to connect to redis: %v", r)
		}
	}()
	db := redis.New(redis.Config{URL: url})
	return &RedisStorage{db: db}, nil
}

func prefixed(key string) string {
	return KeyPrefix + key
}

func (s *RedisStorage) Get(key string) ([]byte, error) {
	return s.db.Get(prefixed(key))
}

func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.db.Set(prefixed(key), val, exp)
}

func (s *RedisStorage) Delete(key string) error {
	return s.db.Delete(prefixed(key))
}

// Reset deletes only desksort keys. The driver's own Reset runs FLUSHDB,
// which would wipe unrelated data in a shared database.
func (s *RedisStorage) Reset() error {
	ctx := context.Background()
	conn := s.db.Conn()
	var cursor uint64
	for {
		keys, next, err := conn.Scan(ctx, cursor, KeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan redis keys: %w", err)
		}
		if len(keys) > 0 {
			if err := conn.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete redis keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (s *RedisStorage) Close() error {
	return s.db.Close()
}
