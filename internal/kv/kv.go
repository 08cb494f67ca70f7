// Package kv provides the byte-oriented key/value backends behind the
// config store. The Storage interface mirrors fiber's storage contract so
// gofiber/storage drivers plug in unchanged.
package kv

import (
	"fmt"
	"strings"
	"time"
)

const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Storage is a durable key/value backend. Get of a missing key returns nil, nil.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
	Reset() error
	Close() error
}

type Options struct {
	Backend  string
	Path     string
	RedisURL string
}

// Open returns the backend selected by opts.Backend; empty means file.
func Open(opts Options) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		return OpenFile(opts.Path)
	case BackendRedis:
		return OpenRedis(opts.RedisURL)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}

var (
	_ Storage = (*FileStorage)(nil)
	_ Storage = (*RedisStorage)(nil)
)
