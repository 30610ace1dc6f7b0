package cache

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options selects and configures a cache backend.
type Options struct {
	// Backend is "memory" or "redis". Empty defaults to memory.
	Backend    string
	TTL        time.Duration
	MaxEntries int
	Prefix     string
	RedisAddr  string
}

// New builds the configured cache backend.
func New(opts Options) (TranslationCache, error) {
	switch opts.Backend {
	case "", "memory":
		return NewMemoryCache(opts.TTL, opts.MaxEntries), nil
	case "redis":
		if opts.RedisAddr == "" {
			return nil, fmt.Errorf("redis backend requires an address")
		}
		client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		return NewRedisCache(client, opts.Prefix, opts.TTL), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
