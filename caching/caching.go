// Package caching wraps the in-memory TTL cache the panel uses to
// deduplicate feed and registry fetches. Mutating calls invalidate the
// affected keys explicitly; nothing here is authoritative.
package caching

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	// TTLFeed bounds how stale a rendered feed can be between mutations.
	TTLFeed = 30 * time.Second
	// TTLRegistry bounds the admin user registry.
	TTLRegistry = 30 * time.Second
)

// Cache keys
const (
	KeyFeed          = "feed:all"
	KeyRegistry      = "users:all"
	KeyMyBlogsPrefix = "feed:author:"
)

type Cache struct {
	memoryCache *cache.Cache

	ctx    context.Context
	cancel context.CancelFunc
}

func NewCache() *Cache {
	ctx, cancel := context.WithCancel(context.Background())
	return &Cache{
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Cache) Init() (err error) {
	defer func() {
		if err != nil {
			s.Flush()
		}
	}()

	s.memoryCache = cache.New(10*time.Minute, 10*time.Minute)

	return nil
}

func (s *Cache) Flush() error {
	if s.memoryCache != nil {
		s.memoryCache.Flush()
	}
	s.cancel()

	return nil
}

func (s *Cache) GetCtx() context.Context {
	return s.ctx
}

func (s *Cache) Memory() *cache.Cache {
	return s.memoryCache
}
