// Package service contains the business services the paddock panel's
// controllers and jobs are built on. Community data is owned by the
// external API; services here orchestrate calls to it, cache reads, and
// keep the panel's local bookkeeping.
package service

import (
	"sync"
	"time"

	"github.com/AlvanCjh/paddock-panel/config"
	"github.com/AlvanCjh/paddock-panel/paddock"

	"github.com/patrickmn/go-cache"
)

var (
	apiClient *paddock.Client
	apiOnce   sync.Once

	memCache *cache.Cache
	memOnce  sync.Once
)

// InitAPI points the service layer at a community API base URL. Called once
// at startup; tests call it with an httptest server URL.
func InitAPI(base string) {
	apiClient = paddock.NewClient(base)
}

// API returns the shared community API client.
func API() *paddock.Client {
	apiOnce.Do(func() {
		if apiClient == nil {
			apiClient = paddock.NewClient(config.GetAPIBase())
		}
	})
	return apiClient
}

// Memory returns the shared in-memory TTL cache.
func Memory() *cache.Cache {
	memOnce.Do(func() {
		if memCache == nil {
			memCache = cache.New(10*time.Minute, 10*time.Minute)
		}
	})
	return memCache
}

// SetMemory installs the cache created by the web server.
func SetMemory(c *cache.Cache) {
	memCache = c
}
