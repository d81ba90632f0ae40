package cache

import (
	"time"

	"github.com/notethatdown/notethatdown-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
)

const (
	profileCacheName   = "profile_exists"
	profileCleanupTick = time.Minute
)

// ProfileCache remembers which users have finished onboarding.
// Only positive answers are stored: a user without a profile is always re-checked,
// so completing onboarding takes effect on the next request.
type ProfileCache struct {
	cache *gocache.Cache
}

// NewProfileCache creates a cache whose entries live for ttlSeconds
func NewProfileCache(ttlSeconds int) *ProfileCache {
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	return &ProfileCache{cache: gocache.New(ttl, profileCleanupTick)}
}

// Known reports whether userID is cached as having a profile
func (pc *ProfileCache) Known(userID string) bool {
	if _, found := pc.cache.Get(userID); found {
		metrics.CacheHits.WithLabelValues(profileCacheName).Inc()
		return true
	}
	metrics.CacheMisses.WithLabelValues(profileCacheName).Inc()
	return false
}

// Remember records that userID has a profile
func (pc *ProfileCache) Remember(userID string) {
	pc.cache.SetDefault(userID, struct{}{})
	metrics.CacheSize.WithLabelValues(profileCacheName).Set(float64(pc.cache.ItemCount()))
}

// Len returns the number of cached entries, expired ones included until cleanup
func (pc *ProfileCache) Len() int {
	return pc.cache.ItemCount()
}
