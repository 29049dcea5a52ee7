// Package service provides parcel lookup logic with caching.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"donezo_backend/internal/parcels/client"
	"donezo_backend/platform/logger"
)

const cacheTTL = 30 * 24 * time.Hour

// Parcel is the lookup result exposed to other modules.
type Parcel = client.Parcel

// Finder is the slice of the LINZ client the service needs.
type Finder interface {
	FindParcel(ctx context.Context, lat, lng float64) (*client.Parcel, error)
}

type cacheEntry struct {
	parcel    *Parcel
	expiresAt time.Time
}

// Service handles parcel lookups with an in-memory cache. Parcel boundaries
// change rarely, so a long TTL is safe.
type Service struct {
	finder  Finder
	log     *logger.Logger
	cache   map[string]cacheEntry
	cacheMu sync.RWMutex
}

// New creates a new parcel lookup service.
func New(finder Finder, log *logger.Logger) *Service {
	return &Service{
		finder: finder,
		log:    log,
		cache:  make(map[string]cacheEntry),
	}
}

// Lookup finds the parcel covering a coordinate. Returns nil when no parcel
// matches. Errors are returned to the caller; the creation pipeline decides
// whether they block anything.
func (s *Service) Lookup(ctx context.Context, lat, lng float64) (*Parcel, error) {
	key := cacheKey(lat, lng)

	if cached, ok := s.getFromCache(key); ok {
		return cached, nil
	}

	parcel, err := s.finder.FindParcel(ctx, lat, lng)
	if err != nil {
		return nil, err
	}

	s.setCache(key, parcel)
	return parcel, nil
}

func (s *Service) getFromCache(key string) (*Parcel, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()

	entry, ok := s.cache[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.parcel, true
}

func (s *Service) setCache(key string, parcel *Parcel) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.cache[key] = cacheEntry{
		parcel:    parcel,
		expiresAt: time.Now().Add(cacheTTL),
	}
}

// cacheKey rounds to ~0.1m so repeated lookups for the same address hit.
func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lng)
}
