package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yourorg/parking-api/internal/clock"
	"github.com/yourorg/parking-api/internal/metrics"
	"github.com/yourorg/parking-api/internal/parking"
)

// DefaultAvailabilityTTL bounds how long a live snapshot may be served.
const DefaultAvailabilityTTL = 60 * time.Second

// AvailabilityFetch loads the live availability feed for a city from upstream.
type AvailabilityFetch func(ctx context.Context, city parking.City) ([]parking.LotAvailability, error)

type snapshot struct {
	expiresAt time.Time
	lots      []parking.LotAvailability
}

// Availability caches one live snapshot per city with a short TTL. An expired
// snapshot is never served: it is refreshed synchronously, and the per-city
// entry is always replaced wholesale, never merged. Concurrent misses for the
// same city share a single upstream fetch.
type Availability struct {
	fetch AvailabilityFetch
	clock clock.Clock
	ttl   time.Duration
	log   *zap.Logger

	mu    sync.RWMutex
	snaps map[parking.City]snapshot

	group singleflight.Group
}

func NewAvailability(fetch AvailabilityFetch, clk clock.Clock, ttl time.Duration, log *zap.Logger) *Availability {
	if ttl <= 0 {
		ttl = DefaultAvailabilityTTL
	}
	return &Availability{
		fetch: fetch,
		clock: clk,
		ttl:   ttl,
		log:   log,
		snaps: make(map[parking.City]snapshot),
	}
}

// Get returns the city's lot list from a fresh snapshot, fetching a new one
// when the cached snapshot is missing or expired.
func (a *Availability) Get(ctx context.Context, city parking.City) ([]parking.LotAvailability, error) {
	if lots, ok := a.fresh(city); ok {
		metrics.CacheHits.WithLabelValues("availability").Inc()
		return lots, nil
	}
	metrics.CacheMisses.WithLabelValues("availability").Inc()

	v, err, _ := a.group.Do(string(city), func() (any, error) {
		// Another caller may have refreshed while we waited on the flight.
		if lots, ok := a.fresh(city); ok {
			return lots, nil
		}

		lots, err := a.fetch(ctx, city)
		if err != nil {
			return nil, err
		}

		a.mu.Lock()
		a.snaps[city] = snapshot{expiresAt: a.clock.Now().Add(a.ttl), lots: lots}
		a.mu.Unlock()

		a.log.Debug("availability snapshot refreshed",
			zap.String("city", string(city)), zap.Int("lots", len(lots)))
		return lots, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]parking.LotAvailability), nil
}

func (a *Availability) fresh(city parking.City) ([]parking.LotAvailability, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.snaps[city]
	if !ok || !a.clock.Now().Before(s.expiresAt) {
		return nil, false
	}
	return s.lots, true
}
