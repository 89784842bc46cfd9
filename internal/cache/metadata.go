package cache

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yourorg/parking-api/internal/metrics"
	"github.com/yourorg/parking-api/internal/parking"
)

// MetadataFetch loads the full lot list for a city from upstream.
type MetadataFetch func(ctx context.Context, city parking.City) ([]parking.Lot, error)

type lotKey struct {
	city parking.City
	id   string
}

// Metadata caches static per-city lot records, loaded at most once per city
// for the process lifetime. Descriptive metadata changes rarely, so staleness
// of an already-loaded city is deliberately ignored. A failed load leaves the
// city eligible for retry on the next request.
type Metadata struct {
	fetch MetadataFetch
	log   *zap.Logger

	mu     sync.RWMutex
	loaded map[parking.City]bool
	lots   map[lotKey]parking.Lot

	group singleflight.Group
}

func NewMetadata(fetch MetadataFetch, log *zap.Logger) *Metadata {
	return &Metadata{
		fetch:  fetch,
		log:    log,
		loaded: make(map[parking.City]bool),
		lots:   make(map[lotKey]parking.Lot),
	}
}

// Ensure loads the city's lot list on first call; subsequent calls are no-ops.
// Concurrent first loads of the same city share a single upstream fetch.
func (m *Metadata) Ensure(ctx context.Context, city parking.City) error {
	m.mu.RLock()
	done := m.loaded[city]
	m.mu.RUnlock()
	if done {
		metrics.CacheHits.WithLabelValues("metadata").Inc()
		return nil
	}
	metrics.CacheMisses.WithLabelValues("metadata").Inc()

	_, err, _ := m.group.Do(string(city), func() (any, error) {
		m.mu.RLock()
		done := m.loaded[city]
		m.mu.RUnlock()
		if done {
			return nil, nil
		}

		lots, err := m.fetch(ctx, city)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		for _, lot := range lots {
			m.lots[lotKey{city: city, id: lot.ID}] = lot
		}
		// Marked loaded only after successful population.
		m.loaded[city] = true
		m.mu.Unlock()

		m.log.Info("lot metadata loaded",
			zap.String("city", string(city)), zap.Int("lots", len(lots)))
		return nil, nil
	})
	return err
}

// Lookup is a pure cache read. Absence is a valid outcome: a lot known to the
// availability feed may not be in the metadata feed yet.
func (m *Metadata) Lookup(city parking.City, lotID string) (parking.Lot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lot, ok := m.lots[lotKey{city: city, id: lotID}]
	return lot, ok
}
