package search

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/yourorg/parking-api/internal/cache"
	"github.com/yourorg/parking-api/internal/geo"
	"github.com/yourorg/parking-api/internal/parking"
)

// Service orchestrates a parking search: validate, snapshot, metadata,
// filter, join, distance, sort. It never retries and never returns a partial
// result set; the first failure propagates to the HTTP boundary.
type Service struct {
	Availability *cache.Availability
	Metadata     *cache.Metadata
	Log          *zap.Logger
}

// Search runs one query end to end.
//
// Availability is fetched before metadata is ensured, so a metadata failure
// cannot block the snapshot refresh; metadata is still required before the
// join, so either failure fails the request.
func (s *Service) Search(ctx context.Context, query parking.Query) ([]parking.Result, error) {
	p, err := query.Validate()
	if err != nil {
		return nil, err
	}
	code := p.Type.Code()
	threshold := p.Tier.Threshold()

	lots, err := s.Availability.Get(ctx, p.City)
	if err != nil {
		return nil, err
	}
	if err := s.Metadata.Ensure(ctx, p.City); err != nil {
		return nil, err
	}

	results := make([]parking.Result, 0, len(lots))
	for _, lot := range lots {
		space, ok := lot.Space(code)
		if !ok || space.Available < threshold {
			continue
		}
		results = append(results, s.join(p, lot, space))
	}

	if p.Origin != nil {
		sort.SliceStable(results, func(i, j int) bool {
			return *results[i].DistanceKm < *results[j].DistanceKm
		})
	} else {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].AvailableSpaces > results[j].AvailableSpaces
		})
	}
	return results, nil
}

// join builds one result from a surviving availability entry and whatever
// metadata exists for the lot. A lot absent from the metadata feed still
// appears, with empty descriptive fields and the zero coordinate; a distance
// computed against the zero coordinate is a placeholder, not an error.
func (s *Service) join(p parking.Params, lot parking.LotAvailability, space parking.SpaceCount) parking.Result {
	r := parking.Result{
		ID:              lot.ID,
		Name:            lot.Name,
		TotalSpaces:     space.Total,
		AvailableSpaces: space.Available,
	}

	if meta, ok := s.Metadata.Lookup(p.City, lot.ID); ok {
		if meta.Name.Zh != "" || meta.Name.En != "" {
			r.Name = meta.Name
		}
		r.Address = meta.Address
		r.Phone = meta.Phone
		r.Description = meta.Description
		r.ImageURL = meta.ImageURL
		r.Position = meta.Position
	}

	if p.Origin != nil {
		d := geo.DistanceKm(p.Origin.Lat, p.Origin.Lon, r.Position.Lat, r.Position.Lon)
		r.DistanceKm = &d
	}
	return r
}
