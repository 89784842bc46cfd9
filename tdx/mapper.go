package tdx

import (
	"encoding/json"

	"github.com/yourorg/parking-api/internal/parking"
)

// MapCarParks maps a raw car-park payload into lot metadata records.
// Optional descriptive fields absent from the feed stay empty strings.
func MapCarParks(raw []byte, city parking.City) ([]parking.Lot, error) {
	var payload CarParksPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}

	out := make([]parking.Lot, 0, len(payload.CarParks))
	for _, p := range payload.CarParks {
		out = append(out, parking.Lot{
			City:        city,
			ID:          p.ID,
			Name:        parking.Name{Zh: p.Name.Zh, En: p.Name.En},
			Phone:       p.Telephone,
			Position:    parking.Coordinate{Lat: p.Position.Lat, Lon: p.Position.Lon},
			Address:     p.Address,
			Description: p.Description,
			ImageURL:    p.ImageURL,
		})
	}
	return out, nil
}

// MapAvailability maps a raw availability payload into the internal snapshot
// shape, preserving feed order.
func MapAvailability(raw []byte) ([]parking.LotAvailability, error) {
	var payload AvailabilityPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}

	out := make([]parking.LotAvailability, 0, len(payload.ParkingAvailabilities))
	for _, a := range payload.ParkingAvailabilities {
		spaces := make([]parking.SpaceCount, 0, len(a.Availabilities))
		for _, s := range a.Availabilities {
			spaces = append(spaces, parking.SpaceCount{
				Type:      s.SpaceType,
				Total:     s.NumberOfSpaces,
				Available: s.AvailableSpaces,
			})
		}
		out = append(out, parking.LotAvailability{
			ID:     a.CarParkID,
			Name:   parking.Name{Zh: a.CarParkName.Zh, En: a.CarParkName.En},
			Spaces: spaces,
		})
	}
	return out, nil
}
