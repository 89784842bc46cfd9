package parking

import (
	"sort"
	"strconv"
	"strings"
)

// Query carries the raw search parameters as received on the wire.
// Validate normalizes and checks them; nothing downstream consumes a Query
// that has not passed validation.
type Query struct {
	City      string
	Type      string // default Car
	Tier      string // default Available
	Latitude  string
	Longitude string
}

// Params is a validated, typed query.
type Params struct {
	City   City
	Type   SpaceType
	Tier   Tier
	Origin *Coordinate
}

// ValidationError reports every rejected field with a user-correctable
// message. No partial processing happens once any field is invalid.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

// ParseCity matches a city code case-insensitively against the supported set.
func ParseCity(s string) (City, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Cities {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

func parseSpaceType(s string) (SpaceType, bool) {
	switch strings.TrimSpace(s) {
	case "", string(Car):
		return Car, true
	case string(Scooter):
		return Scooter, true
	case string(Heavy):
		return Heavy, true
	}
	return "", false
}

func parseTier(s string) (Tier, bool) {
	switch strings.TrimSpace(s) {
	case "", string(Available):
		return Available, true
	case string(Any):
		return Any, true
	case string(Many):
		return Many, true
	case string(Few):
		return Few, true
	}
	return "", false
}

// Validate checks q against the schema and returns the typed parameters.
// It fails closed: any invalid field yields a ValidationError and no Params.
func (q Query) Validate() (Params, error) {
	fields := map[string]string{}

	city, ok := ParseCity(q.City)
	if !ok {
		fields["city"] = "Unsupported city"
	}
	spaceType, ok := parseSpaceType(q.Type)
	if !ok {
		fields["parkingType"] = "must be one of Car, Scooter, Heavy"
	}
	tier, ok := parseTier(q.Tier)
	if !ok {
		fields["availability"] = "must be one of Any, Available, Many, Few"
	}

	var origin *Coordinate
	hasLat := strings.TrimSpace(q.Latitude) != ""
	hasLon := strings.TrimSpace(q.Longitude) != ""
	switch {
	case hasLat != hasLon:
		fields["latitude"] = "latitude and longitude are required together"
	case hasLat:
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(q.Latitude), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(q.Longitude), 64)
		if latErr != nil || lat < -90 || lat > 90 {
			fields["latitude"] = "must be a number in [-90, 90]"
		}
		if lonErr != nil || lon < -180 || lon > 180 {
			fields["longitude"] = "must be a number in [-180, 180]"
		}
		if len(fields) == 0 {
			origin = &Coordinate{Lat: lat, Lon: lon}
		}
	}

	if len(fields) > 0 {
		return Params{}, &ValidationError{Fields: fields}
	}
	return Params{City: city, Type: spaceType, Tier: tier, Origin: origin}, nil
}
