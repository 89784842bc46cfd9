package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/parking-api/internal/cache"
	"github.com/yourorg/parking-api/internal/parking"
)

type stubClock struct{ now time.Time }

func (c *stubClock) Now() time.Time { return c.now }

// Fixture: lot A has 6 free car spaces near Taipei Main Station, lot B has 2
// further out, lot C is scooter-only and missing from the metadata feed.
var fixtureAvailability = []parking.LotAvailability{
	{ID: "A", Name: parking.Name{Zh: "A停車場"}, Spaces: []parking.SpaceCount{{Type: 1, Total: 100, Available: 6}}},
	{ID: "B", Name: parking.Name{Zh: "B停車場"}, Spaces: []parking.SpaceCount{{Type: 1, Total: 50, Available: 2}}},
	{ID: "C", Name: parking.Name{Zh: "C機車場"}, Spaces: []parking.SpaceCount{{Type: 2, Total: 30, Available: 9}}},
}

var fixtureLots = []parking.Lot{
	{City: parking.Taipei, ID: "A", Name: parking.Name{Zh: "A停車場", En: "Lot A"},
		Address: "No.1 Civic Blvd", Phone: "02-1111-1111",
		Position: parking.Coordinate{Lat: 25.047, Lon: 121.517}},
	{City: parking.Taipei, ID: "B", Name: parking.Name{Zh: "B停車場", En: "Lot B"},
		Address: "No.9 Xinyi Rd", Phone: "02-2222-2222",
		Position: parking.Coordinate{Lat: 25.033, Lon: 121.565}},
}

func newFixtureService(t *testing.T) *Service {
	t.Helper()
	meta := cache.NewMetadata(func(_ context.Context, _ parking.City) ([]parking.Lot, error) {
		return fixtureLots, nil
	}, zap.NewNop())
	avail := cache.NewAvailability(func(_ context.Context, _ parking.City) ([]parking.LotAvailability, error) {
		return fixtureAvailability, nil
	}, &stubClock{now: time.Unix(1_700_000_000, 0)}, time.Minute, zap.NewNop())
	return &Service{Availability: avail, Metadata: meta, Log: zap.NewNop()}
}

func ids(results []parking.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}

func TestSearchManyKeepsOnlyWellStockedLots(t *testing.T) {
	svc := newFixtureService(t)
	results, err := svc.Search(context.Background(), parking.Query{City: "Taipei", Tier: "Many"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := ids(results); len(got) != 1 || got[0] != "A" {
		t.Fatalf("results = %v, want [A]", got)
	}
}

func TestSearchAnyReturnsEveryLotWithMatchingSpaceType(t *testing.T) {
	svc := newFixtureService(t)
	results, err := svc.Search(context.Background(), parking.Query{City: "Taipei", Tier: "Any"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// C has no car entry and is excluded even at threshold 0.
	if got := ids(results); len(got) != 2 {
		t.Fatalf("results = %v, want two car lots", got)
	}
}

func TestSearchThresholdExcludesLowAvailability(t *testing.T) {
	svc := newFixtureService(t)
	results, err := svc.Search(context.Background(), parking.Query{City: "Taipei", Tier: "Few"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, r := range results {
		if r.AvailableSpaces < parking.Few.Threshold() {
			t.Fatalf("lot %s below threshold: %d", r.ID, r.AvailableSpaces)
		}
	}
	if got := ids(results); len(got) != 1 || got[0] != "A" {
		t.Fatalf("results = %v, want [A]", got)
	}
}

func TestSearchMissingMetadataGetsDefaults(t *testing.T) {
	svc := newFixtureService(t)
	results, err := svc.Search(context.Background(),
		parking.Query{City: "Taipei", Type: "Scooter", Tier: "Any"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "C" {
		t.Fatalf("results = %v, want [C]", ids(results))
	}
	c := results[0]
	if c.Address != "" || c.Phone != "" || c.ImageURL != "" {
		t.Fatalf("missing metadata should default to empty strings: %+v", c)
	}
	if c.Position != (parking.Coordinate{}) {
		t.Fatalf("missing metadata should default to zero coordinate: %+v", c.Position)
	}
	// The availability feed's display name still carries through.
	if c.Name.Zh != "C機車場" {
		t.Fatalf("name = %+v", c.Name)
	}
}

func TestSearchSortsByDistanceWithOrigin(t *testing.T) {
	svc := newFixtureService(t)
	// Origin next to lot B.
	results, err := svc.Search(context.Background(),
		parking.Query{City: "Taipei", Tier: "Any", Latitude: "25.034", Longitude: "121.564"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := ids(results); len(got) != 2 || got[0] != "B" {
		t.Fatalf("results = %v, want B first", got)
	}
	for i := 1; i < len(results); i++ {
		if *results[i].DistanceKm < *results[i-1].DistanceKm {
			t.Fatal("distances must be non-decreasing")
		}
	}
}

func TestSearchSortsByAvailableSpacesWithoutOrigin(t *testing.T) {
	svc := newFixtureService(t)
	results, err := svc.Search(context.Background(), parking.Query{City: "Taipei", Tier: "Any"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for i := 1; i < len(results); i++ {
		if results[i].AvailableSpaces > results[i-1].AvailableSpaces {
			t.Fatal("available spaces must be non-increasing")
		}
		if results[i].DistanceKm != nil {
			t.Fatal("distance must be absent without an origin")
		}
	}
}

func TestSearchValidationFailsClosed(t *testing.T) {
	fetched := false
	meta := cache.NewMetadata(func(_ context.Context, _ parking.City) ([]parking.Lot, error) {
		fetched = true
		return nil, nil
	}, zap.NewNop())
	avail := cache.NewAvailability(func(_ context.Context, _ parking.City) ([]parking.LotAvailability, error) {
		fetched = true
		return nil, nil
	}, &stubClock{now: time.Unix(1_700_000_000, 0)}, time.Minute, zap.NewNop())
	svc := &Service{Availability: avail, Metadata: meta, Log: zap.NewNop()}

	_, err := svc.Search(context.Background(), parking.Query{City: "Mars"})
	var verr *parking.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *parking.ValidationError", err)
	}
	if fetched {
		t.Fatal("invalid query must not reach upstream")
	}
}

func TestSearchAvailabilityFailurePropagates(t *testing.T) {
	meta := cache.NewMetadata(func(_ context.Context, _ parking.City) ([]parking.Lot, error) {
		return fixtureLots, nil
	}, zap.NewNop())
	avail := cache.NewAvailability(func(_ context.Context, _ parking.City) ([]parking.LotAvailability, error) {
		return nil, errors.New("feed unavailable")
	}, &stubClock{now: time.Unix(1_700_000_000, 0)}, time.Minute, zap.NewNop())
	svc := &Service{Availability: avail, Metadata: meta, Log: zap.NewNop()}

	results, err := svc.Search(context.Background(), parking.Query{City: "Taipei"})
	if err == nil {
		t.Fatal("expected error")
	}
	if results != nil {
		t.Fatal("no partial results on failure")
	}
}

func TestSearchMetadataFailureFailsRequest(t *testing.T) {
	meta := cache.NewMetadata(func(_ context.Context, _ parking.City) ([]parking.Lot, error) {
		return nil, errors.New("metadata unavailable")
	}, zap.NewNop())
	avail := cache.NewAvailability(func(_ context.Context, _ parking.City) ([]parking.LotAvailability, error) {
		return fixtureAvailability, nil
	}, &stubClock{now: time.Unix(1_700_000_000, 0)}, time.Minute, zap.NewNop())
	svc := &Service{Availability: avail, Metadata: meta, Log: zap.NewNop()}

	if _, err := svc.Search(context.Background(), parking.Query{City: "Taipei"}); err == nil {
		t.Fatal("expected error")
	}
}
