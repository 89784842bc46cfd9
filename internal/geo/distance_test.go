package geo

import (
	"math"
	"testing"
)

func TestDistanceIdentity(t *testing.T) {
	if d := DistanceKm(25.0330, 121.5654, 25.0330, 121.5654); d != 0 {
		t.Fatalf("distance to self = %v, want 0", d)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	a := DistanceKm(25.0330, 121.5654, 22.6273, 120.3014)
	b := DistanceKm(22.6273, 120.3014, 25.0330, 121.5654)
	if a != b {
		t.Fatalf("distance not symmetric: %v vs %v", a, b)
	}
}

func TestDistanceKnownPairs(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
		tolKm                  float64
	}{
		{"taipei to kaohsiung", 25.0330, 121.5654, 22.6273, 120.3014, 296, 5},
		{"one degree of latitude", 0, 0, 1, 0, 111.2, 0.5},
		{"quarter circumference", 0, 0, 0, 90, 10007, 10},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := DistanceKm(c.lat1, c.lon1, c.lat2, c.lon2)
			if math.Abs(got-c.wantKm) > c.tolKm {
				t.Fatalf("DistanceKm = %v, want %v +/- %v", got, c.wantKm, c.tolKm)
			}
		})
	}
}
