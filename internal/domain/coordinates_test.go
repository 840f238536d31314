package domain

import (
	"errors"
	"math"
	"testing"
)

func TestNewCoordinates_Bounds(t *testing.T) {
	t.Parallel()

	if _, err := NewCoordinates(52.3676, 4.9041); err != nil {
		t.Fatalf("valid coordinates rejected: %v", err)
	}
	if _, err := NewCoordinates(90, 180); err != nil {
		t.Fatalf("boundary coordinates rejected: %v", err)
	}

	invalid := [][2]float64{{90.1, 0}, {-90.1, 0}, {0, 180.1}, {0, -180.1}}
	for _, c := range invalid {
		if _, err := NewCoordinates(c[0], c[1]); !errors.Is(err, ErrInvalidCoordinates) {
			t.Fatalf("(%v,%v): err=%v, want ErrInvalidCoordinates", c[0], c[1], err)
		}
	}
}

func TestDistanceMeters(t *testing.T) {
	t.Parallel()

	a := Coordinates{Latitude: 0, Longitude: 0}
	b := Coordinates{Latitude: 1, Longitude: 0}

	// One degree of latitude on a 6371 km sphere is ~111.19 km.
	got := a.DistanceMeters(b)
	want := 111194.9
	if math.Abs(got-want) > 1 {
		t.Fatalf("distance=%v, want ~%v", got, want)
	}

	if d := a.DistanceMeters(a); d != 0 {
		t.Fatalf("self distance=%v, want 0", d)
	}
	if d1, d2 := a.DistanceMeters(b), b.DistanceMeters(a); math.Abs(d1-d2) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", d1, d2)
	}
}
