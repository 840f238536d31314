package haversine

import (
	"context"
	"testing"

	"github.com/roomrally/escapade-planner-api/internal/domain"
)

func TestGetSegment_SpeedAndCostPerMode(t *testing.T) {
	t.Parallel()

	c := NewClient()
	// ~10 km apart along a meridian.
	from := domain.Coordinates{Latitude: 0, Longitude: 0}
	to := domain.Coordinates{Latitude: 0.09, Longitude: 0}

	walk, err := c.GetSegment(context.Background(), from, to, domain.ModeWalking)
	if err != nil {
		t.Fatalf("GetSegment: %v", err)
	}
	// 10 km at 5 km/h is two hours on foot, free of charge.
	if walk.DurationSeconds < 7150 || walk.DurationSeconds > 7250 {
		t.Fatalf("walking duration=%ds, want ~7200", walk.DurationSeconds)
	}
	if walk.CostEstimate != 0 {
		t.Fatalf("walking cost=%v, want 0", walk.CostEstimate)
	}
	if len(walk.Path) != 2 || walk.Path[0] != from || walk.Path[1] != to {
		t.Fatalf("path=%v, want [from to]", walk.Path)
	}

	drive, err := c.GetSegment(context.Background(), from, to, domain.ModeDriving)
	if err != nil {
		t.Fatalf("GetSegment: %v", err)
	}
	if drive.DurationSeconds >= walk.DurationSeconds {
		t.Fatalf("driving (%ds) not faster than walking (%ds)", drive.DurationSeconds, walk.DurationSeconds)
	}
	// ~10 km at 0.50/km.
	if drive.CostEstimate < 4.9 || drive.CostEstimate > 5.1 {
		t.Fatalf("driving cost=%v, want ~5.00", drive.CostEstimate)
	}
}

func TestReorderWaypoints_GreedyNearestNeighbour(t *testing.T) {
	t.Parallel()

	c := NewClient()
	points := []domain.Coordinates{
		{Latitude: 0.0, Longitude: 0}, // fixed start
		{Latitude: 0.3, Longitude: 0}, // interior 0
		{Latitude: 0.1, Longitude: 0}, // interior 1
		{Latitude: 0.2, Longitude: 0}, // interior 2
		{Latitude: 0.4, Longitude: 0}, // fixed end
	}

	order, err := c.ReorderWaypoints(context.Background(), points, domain.ModeWalking)
	if err != nil {
		t.Fatalf("ReorderWaypoints: %v", err)
	}
	want := []int{1, 2, 0}
	if len(order) != 3 {
		t.Fatalf("order=%v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order=%v, want %v", order, want)
		}
	}
}

func TestReorderWaypoints_TooFewPoints(t *testing.T) {
	t.Parallel()

	c := NewClient()
	order, err := c.ReorderWaypoints(context.Background(), []domain.Coordinates{{}, {}}, domain.ModeWalking)
	if err != nil {
		t.Fatalf("ReorderWaypoints: %v", err)
	}
	if len(order) != 0 {
		t.Fatalf("order=%v, want empty", order)
	}
}

func TestReorderWaypoints_Deterministic(t *testing.T) {
	t.Parallel()

	c := NewClient()
	points := []domain.Coordinates{
		{Latitude: 0.0, Longitude: 0},
		{Latitude: 0.1, Longitude: 0},
		{Latitude: 0.1, Longitude: 0}, // identical to interior 0: lower index wins
		{Latitude: 0.2, Longitude: 0},
	}

	first, err := c.ReorderWaypoints(context.Background(), points, domain.ModeCycling)
	if err != nil {
		t.Fatalf("ReorderWaypoints: %v", err)
	}
	if first[0] != 0 || first[1] != 1 {
		t.Fatalf("order=%v, want lower index first on ties", first)
	}
}
