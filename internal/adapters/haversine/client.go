// Package haversine is a deterministic offline routing oracle. It
// answers with great-circle estimates and a greedy nearest-neighbour
// ordering, which makes local runs and tests reproducible without any
// external service.
package haversine

import (
	"context"

	"github.com/roomrally/escapade-planner-api/internal/domain"
	"github.com/roomrally/escapade-planner-api/internal/ports/out/routing"
)

var speedKmh = map[domain.TransportMode]float64{
	domain.ModeDriving: 30,
	domain.ModeWalking: 5,
	domain.ModeCycling: 15,
	domain.ModeTransit: 20,
}

var costPerKm = map[domain.TransportMode]float64{
	domain.ModeDriving: 0.50,
	domain.ModeWalking: 0,
	domain.ModeCycling: 0,
	domain.ModeTransit: 0.25,
}

type Client struct{}

func NewClient() *Client { return &Client{} }

func (c *Client) GetSegment(ctx context.Context, from, to domain.Coordinates, mode domain.TransportMode) (routing.Leg, error) {
	if err := ctx.Err(); err != nil {
		return routing.Leg{}, err
	}
	meters := from.DistanceMeters(to)
	km := meters / 1000
	speed, ok := speedKmh[mode]
	if !ok {
		speed = speedKmh[domain.ModeWalking]
	}
	return routing.Leg{
		DurationSeconds: int(km / speed * 3600),
		DistanceMeters:  int(meters),
		CostEstimate:    km * costPerKm[mode],
		Path:            []domain.Coordinates{from, to},
	}, nil
}

// ReorderWaypoints orders the interior points greedily by straight-line
// distance from the running position. Ties break on the lower index, so
// the answer is deterministic.
func (c *Client) ReorderWaypoints(ctx context.Context, points []domain.Coordinates, mode domain.TransportMode) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(points) < 3 {
		return []int{}, nil
	}
	interior := points[1 : len(points)-1]

	order := make([]int, 0, len(interior))
	used := make([]bool, len(interior))
	current := points[0]
	for len(order) < len(interior) {
		best := -1
		bestDist := 0.0
		for i, p := range interior {
			if used[i] {
				continue
			}
			d := current.DistanceMeters(p)
			if best == -1 || d < bestDist {
				best = i
				bestDist = d
			}
		}
		used[best] = true
		order = append(order, best)
		current = interior[best]
	}
	return order, nil
}
