package routing

import (
	"context"

	"github.com/roomrally/escapade-planner-api/internal/domain"
)

// Leg is the raw answer of the routing oracle for one origin/destination
// pair under one transport mode.
type Leg struct {
	DurationSeconds int
	DistanceMeters  int
	CostEstimate    float64
	Path            []domain.Coordinates
}

// Client is the geospatial routing oracle. Implementations must be safe
// for concurrent use: the optimizer fans out one call per candidate mode.
type Client interface {
	GetSegment(ctx context.Context, from, to domain.Coordinates, mode domain.TransportMode) (Leg, error)

	// ReorderWaypoints optimizes the visiting order of the interior
	// points. points[0] and points[len-1] are fixed endpoints; the
	// returned slice is a permutation of indices into the interior
	// points[1 : len-1].
	ReorderWaypoints(ctx context.Context, points []domain.Coordinates, mode domain.TransportMode) ([]int, error)
}
