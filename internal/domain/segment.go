package domain

// RouteSegment is the computed travel leg between two consecutive stops.
// Segments are derived data, recomputed on demand; they are never the
// source of truth for a plan.
type RouteSegment struct {
	From Coordinates
	To   Coordinates
	Mode TransportMode

	TravelMinutes  int
	DistanceMeters int
	CostEstimate   float64

	// Path holds ordered intermediate points when the routing oracle
	// supplied a polyline; empty for straight-line estimates.
	Path []Coordinates

	// SubLegs is populated when a segment blends several modes.
	SubLegs []RouteSegment

	// Estimated marks a segment produced by the straight-line fallback
	// heuristic rather than a measured route.
	Estimated bool
}
