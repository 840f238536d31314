package optimizer

import (
	"context"
	"log"
	"sync"

	"github.com/roomrally/escapade-planner-api/internal/domain"
)

// Waypoint tags a stop location with its owning activity.
type Waypoint struct {
	ActivityID domain.ActivityID
	Location   domain.Coordinates
}

// Anchors optionally pin the route's endpoints (e.g. the hotel). Anchors
// never move during reordering.
type Anchors struct {
	Start *domain.Coordinates
	End   *domain.Coordinates
}

// DayRoute is the sequencing result for one day.
type DayRoute struct {
	// OrderedActivityIDs is the optimized visiting order of the stops.
	OrderedActivityIDs []domain.ActivityID
	// Segments covers every consecutive pair in the final ordering,
	// anchor legs included.
	Segments []domain.RouteSegment

	TotalTimeMinutes int
	TotalCost        float64
	// Score is the weighted blend applied to the route totals.
	Score float64
	// Degraded reports that at least one segment is a fallback estimate.
	Degraded bool
}

// Sequence orders the given stops into an efficient route and computes
// the segments connecting them. The oracle's reordering is accepted
// as-is; if that call fails the input order is kept and segments are
// still computed. Sequencing degrades, it never aborts.
func (s *Service) Sequence(ctx context.Context, stops []Waypoint, anchors Anchors, prefs domain.RoutePreferences) DayRoute {
	prefs = prefs.Normalize()

	if len(stops) < 2 {
		route := DayRoute{OrderedActivityIDs: []domain.ActivityID{}, Segments: []domain.RouteSegment{}, Score: 1.0}
		for _, w := range stops {
			route.OrderedActivityIDs = append(route.OrderedActivityIDs, w.ActivityID)
		}
		return route
	}

	ordered := s.reorder(ctx, stops, anchors, prefs)

	points := make([]domain.Coordinates, 0, len(ordered)+2)
	if anchors.Start != nil {
		points = append(points, *anchors.Start)
	}
	for _, w := range ordered {
		points = append(points, w.Location)
	}
	if anchors.End != nil {
		points = append(points, *anchors.End)
	}

	segments := s.connect(ctx, points, prefs)

	route := DayRoute{
		OrderedActivityIDs: make([]domain.ActivityID, 0, len(ordered)),
		Segments:           segments,
	}
	for _, w := range ordered {
		route.OrderedActivityIDs = append(route.OrderedActivityIDs, w.ActivityID)
	}

	totalMeters := 0
	for _, seg := range segments {
		route.TotalTimeMinutes += seg.TravelMinutes
		route.TotalCost += seg.CostEstimate
		totalMeters += seg.DistanceMeters
		if seg.Estimated {
			route.Degraded = true
		}
	}
	route.Score = segmentScore(domain.RouteSegment{
		TravelMinutes:  route.TotalTimeMinutes,
		DistanceMeters: totalMeters,
		CostEstimate:   route.TotalCost,
	}, prefs.Weights())
	return route
}

// reorder asks the oracle for an optimized visiting order of the interior
// waypoints and maps the geometric answer back onto activities by
// nearest-distance matching, never repeating an activity.
func (s *Service) reorder(ctx context.Context, stops []Waypoint, anchors Anchors, prefs domain.RoutePreferences) []Waypoint {
	// The oracle contract fixes the first and last point; where an
	// anchor is missing, the first or last stop plays that role.
	lo, hi := 0, len(stops)
	if anchors.Start == nil {
		lo = 1
	}
	if anchors.End == nil {
		hi = len(stops) - 1
	}
	if hi-lo < 2 {
		return stops
	}
	interior := stops[lo:hi]

	points := make([]domain.Coordinates, 0, len(interior)+2)
	if anchors.Start != nil {
		points = append(points, *anchors.Start)
	} else {
		points = append(points, stops[0].Location)
	}
	points = append(points, stopLocations(interior)...)
	if anchors.End != nil {
		points = append(points, *anchors.End)
	} else {
		points = append(points, stops[len(stops)-1].Location)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	indices, err := s.client.ReorderWaypoints(callCtx, points, prefs.PreferredMode)
	if err != nil || len(indices) != len(interior) {
		if err != nil {
			log.Printf("waypoint reorder failed, keeping input order: %v", err)
		}
		return stops
	}

	orderedPoints := make([]domain.Coordinates, 0, len(stops))
	if anchors.Start == nil {
		orderedPoints = append(orderedPoints, stops[0].Location)
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(interior) {
			return stops
		}
		orderedPoints = append(orderedPoints, interior[idx].Location)
	}
	if anchors.End == nil {
		orderedPoints = append(orderedPoints, stops[len(stops)-1].Location)
	}

	return matchByNearest(orderedPoints, stops)
}

// matchByNearest maps each ordered coordinate onto the closest not-yet-used
// stop, deduplicating activities that would otherwise repeat.
func matchByNearest(ordered []domain.Coordinates, stops []Waypoint) []Waypoint {
	used := make([]bool, len(stops))
	out := make([]Waypoint, 0, len(stops))
	for _, pt := range ordered {
		best := -1
		bestDist := 0.0
		for i, w := range stops {
			if used[i] {
				continue
			}
			d := pt.DistanceMeters(w.Location)
			if best == -1 || d < bestDist {
				best = i
				bestDist = d
			}
		}
		if best == -1 {
			break
		}
		used[best] = true
		out = append(out, stops[best])
	}
	// Any stop the geometry failed to cover keeps its input position at
	// the end rather than being dropped.
	for i, w := range stops {
		if !used[i] {
			out = append(out, w)
		}
	}
	return out
}

// connect computes one segment per consecutive pair: serially for
// single-mode strategies, concurrently for mixed strategies where each
// leg may pick a different mode.
func (s *Service) connect(ctx context.Context, points []domain.Coordinates, prefs domain.RoutePreferences) []domain.RouteSegment {
	if len(points) < 2 {
		return []domain.RouteSegment{}
	}
	segments := make([]domain.RouteSegment, len(points)-1)

	if prefs.Strategy == domain.StrategySingleMode {
		for i := 0; i < len(points)-1; i++ {
			segments[i] = s.BestSegment(ctx, points[i], points[i+1], prefs)
		}
		return segments
	}

	var wg sync.WaitGroup
	for i := 0; i < len(points)-1; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			segments[i] = s.BestSegment(ctx, points[i], points[i+1], prefs)
		}(i)
	}
	wg.Wait()
	return segments
}

func stopLocations(stops []Waypoint) []domain.Coordinates {
	out := make([]domain.Coordinates, 0, len(stops))
	for _, w := range stops {
		out = append(out, w.Location)
	}
	return out
}
