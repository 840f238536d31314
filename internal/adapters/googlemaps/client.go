package googlemaps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"github.com/roomrally/escapade-planner-api/internal/domain"
	"github.com/roomrally/escapade-planner-api/internal/ports/out/routing"
)

// Per-km cost heuristics used when the Directions response carries no
// fare (Google only returns fares for some transit routes).
var costPerKm = map[domain.TransportMode]float64{
	domain.ModeDriving: 0.50,
	domain.ModeWalking: 0,
	domain.ModeCycling: 0,
	domain.ModeTransit: 0.25,
}

// Client implements the routing oracle on the Google Maps Directions API.
type Client struct {
	maps *maps.Client
}

func NewClient(apiKey string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("empty maps api key")
	}
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("maps client: %w", err)
	}
	return &Client{maps: c}, nil
}

func (c *Client) GetSegment(ctx context.Context, from, to domain.Coordinates, mode domain.TransportMode) (routing.Leg, error) {
	routes, _, err := c.maps.Directions(ctx, &maps.DirectionsRequest{
		Origin:      latLng(from),
		Destination: latLng(to),
		Mode:        travelMode(mode),
	})
	if err != nil {
		return routing.Leg{}, classify(err)
	}
	if len(routes) == 0 {
		return routing.Leg{}, routing.ErrNoRoute
	}
	route := routes[0]

	leg := routing.Leg{}
	for _, l := range route.Legs {
		leg.DurationSeconds += int(l.Duration.Seconds())
		leg.DistanceMeters += l.Distance.Meters
	}
	if route.Fare != nil {
		leg.CostEstimate = float64(route.Fare.Value)
	} else {
		leg.CostEstimate = float64(leg.DistanceMeters) / 1000 * costPerKm[mode]
	}

	if pts, err := route.OverviewPolyline.Decode(); err == nil {
		leg.Path = make([]domain.Coordinates, 0, len(pts))
		for _, pt := range pts {
			leg.Path = append(leg.Path, domain.Coordinates{Latitude: pt.Lat, Longitude: pt.Lng})
		}
	}
	return leg, nil
}

func (c *Client) ReorderWaypoints(ctx context.Context, points []domain.Coordinates, mode domain.TransportMode) ([]int, error) {
	if len(points) < 3 {
		return []int{}, nil
	}
	// "optimize:true" asks Directions to permute the waypoints; the
	// chosen order comes back in WaypointOrder.
	waypoints := make([]string, 0, len(points)-1)
	waypoints = append(waypoints, "optimize:true")
	for _, p := range points[1 : len(points)-1] {
		waypoints = append(waypoints, latLng(p))
	}

	routes, _, err := c.maps.Directions(ctx, &maps.DirectionsRequest{
		Origin:      latLng(points[0]),
		Destination: latLng(points[len(points)-1]),
		Mode:        travelMode(mode),
		Waypoints:   waypoints,
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(routes) == 0 {
		return nil, routing.ErrNoRoute
	}
	return routes[0].WaypointOrder, nil
}

func latLng(c domain.Coordinates) string {
	return fmt.Sprintf("%f,%f", c.Latitude, c.Longitude)
}

func travelMode(mode domain.TransportMode) maps.Mode {
	switch mode {
	case domain.ModeWalking:
		return maps.TravelModeWalking
	case domain.ModeCycling:
		return maps.TravelModeBicycling
	case domain.ModeTransit:
		return maps.TravelModeTransit
	default:
		return maps.TravelModeDriving
	}
}

// classify maps Google status errors onto the oracle's error kinds.
func classify(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "ZERO_RESULTS") || strings.Contains(msg, "NOT_FOUND") {
		return fmt.Errorf("%w: %s", routing.ErrNoRoute, msg)
	}
	return fmt.Errorf("%w: %s", routing.ErrUnavailable, msg)
}
