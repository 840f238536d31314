package optimizer_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/roomrally/escapade-planner-api/internal/app/optimizer"
	"github.com/roomrally/escapade-planner-api/internal/domain"
	"github.com/roomrally/escapade-planner-api/internal/ports/out/routing"
)

// fakeRouter answers GetSegment per mode from canned legs and records
// which modes were queried.
type fakeRouter struct {
	mu      sync.Mutex
	queried []domain.TransportMode
	legs    map[domain.TransportMode]routing.Leg
	errs    map[domain.TransportMode]error
	reorder func(points []domain.Coordinates) ([]int, error)
}

func (f *fakeRouter) GetSegment(ctx context.Context, from, to domain.Coordinates, mode domain.TransportMode) (routing.Leg, error) {
	f.mu.Lock()
	f.queried = append(f.queried, mode)
	f.mu.Unlock()
	if err, ok := f.errs[mode]; ok {
		return routing.Leg{}, err
	}
	leg, ok := f.legs[mode]
	if !ok {
		return routing.Leg{}, routing.ErrNoRoute
	}
	return leg, nil
}

func (f *fakeRouter) ReorderWaypoints(ctx context.Context, points []domain.Coordinates, mode domain.TransportMode) ([]int, error) {
	if f.reorder == nil {
		return nil, routing.ErrUnavailable
	}
	return f.reorder(points)
}

func (f *fakeRouter) queriedModes() []domain.TransportMode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.TransportMode(nil), f.queried...)
}

var (
	ptA = domain.Coordinates{Latitude: 52.3676, Longitude: 4.9041}
	ptB = domain.Coordinates{Latitude: 52.3702, Longitude: 4.8952}
)

func TestBestSegment_SingleModeQueriesOnlyPreferred(t *testing.T) {
	t.Parallel()

	router := &fakeRouter{legs: map[domain.TransportMode]routing.Leg{
		domain.ModeTransit: {DurationSeconds: 600, DistanceMeters: 3000, CostEstimate: 2.50},
	}}
	svc := optimizer.NewService(router)

	prefs := domain.RoutePreferences{
		AllowedModes:  []domain.TransportMode{domain.ModeTransit, domain.ModeDriving},
		PreferredMode: domain.ModeTransit,
		Strategy:      domain.StrategySingleMode,
	}
	seg := svc.BestSegment(context.Background(), ptA, ptB, prefs)

	if seg.Mode != domain.ModeTransit {
		t.Fatalf("mode=%s, want TRANSIT", seg.Mode)
	}
	if seg.TravelMinutes != 10 || seg.DistanceMeters != 3000 || seg.CostEstimate != 2.50 {
		t.Fatalf("seg=%+v", seg)
	}
	if seg.Estimated {
		t.Fatalf("oracle answer flagged as estimate")
	}
	if got := router.queriedModes(); len(got) != 1 || got[0] != domain.ModeTransit {
		t.Fatalf("queried=%v, want [TRANSIT]", got)
	}
}

func TestBestSegment_RoundsDurationUpToWholeMinutes(t *testing.T) {
	t.Parallel()

	router := &fakeRouter{legs: map[domain.TransportMode]routing.Leg{
		domain.ModeWalking: {DurationSeconds: 61, DistanceMeters: 90},
	}}
	svc := optimizer.NewService(router)

	seg := svc.BestSegment(context.Background(), ptA, ptB, domain.DefaultPreferences())
	if seg.TravelMinutes != 2 {
		t.Fatalf("61s gave %d min, want 2", seg.TravelMinutes)
	}
}

func TestBestSegment_MixedPicksHighestWeightedScore(t *testing.T) {
	t.Parallel()

	// Driving is far faster at moderate cost; with default weights it
	// outscores the long walk.
	router := &fakeRouter{legs: map[domain.TransportMode]routing.Leg{
		domain.ModeWalking: {DurationSeconds: 7200, DistanceMeters: 10000, CostEstimate: 0},
		domain.ModeDriving: {DurationSeconds: 900, DistanceMeters: 10000, CostEstimate: 5},
	}}
	svc := optimizer.NewService(router)

	prefs := domain.RoutePreferences{
		AllowedModes:  []domain.TransportMode{domain.ModeWalking, domain.ModeDriving},
		PreferredMode: domain.ModeWalking,
		Strategy:      domain.StrategyMixed,
	}
	seg := svc.BestSegment(context.Background(), ptA, ptB, prefs)
	if seg.Mode != domain.ModeDriving {
		t.Fatalf("mode=%s, want DRIVING", seg.Mode)
	}

	if got := router.queriedModes(); len(got) != 2 {
		t.Fatalf("queried=%v, want both allowed modes", got)
	}
}

func TestBestSegment_MixedExcludesFailingModes(t *testing.T) {
	t.Parallel()

	router := &fakeRouter{
		legs: map[domain.TransportMode]routing.Leg{
			domain.ModeWalking: {DurationSeconds: 7200, DistanceMeters: 10000},
		},
		errs: map[domain.TransportMode]error{
			domain.ModeDriving: routing.ErrUnavailable,
		},
	}
	svc := optimizer.NewService(router)

	prefs := domain.RoutePreferences{
		AllowedModes:  []domain.TransportMode{domain.ModeWalking, domain.ModeDriving},
		PreferredMode: domain.ModeWalking,
		Strategy:      domain.StrategyMixed,
	}
	seg := svc.BestSegment(context.Background(), ptA, ptB, prefs)
	if seg.Mode != domain.ModeWalking || seg.Estimated {
		t.Fatalf("seg=%+v, want walking oracle answer", seg)
	}
}

func TestBestSegment_TieKeepsFirstAllowedMode(t *testing.T) {
	t.Parallel()

	leg := routing.Leg{DurationSeconds: 600, DistanceMeters: 2000, CostEstimate: 1}
	router := &fakeRouter{legs: map[domain.TransportMode]routing.Leg{
		domain.ModeCycling: leg,
		domain.ModeTransit: leg,
	}}
	svc := optimizer.NewService(router)

	prefs := domain.RoutePreferences{
		AllowedModes:  []domain.TransportMode{domain.ModeCycling, domain.ModeTransit},
		PreferredMode: domain.ModeCycling,
		Strategy:      domain.StrategyMixed,
	}
	seg := svc.BestSegment(context.Background(), ptA, ptB, prefs)
	if seg.Mode != domain.ModeCycling {
		t.Fatalf("mode=%s, want first allowed mode CYCLING on tie", seg.Mode)
	}
}

func TestBestSegment_AllFailFallsBackToEstimate(t *testing.T) {
	t.Parallel()

	router := &fakeRouter{errs: map[domain.TransportMode]error{
		domain.ModeWalking: routing.ErrUnavailable,
		domain.ModeTransit: errors.New("boom"),
	}}
	svc := optimizer.NewService(router)

	// Roughly 10 km apart along a meridian.
	from := domain.Coordinates{Latitude: 0, Longitude: 0}
	to := domain.Coordinates{Latitude: 0.09, Longitude: 0}

	prefs := domain.RoutePreferences{
		AllowedModes:  []domain.TransportMode{domain.ModeWalking, domain.ModeTransit},
		PreferredMode: domain.ModeWalking,
		Strategy:      domain.StrategyMixed,
	}
	seg := svc.BestSegment(context.Background(), from, to, prefs)

	if !seg.Estimated {
		t.Fatalf("fallback not flagged as estimate: %+v", seg)
	}
	if seg.Mode != domain.ModeWalking {
		t.Fatalf("mode=%s, want preferred mode WALKING", seg.Mode)
	}
	// ~10 km at 5 km/h is ~120 minutes, free of charge.
	if seg.TravelMinutes != 120 {
		t.Fatalf("minutes=%d, want 120", seg.TravelMinutes)
	}
	if seg.CostEstimate != 0 {
		t.Fatalf("cost=%v, want 0 for walking", seg.CostEstimate)
	}
}
