package optimizer

import (
	"context"
	"sync"
	"time"

	"github.com/roomrally/escapade-planner-api/internal/domain"
	"github.com/roomrally/escapade-planner-api/internal/ports/out/routing"
)

// Reference constants for candidate scoring. Each sub-score is
// 1/(1+value/ref), so a leg matching the reference scores 0.5.
const (
	refTimeMinutes = 30.0
	refCostEuros   = 10.0
	refDistanceKm  = 10.0
)

// Straight-line fallback heuristics: effective speed and per-km cost per
// mode, applied when the routing oracle cannot answer.
var fallbackSpeedKmh = map[domain.TransportMode]float64{
	domain.ModeDriving: 30,
	domain.ModeWalking: 5,
	domain.ModeCycling: 15,
	domain.ModeTransit: 20,
}

var fallbackCostPerKm = map[domain.TransportMode]float64{
	domain.ModeDriving: 0.50,
	domain.ModeWalking: 0,
	domain.ModeCycling: 0,
	domain.ModeTransit: 0.25,
}

const defaultCallTimeout = 8 * time.Second

// Service computes route segments and day orderings against the routing
// oracle. It degrades to straight-line estimates instead of failing, so
// callers always receive a usable result.
type Service struct {
	client      routing.Client
	callTimeout time.Duration
}

func NewService(client routing.Client) *Service {
	return &Service{client: client, callTimeout: defaultCallTimeout}
}

// SetCallTimeout overrides the per-oracle-call timeout.
func (s *Service) SetCallTimeout(d time.Duration) {
	if d > 0 {
		s.callTimeout = d
	}
}

// BestSegment picks the best travel leg between two points for the given
// preferences. Single-mode strategies query only the preferred mode.
// Mixed strategies query every allowed mode concurrently and keep the
// highest weighted score, breaking ties by allowed-list order. Candidates
// whose oracle call fails are excluded; if every candidate fails the
// straight-line fallback answers.
func (s *Service) BestSegment(ctx context.Context, from, to domain.Coordinates, prefs domain.RoutePreferences) domain.RouteSegment {
	prefs = prefs.Normalize()

	if prefs.Strategy == domain.StrategySingleMode {
		seg, err := s.querySegment(ctx, from, to, prefs.PreferredMode)
		if err != nil {
			return fallbackSegment(from, to, prefs.PreferredMode)
		}
		return seg
	}

	candidates := make([]*domain.RouteSegment, len(prefs.AllowedModes))
	var wg sync.WaitGroup
	for i, mode := range prefs.AllowedModes {
		wg.Add(1)
		go func(i int, mode domain.TransportMode) {
			defer wg.Done()
			seg, err := s.querySegment(ctx, from, to, mode)
			if err != nil {
				return
			}
			candidates[i] = &seg
		}(i, mode)
	}
	wg.Wait()

	weights := prefs.Weights()
	var best *domain.RouteSegment
	bestScore := -1.0
	for _, c := range candidates {
		if c == nil {
			continue
		}
		// Strictly-greater keeps the leftmost allowed mode on ties.
		if score := segmentScore(*c, weights); score > bestScore {
			best = c
			bestScore = score
		}
	}
	if best == nil {
		return fallbackSegment(from, to, prefs.PreferredMode)
	}
	return *best
}

func (s *Service) querySegment(ctx context.Context, from, to domain.Coordinates, mode domain.TransportMode) (domain.RouteSegment, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	leg, err := s.client.GetSegment(callCtx, from, to, mode)
	if err != nil {
		return domain.RouteSegment{}, err
	}
	return domain.RouteSegment{
		From:           from,
		To:             to,
		Mode:           mode,
		TravelMinutes:  (leg.DurationSeconds + 59) / 60,
		DistanceMeters: leg.DistanceMeters,
		CostEstimate:   leg.CostEstimate,
		Path:           leg.Path,
	}, nil
}

func segmentScore(seg domain.RouteSegment, w domain.ScoreWeights) float64 {
	timeScore := 1 / (1 + float64(seg.TravelMinutes)/refTimeMinutes)
	costScore := 1 / (1 + seg.CostEstimate/refCostEuros)
	distScore := 1 / (1 + float64(seg.DistanceMeters)/1000/refDistanceKm)
	return w.Time*timeScore + w.Cost*costScore + w.Distance*distScore
}

// fallbackSegment estimates a leg from great-circle distance and
// mode-specific speed/cost heuristics.
func fallbackSegment(from, to domain.Coordinates, mode domain.TransportMode) domain.RouteSegment {
	meters := from.DistanceMeters(to)
	km := meters / 1000

	speed, ok := fallbackSpeedKmh[mode]
	if !ok {
		speed = fallbackSpeedKmh[domain.ModeWalking]
	}
	minutes := int(km / speed * 60)

	return domain.RouteSegment{
		From:           from,
		To:             to,
		Mode:           mode,
		TravelMinutes:  minutes,
		DistanceMeters: int(meters),
		CostEstimate:   km * fallbackCostPerKm[mode],
		Estimated:      true,
	}
}
