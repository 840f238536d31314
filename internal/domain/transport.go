package domain

import (
	"errors"
	"fmt"
)

type TransportMode string

const (
	ModeDriving TransportMode = "DRIVING"
	ModeWalking TransportMode = "WALKING"
	ModeCycling TransportMode = "CYCLING"
	ModeTransit TransportMode = "TRANSIT"
)

var ErrUnknownTransportMode = errors.New("unknown transport mode")

func ParseTransportMode(s string) (TransportMode, error) {
	switch TransportMode(s) {
	case ModeDriving, ModeWalking, ModeCycling, ModeTransit:
		return TransportMode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTransportMode, s)
}

// MultiModalStrategy selects how legs pick their transport mode.
type MultiModalStrategy string

const (
	// StrategySingleMode uses the preferred mode for every leg.
	StrategySingleMode MultiModalStrategy = "SINGLE_MODE"
	// StrategyMixed lets each leg pick the best-scoring allowed mode.
	StrategyMixed MultiModalStrategy = "MIXED"
)

var ErrUnknownStrategy = errors.New("unknown multi-modal strategy")

func ParseStrategy(s string) (MultiModalStrategy, error) {
	switch MultiModalStrategy(s) {
	case StrategySingleMode, StrategyMixed:
		return MultiModalStrategy(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// RoutePreferences drives mode selection and leg scoring.
type RoutePreferences struct {
	AllowedModes    []TransportMode
	PreferredMode   TransportMode
	Strategy        MultiModalStrategy
	OptimizeForTime bool
	OptimizeForCost bool
}

// DefaultPreferences is a single-mode walking preference set, the safe
// choice for city itineraries when the caller sends nothing.
func DefaultPreferences() RoutePreferences {
	return RoutePreferences{
		AllowedModes:  []TransportMode{ModeWalking, ModeTransit, ModeDriving, ModeCycling},
		PreferredMode: ModeWalking,
		Strategy:      StrategySingleMode,
	}
}

// Normalize fills gaps so downstream code can assume a usable preference
// set: preferred mode defaults to walking, the allowed list always
// contains the preferred mode, and an empty strategy means single-mode.
func (p RoutePreferences) Normalize() RoutePreferences {
	out := p
	if out.PreferredMode == "" {
		out.PreferredMode = ModeWalking
	}
	if out.Strategy == "" {
		out.Strategy = StrategySingleMode
	}
	found := false
	for _, m := range out.AllowedModes {
		if m == out.PreferredMode {
			found = true
			break
		}
	}
	if !found {
		out.AllowedModes = append([]TransportMode{out.PreferredMode}, out.AllowedModes...)
	}
	return out
}

// ScoreWeights are the blend weights for candidate scoring.
type ScoreWeights struct {
	Time     float64
	Cost     float64
	Distance float64
}

// Weights derives the scoring blend from the optimization dials.
// The distance weight absorbs whatever the dials leave unclaimed.
func (p RoutePreferences) Weights() ScoreWeights {
	w := ScoreWeights{Time: 0.3, Cost: 0.2}
	if p.OptimizeForTime {
		w.Time = 0.5
	}
	if p.OptimizeForCost {
		w.Cost = 0.4
	}
	w.Distance = 1 - w.Time - w.Cost
	return w
}
