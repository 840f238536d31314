package domain

import (
	"errors"
	"testing"
)

func TestParseTransportMode(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"DRIVING", "WALKING", "CYCLING", "TRANSIT"} {
		if _, err := ParseTransportMode(s); err != nil {
			t.Fatalf("ParseTransportMode(%q): %v", s, err)
		}
	}
	if _, err := ParseTransportMode("walking"); !errors.Is(err, ErrUnknownTransportMode) {
		t.Fatalf("lowercase accepted")
	}
	if _, err := ParseStrategy("MIXED"); err != nil {
		t.Fatalf("ParseStrategy: %v", err)
	}
	if _, err := ParseStrategy("BEST"); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("unknown strategy accepted")
	}
}

func TestRoutePreferences_Normalize(t *testing.T) {
	t.Parallel()

	got := RoutePreferences{}.Normalize()
	if got.PreferredMode != ModeWalking || got.Strategy != StrategySingleMode {
		t.Fatalf("defaults=%+v", got)
	}
	if len(got.AllowedModes) != 1 || got.AllowedModes[0] != ModeWalking {
		t.Fatalf("allowed=%v, want preferred mode injected", got.AllowedModes)
	}

	got = RoutePreferences{
		AllowedModes:  []TransportMode{ModeTransit},
		PreferredMode: ModeDriving,
		Strategy:      StrategyMixed,
	}.Normalize()
	if got.AllowedModes[0] != ModeDriving || got.AllowedModes[1] != ModeTransit {
		t.Fatalf("allowed=%v, want preferred mode first", got.AllowedModes)
	}

	// Already-consistent preferences pass through untouched.
	in := RoutePreferences{AllowedModes: []TransportMode{ModeCycling, ModeWalking}, PreferredMode: ModeCycling, Strategy: StrategyMixed}
	got = in.Normalize()
	if len(got.AllowedModes) != 2 || got.PreferredMode != ModeCycling {
		t.Fatalf("got=%+v", got)
	}
}

func TestRoutePreferences_Weights(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		time, cost bool
		want       ScoreWeights
	}{
		{"neither dial", false, false, ScoreWeights{Time: 0.3, Cost: 0.2, Distance: 0.5}},
		{"time dial", true, false, ScoreWeights{Time: 0.5, Cost: 0.2, Distance: 0.3}},
		{"cost dial", false, true, ScoreWeights{Time: 0.3, Cost: 0.4, Distance: 0.3}},
	}
	for _, tc := range cases {
		got := RoutePreferences{OptimizeForTime: tc.time, OptimizeForCost: tc.cost}.Weights()
		if got.Time != tc.want.Time || got.Cost != tc.want.Cost {
			t.Fatalf("%s: got=%+v, want=%+v", tc.name, got, tc.want)
		}
		if diff := got.Distance - tc.want.Distance; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("%s: distance=%v, want %v", tc.name, got.Distance, tc.want.Distance)
		}
	}

	// Both dials: weights still sum to 1.
	got := RoutePreferences{OptimizeForTime: true, OptimizeForCost: true}.Weights()
	if sum := got.Time + got.Cost + got.Distance; sum < 1-1e-9 || sum > 1+1e-9 {
		t.Fatalf("weights sum=%v, want 1", sum)
	}
}
