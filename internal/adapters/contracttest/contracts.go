// Package contracttest holds behavioral suites every plan store
// implementation must pass. Each adapter package runs them against its
// own repository.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/roomrally/escapade-planner-api/internal/domain"
	"github.com/roomrally/escapade-planner-api/internal/ports/out/planrepo"
)

type CleanupFunc = func()

type PlanRepoFactory func(t *testing.T) (planrepo.Repository, CleanupFunc)

func buildPlan(t *testing.T, id domain.PlanID) domain.Plan {
	t.Helper()
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	p, err := domain.NewPlan(id, "Plan "+string(id), "two escape days", start, start.AddDate(0, 0, 1), time.Unix(100, 0).UTC())
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	mode := domain.ModeTransit
	p.Days[0].Stops = []domain.Stop{{
		ActivityID:          "vault-heist",
		Position:            1,
		DurationMinutes:     90,
		PriceEstimate:       34,
		TravelToNextMinutes: 12,
		TravelToNextCost:    2.50,
		ModeToNext:          &mode,
	}}
	p.Days[0].TotalTimeMinutes = 102
	p.Days[0].TotalCostEstimate = 36.50
	return p
}

// BuildPlanForTest returns the canonical plan fixture the suites use,
// for adapter tests that need the same shape.
func BuildPlanForTest(t *testing.T, id domain.PlanID) domain.Plan {
	t.Helper()
	return buildPlan(t, id)
}

// RunPlanRepo exercises the full Repository contract: create-once
// semantics, field round-trips, and optimistic save.
func RunPlanRepo(t *testing.T, newRepo PlanRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	p := buildPlan(t, "p1")
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, p); !errors.Is(err, planrepo.ErrAlreadyExists) {
		t.Fatalf("second Create err=%v, want ErrAlreadyExists", err)
	}

	got, err := repo.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Plan p1" || got.Description != "two escape days" || len(got.Days) != 2 {
		t.Fatalf("got=%+v", got)
	}
	if !got.StartDate.Equal(p.StartDate) || !got.EndDate.Equal(p.EndDate) {
		t.Fatalf("dates=%v..%v, want %v..%v", got.StartDate, got.EndDate, p.StartDate, p.EndDate)
	}
	stop := got.Days[0].Stops[0]
	if stop.ActivityID != "vault-heist" || stop.DurationMinutes != 90 || stop.PriceEstimate != 34 {
		t.Fatalf("stop=%+v", stop)
	}
	if stop.TravelToNextMinutes != 12 || stop.TravelToNextCost != 2.50 {
		t.Fatalf("leg fields=%+v", stop)
	}
	if stop.ModeToNext == nil || *stop.ModeToNext != domain.ModeTransit {
		t.Fatalf("mode=%v, want TRANSIT", stop.ModeToNext)
	}
	if got.Days[0].TotalTimeMinutes != 102 || got.Days[0].TotalCostEstimate != 36.50 {
		t.Fatalf("totals=%d/%v", got.Days[0].TotalTimeMinutes, got.Days[0].TotalCostEstimate)
	}
	if got.Version != 0 {
		t.Fatalf("fresh plan version=%d, want 0", got.Version)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, planrepo.ErrNotFound) {
		t.Fatalf("GetByID missing err=%v, want ErrNotFound", err)
	}

	// Save against the stored version succeeds and bumps it.
	got.Name = "renamed"
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	saved, err := repo.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("GetByID after save: %v", err)
	}
	if saved.Name != "renamed" || saved.Version != 1 {
		t.Fatalf("saved name=%q version=%d, want renamed/1", saved.Name, saved.Version)
	}

	// A writer still holding version 0 is stale.
	stale := got
	stale.Name = "stale write"
	if err := repo.Save(ctx, stale); !errors.Is(err, planrepo.ErrVersionConflict) {
		t.Fatalf("stale Save err=%v, want ErrVersionConflict", err)
	}

	if err := repo.Save(ctx, buildPlan(t, "p2")); !errors.Is(err, planrepo.ErrNotFound) {
		t.Fatalf("Save unknown err=%v, want ErrNotFound", err)
	}
}
