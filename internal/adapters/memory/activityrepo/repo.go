package activityrepo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/roomrally/escapade-planner-api/internal/domain"
	"github.com/roomrally/escapade-planner-api/internal/ports/out/activityrepo"
)

// Repo is an in-memory activity catalog. The engine treats the catalog
// as read-only; Put exists for seeding and tests.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.ActivityID]domain.Activity
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.ActivityID]domain.Activity)}
}

func (r *Repo) Put(a domain.Activity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID] = a
}

func (r *Repo) GetByID(ctx context.Context, id domain.ActivityID) (domain.Activity, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return domain.Activity{}, activityrepo.ErrNotFound
	}
	return a, nil
}

func (r *Repo) GetByIDs(ctx context.Context, ids []domain.ActivityID) (map[domain.ActivityID]domain.Activity, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[domain.ActivityID]domain.Activity, len(ids))
	for _, id := range ids {
		a, ok := r.byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", activityrepo.ErrNotFound, id)
		}
		out[id] = a
	}
	return out, nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Activity, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Activity, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SeedDemo loads a small escape-room catalog for local runs.
func SeedDemo(r *Repo) {
	demo := []domain.Activity{
		{ID: "vault-heist", Name: "The Vault Heist", DurationMinutes: 90, PriceEstimate: 34, Location: domain.Coordinates{Latitude: 52.3702, Longitude: 4.8952}},
		{ID: "clockwork-cellar", Name: "Clockwork Cellar", DurationMinutes: 60, PriceEstimate: 28, Location: domain.Coordinates{Latitude: 52.3667, Longitude: 4.9041}},
		{ID: "ghost-ship", Name: "Ghost Ship", DurationMinutes: 75, PriceEstimate: 31, Location: domain.Coordinates{Latitude: 52.3745, Longitude: 4.9123}},
		{ID: "alchemist-attic", Name: "The Alchemist's Attic", DurationMinutes: 60, PriceEstimate: 26, Location: domain.Coordinates{Latitude: 52.3612, Longitude: 4.8837}},
		{ID: "midnight-express", Name: "Midnight Express", DurationMinutes: 120, PriceEstimate: 42, Location: domain.Coordinates{Latitude: 52.3789, Longitude: 4.9003}},
	}
	for _, a := range demo {
		r.Put(a)
	}
}
