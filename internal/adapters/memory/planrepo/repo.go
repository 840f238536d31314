package planrepo

import (
	"context"
	"sync"

	"github.com/roomrally/escapade-planner-api/internal/domain"
	"github.com/roomrally/escapade-planner-api/internal/ports/out/planrepo"
)

// Repo is an in-memory implementation of planrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.PlanID]domain.Plan
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.PlanID]domain.Plan)}
}

func (r *Repo) Create(ctx context.Context, p domain.Plan) error {
	_ = ctx
	if p.ID == "" {
		return planrepo.ErrAlreadyExists // treat empty ID as invalid
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; ok {
		return planrepo.ErrAlreadyExists
	}
	r.byID[p.ID] = clonePlan(p)
	return nil
}

func (r *Repo) Save(ctx context.Context, p domain.Plan) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[p.ID]
	if !ok {
		return planrepo.ErrNotFound
	}
	if cur.Version != p.Version {
		return planrepo.ErrVersionConflict
	}
	next := clonePlan(p)
	next.Version++
	r.byID[p.ID] = next
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.PlanID) (domain.Plan, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.Plan{}, planrepo.ErrNotFound
	}
	return clonePlan(p), nil
}

func clonePlan(p domain.Plan) domain.Plan {
	cp := p
	cp.Days = make([]domain.DailyItinerary, len(p.Days))
	for i, d := range p.Days {
		cd := d
		cd.Stops = make([]domain.Stop, len(d.Stops))
		for j, s := range d.Stops {
			cs := s
			if s.ModeToNext != nil {
				m := *s.ModeToNext
				cs.ModeToNext = &m
			}
			cd.Stops[j] = cs
		}
		cp.Days[i] = cd
	}
	return cp
}
