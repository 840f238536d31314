package planrepo

import (
	"context"

	"github.com/roomrally/escapade-planner-api/internal/domain"
)

// Repository persists plans as whole documents: a plan embeds its daily
// itineraries, which embed their stops. Save performs an optimistic
// version check: the stored version must equal the plan's Version, and
// the write bumps it by one.
type Repository interface {
	Create(ctx context.Context, p domain.Plan) error
	Save(ctx context.Context, p domain.Plan) error
	GetByID(ctx context.Context, id domain.PlanID) (domain.Plan, error)
}
