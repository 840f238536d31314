package activityrepo

import (
	"context"

	"github.com/roomrally/escapade-planner-api/internal/domain"
)

// Repository exposes the read-only activity catalog. The engine never
// writes activities.
type Repository interface {
	GetByID(ctx context.Context, id domain.ActivityID) (domain.Activity, error)
	// GetByIDs returns activities keyed by id; ids absent from the
	// catalog are reported via ErrNotFound.
	GetByIDs(ctx context.Context, ids []domain.ActivityID) (map[domain.ActivityID]domain.Activity, error)
	List(ctx context.Context) ([]domain.Activity, error)
}
