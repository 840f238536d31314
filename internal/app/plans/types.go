package plans

import (
	"time"

	"github.com/roomrally/escapade-planner-api/internal/domain"
)

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

type CreatePlanInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
}

// UpdatePlanInput patches name/description. Name cannot be null;
// Description specified as null clears it.
type UpdatePlanInput struct {
	Name        Optional[string]
	Description Optional[string]
}

// OptimizeDayInput carries the preference set and optional fixed
// endpoints for one optimize pass.
type OptimizeDayInput struct {
	Preferences domain.RoutePreferences
	StartAnchor *domain.Coordinates
	EndAnchor   *domain.Coordinates
}

// OptimizedDay is the OptimizeDay result: the refreshed day plus the
// derived route data that is not cached on the aggregate.
type OptimizedDay struct {
	Day      domain.DailyItinerary
	Segments []domain.RouteSegment
	Score    float64
	// Degraded flags estimated-not-measured legs in the result.
	Degraded bool
}

// PlanSuggestion pairs a generated suggestion with its deterministic ID.
type PlanSuggestion struct {
	ID domain.SuggestionID
	domain.Suggestion
}
