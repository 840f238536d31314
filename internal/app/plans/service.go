package plans

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roomrally/escapade-planner-api/internal/app/optimizer"
	"github.com/roomrally/escapade-planner-api/internal/domain"
	"github.com/roomrally/escapade-planner-api/internal/ports/out/activityrepo"
	"github.com/roomrally/escapade-planner-api/internal/ports/out/clock"
	"github.com/roomrally/escapade-planner-api/internal/ports/out/planrepo"
)

// DefaultBudgetMinutes is the per-day time budget applied until the
// caller overrides it (8 hours).
const DefaultBudgetMinutes = 480

// suggestionNamespace seeds deterministic suggestion IDs.
var suggestionNamespace = uuid.MustParse("9a2f1f64-52b7-4f51-9ec2-6f58f0c2a8d1")

type Service struct {
	plans      planrepo.Repository
	activities activityrepo.Repository
	optimizer  *optimizer.Service
	clk        clock.Clock

	mu            sync.RWMutex
	budgetMinutes int

	newPlanID func() domain.PlanID
}

func NewService(plansRepo planrepo.Repository, activitiesRepo activityrepo.Repository, opt *optimizer.Service, clk clock.Clock) *Service {
	return &Service{
		plans:         plansRepo,
		activities:    activitiesRepo,
		optimizer:     opt,
		clk:           clk,
		budgetMinutes: DefaultBudgetMinutes,
		newPlanID: func() domain.PlanID {
			return domain.PlanID(uuid.NewString())
		},
	}
}

// SetNewPlanIDForTest overrides plan ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewPlanIDForTest(fn func() domain.PlanID) {
	if fn != nil {
		s.newPlanID = fn
	}
}

// SetBudget changes the per-day time budget used by suggestion
// generation. Suggestions are derived on demand, so no stored state needs
// refreshing here.
func (s *Service) SetBudget(minutes int) error {
	if minutes <= 0 {
		return &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid budget", Details: map[string]any{"minutes": "must be > 0"}}
	}
	s.mu.Lock()
	s.budgetMinutes = minutes
	s.mu.Unlock()
	return nil
}

func (s *Service) Budget() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.budgetMinutes
}

func (s *Service) CreatePlan(ctx context.Context, in CreatePlanInput) (domain.Plan, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Plan{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid name", Details: map[string]any{"name": "must be non-empty"}}
	}

	now := s.clk.Now()
	p, err := domain.NewPlan(s.newPlanID(), name, strings.TrimSpace(in.Description), in.StartDate, in.EndDate, now)
	if err != nil {
		return domain.Plan{}, validationError(err)
	}
	if err := s.plans.Create(ctx, p); err != nil {
		if errors.Is(err, planrepo.ErrAlreadyExists) {
			return domain.Plan{}, &Error{Status: 409, Code: "PLAN_ID_CONFLICT", Message: "plan id conflict"}
		}
		return domain.Plan{}, err
	}
	return p, nil
}

func (s *Service) GetPlan(ctx context.Context, id domain.PlanID) (domain.Plan, error) {
	return s.load(ctx, id)
}

func (s *Service) UpdatePlan(ctx context.Context, id domain.PlanID, in UpdatePlanInput) (domain.Plan, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return domain.Plan{}, err
	}
	if in.Name.IsSpecified() {
		if in.Name.IsNull() {
			return domain.Plan{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid name", Details: map[string]any{"name": "cannot be null"}}
		}
		name := strings.TrimSpace(in.Name.Value())
		if name == "" {
			return domain.Plan{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid name", Details: map[string]any{"name": "must be non-empty"}}
		}
		p.Name = name
	}
	if in.Description.IsSpecified() {
		if in.Description.IsNull() {
			p.Description = ""
		} else {
			p.Description = strings.TrimSpace(in.Description.Value())
		}
	}
	return s.save(ctx, p)
}

func (s *Service) UpdateDateRange(ctx context.Context, id domain.PlanID, start, end time.Time) (domain.Plan, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return domain.Plan{}, err
	}
	if err := p.SetDateRange(start, end); err != nil {
		return domain.Plan{}, validationError(err)
	}
	return s.save(ctx, p)
}

func (s *Service) AddStop(ctx context.Context, id domain.PlanID, date time.Time, activityID domain.ActivityID) (domain.DailyItinerary, error) {
	a, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, activityrepo.ErrNotFound) {
			return domain.DailyItinerary{}, &Error{Status: 422, Code: "ACTIVITY_NOT_FOUND", Message: "activity not found", Details: map[string]any{"activityId": string(activityID)}}
		}
		return domain.DailyItinerary{}, err
	}

	p, err := s.load(ctx, id)
	if err != nil {
		return domain.DailyItinerary{}, err
	}
	day, err := p.Day(date)
	if err != nil {
		return domain.DailyItinerary{}, validationError(err)
	}
	if err := day.AddStop(a); err != nil {
		return domain.DailyItinerary{}, validationError(err)
	}
	if _, err := s.save(ctx, p); err != nil {
		return domain.DailyItinerary{}, err
	}
	return *day, nil
}

func (s *Service) RemoveStop(ctx context.Context, id domain.PlanID, date time.Time, activityID domain.ActivityID) (domain.DailyItinerary, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return domain.DailyItinerary{}, err
	}
	day, err := p.Day(date)
	if err != nil {
		return domain.DailyItinerary{}, validationError(err)
	}
	if err := day.RemoveStop(activityID); err != nil {
		return domain.DailyItinerary{}, validationError(err)
	}
	if _, err := s.save(ctx, p); err != nil {
		return domain.DailyItinerary{}, err
	}
	return *day, nil
}

func (s *Service) ReorderStops(ctx context.Context, id domain.PlanID, date time.Time, order []domain.ActivityID) (domain.DailyItinerary, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return domain.DailyItinerary{}, err
	}
	day, err := p.Day(date)
	if err != nil {
		return domain.DailyItinerary{}, validationError(err)
	}
	if err := day.Reorder(order); err != nil {
		return domain.DailyItinerary{}, validationError(err)
	}
	if _, err := s.save(ctx, p); err != nil {
		return domain.DailyItinerary{}, err
	}
	return *day, nil
}

// MoveStopBetweenDays relocates one stop atomically; a failing half
// leaves both days unchanged.
func (s *Service) MoveStopBetweenDays(ctx context.Context, id domain.PlanID, fromDate time.Time, activityID domain.ActivityID, toDate time.Time) (domain.DailyItinerary, domain.DailyItinerary, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return domain.DailyItinerary{}, domain.DailyItinerary{}, err
	}
	if err := p.MoveStop(activityID, fromDate, toDate); err != nil {
		return domain.DailyItinerary{}, domain.DailyItinerary{}, validationError(err)
	}
	if _, err := s.save(ctx, p); err != nil {
		return domain.DailyItinerary{}, domain.DailyItinerary{}, err
	}
	from, _ := p.Day(fromDate)
	to, _ := p.Day(toDate)
	return *from, *to, nil
}

// UpdateTransportMode changes a day's mode and strategy without
// recomputing times; the caller re-invokes OptimizeDay to refresh them.
func (s *Service) UpdateTransportMode(ctx context.Context, id domain.PlanID, date time.Time, mode domain.TransportMode, strategy domain.MultiModalStrategy) (domain.DailyItinerary, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return domain.DailyItinerary{}, err
	}
	day, err := p.Day(date)
	if err != nil {
		return domain.DailyItinerary{}, validationError(err)
	}
	day.SetTransportMode(mode, strategy)
	if _, err := s.save(ctx, p); err != nil {
		return domain.DailyItinerary{}, err
	}
	return *day, nil
}

// OptimizeDay sequences the day's stops into an efficient route and
// installs the resulting order and leg estimates on the aggregate.
// Routing-oracle failures degrade to estimates; they never fail the
// operation.
func (s *Service) OptimizeDay(ctx context.Context, id domain.PlanID, date time.Time, in OptimizeDayInput) (OptimizedDay, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return OptimizedDay{}, err
	}
	day, err := p.Day(date)
	if err != nil {
		return OptimizedDay{}, validationError(err)
	}

	prefs := in.Preferences.Normalize()

	ids := make([]domain.ActivityID, 0, len(day.Stops))
	for _, st := range day.Stops {
		ids = append(ids, st.ActivityID)
	}
	catalog, err := s.activities.GetByIDs(ctx, ids)
	if err != nil {
		if errors.Is(err, activityrepo.ErrNotFound) {
			return OptimizedDay{}, &Error{Status: 422, Code: "ACTIVITY_NOT_FOUND", Message: "a scheduled activity is missing from the catalog"}
		}
		return OptimizedDay{}, err
	}

	waypoints := make([]optimizer.Waypoint, 0, len(day.Stops))
	for _, st := range day.Stops {
		waypoints = append(waypoints, optimizer.Waypoint{
			ActivityID: st.ActivityID,
			Location:   catalog[st.ActivityID].Location,
		})
	}

	route := s.optimizer.Sequence(ctx, waypoints, optimizer.Anchors{Start: in.StartAnchor, End: in.EndAnchor}, prefs)

	legs := stopLegs(route, in.StartAnchor != nil, in.EndAnchor != nil)
	if err := day.ApplyRoute(route.OrderedActivityIDs, legs, prefs); err != nil {
		return OptimizedDay{}, validationError(err)
	}

	if _, err := s.save(ctx, p); err != nil {
		return OptimizedDay{}, err
	}
	return OptimizedDay{
		Day:      *day,
		Segments: route.Segments,
		Score:    route.Score,
		Degraded: route.Degraded,
	}, nil
}

// GetSuggestions derives the current corrective suggestions for a plan
// against the budget in force.
func (s *Service) GetSuggestions(ctx context.Context, id domain.PlanID) ([]PlanSuggestion, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.suggestionsFor(p), nil
}

// ApplySuggestion performs the corrective action a suggestion proposes:
// a move for MOVE_STOP, a removal for FLAG_FOR_REMOVAL. The suggestion
// must belong to the plan's current derived set.
func (s *Service) ApplySuggestion(ctx context.Context, id domain.PlanID, suggestionID domain.SuggestionID) (domain.Plan, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return domain.Plan{}, err
	}

	var match *PlanSuggestion
	for _, sg := range s.suggestionsFor(p) {
		if sg.ID == suggestionID {
			match = &sg
			break
		}
	}
	if match == nil {
		return domain.Plan{}, &Error{Status: 404, Code: "SUGGESTION_NOT_FOUND", Message: "suggestion not found or no longer applicable"}
	}

	switch match.Kind {
	case domain.SuggestionMoveStop:
		if err := p.MoveStop(match.ActivityID, match.SourceDate, *match.TargetDate); err != nil {
			return domain.Plan{}, validationError(err)
		}
	case domain.SuggestionFlagForRemoval:
		day, err := p.Day(match.SourceDate)
		if err != nil {
			return domain.Plan{}, validationError(err)
		}
		if err := day.RemoveStop(match.ActivityID); err != nil {
			return domain.Plan{}, validationError(err)
		}
	default:
		return domain.Plan{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "unknown suggestion kind"}
	}
	return s.save(ctx, p)
}

func (s *Service) suggestionsFor(p domain.Plan) []PlanSuggestion {
	raw := domain.GenerateSuggestions(p, s.Budget())
	out := make([]PlanSuggestion, 0, len(raw))
	for _, sg := range raw {
		out = append(out, PlanSuggestion{
			ID:         suggestionIDFor(sg),
			Suggestion: sg,
		})
	}
	return out
}

func suggestionIDFor(sg domain.Suggestion) domain.SuggestionID {
	return domain.SuggestionID(uuid.NewSHA1(suggestionNamespace, []byte(sg.Fingerprint())).String())
}

// stopLegs extracts the stop-to-stop leg estimates from a sequencing
// result, skipping anchor legs: day totals only count travel between
// stops, per the cached-total invariant.
func stopLegs(route optimizer.DayRoute, hasStart, hasEnd bool) []domain.LegEstimate {
	segs := route.Segments
	if hasStart && len(segs) > 0 {
		segs = segs[1:]
	}
	if hasEnd && len(segs) > 0 {
		segs = segs[:len(segs)-1]
	}
	out := make([]domain.LegEstimate, 0, len(segs))
	for _, seg := range segs {
		out = append(out, domain.LegEstimate{
			Minutes:   seg.TravelMinutes,
			Cost:      seg.CostEstimate,
			Mode:      seg.Mode,
			Estimated: seg.Estimated,
		})
	}
	return out
}

func (s *Service) load(ctx context.Context, id domain.PlanID) (domain.Plan, error) {
	p, err := s.plans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, planrepo.ErrNotFound) {
			return domain.Plan{}, &Error{Status: 404, Code: "PLAN_NOT_FOUND", Message: "plan not found"}
		}
		return domain.Plan{}, err
	}
	return p, nil
}

func (s *Service) save(ctx context.Context, p domain.Plan) (domain.Plan, error) {
	p.UpdatedAt = s.clk.Now()
	if err := s.plans.Save(ctx, p); err != nil {
		if errors.Is(err, planrepo.ErrVersionConflict) {
			return domain.Plan{}, &Error{Status: 409, Code: "PLAN_VERSION_CONFLICT", Message: "plan was modified concurrently"}
		}
		if errors.Is(err, planrepo.ErrNotFound) {
			return domain.Plan{}, &Error{Status: 404, Code: "PLAN_NOT_FOUND", Message: "plan not found"}
		}
		return domain.Plan{}, err
	}
	p.Version++
	return p, nil
}

// validationError maps domain validation failures onto app errors with
// specific reason codes. Unknown errors pass through untouched.
func validationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrDuplicateActivity):
		return &Error{Status: 409, Code: "DUPLICATE_STOP", Message: "activity is already scheduled for that day"}
	case errors.Is(err, domain.ErrStopNotFound):
		return &Error{Status: 422, Code: "STOP_NOT_FOUND", Message: "activity is not scheduled for that day"}
	case errors.Is(err, domain.ErrNotPermutation):
		return &Error{Status: 422, Code: "NOT_A_PERMUTATION", Message: "order must be a permutation of the day's current stops"}
	case errors.Is(err, domain.ErrDateOutOfRange):
		return &Error{Status: 422, Code: "DATE_OUT_OF_RANGE", Message: "date is outside the plan's range"}
	case errors.Is(err, domain.ErrInvalidDateRange):
		return &Error{Status: 422, Code: "INVALID_DATE_RANGE", Message: "end date must be on or after start date"}
	case errors.Is(err, domain.ErrSameDayMove):
		return &Error{Status: 422, Code: "SAME_DAY_MOVE", Message: "source and target day must differ"}
	case errors.Is(err, domain.ErrLegCountMismatch):
		return &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "leg count does not match stop order"}
	default:
		return err
	}
}
