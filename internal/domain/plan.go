package domain

import (
	"errors"
	"time"
)

// Validation errors. Mutations that return one of these leave the
// aggregate untouched.
var (
	ErrDuplicateActivity = errors.New("activity already scheduled for this day")
	ErrStopNotFound      = errors.New("activity is not a stop in this day")
	ErrNotPermutation    = errors.New("order is not a permutation of the current stops")
	ErrDateOutOfRange    = errors.New("date outside plan range")
	ErrInvalidDateRange  = errors.New("end date before start date")
	ErrSameDayMove       = errors.New("source and target day are the same")
	ErrLegCountMismatch  = errors.New("leg count does not match stop order")
)

// Stop is one scheduled visit to an activity within a day. Duration and
// price are snapshots taken when the stop was added.
type Stop struct {
	ActivityID      ActivityID
	Position        int // 1-based, contiguous within the day
	DurationMinutes int
	PriceEstimate   float64

	// Travel fields describe the leg to the *next* stop. They are zero
	// until the day has been optimized and are reset by structural
	// mutations, which invalidate previously computed legs.
	ArrivalOffsetMinutes int
	TravelToNextMinutes  int
	TravelToNextCost     float64
	ModeToNext           *TransportMode
}

// LegEstimate is the per-leg result an optimizer feeds back into a day.
type LegEstimate struct {
	Minutes   int
	Cost      float64
	Mode      TransportMode
	Estimated bool
}

// DailyItinerary is one day's ordered list of stops within a plan.
// Cached totals are recomputed before every mutation returns.
type DailyItinerary struct {
	Date  time.Time // UTC midnight
	Stops []Stop

	TotalTimeMinutes  int
	TotalCostEstimate float64

	PreferredMode TransportMode
	Strategy      MultiModalStrategy

	// Degraded reports that at least one cached leg came from the
	// straight-line fallback rather than the routing oracle.
	Degraded bool
}

// Date normalizes t to a UTC calendar date.
func Date(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (d *DailyItinerary) HasActivity(id ActivityID) bool {
	for _, s := range d.Stops {
		if s.ActivityID == id {
			return true
		}
	}
	return false
}

// AddStop appends the activity at the next position with travel fields at
// zero. Rejects duplicates within the day.
func (d *DailyItinerary) AddStop(a Activity) error {
	if d.HasActivity(a.ID) {
		return ErrDuplicateActivity
	}
	d.Stops = append(d.Stops, Stop{
		ActivityID:      a.ID,
		DurationMinutes: a.DurationMinutes,
		PriceEstimate:   a.PriceEstimate,
	})
	d.invalidateLegs()
	d.recompute()
	return nil
}

// RemoveStop removes the activity's stop and renumbers the rest.
func (d *DailyItinerary) RemoveStop(id ActivityID) error {
	idx := -1
	for i, s := range d.Stops {
		if s.ActivityID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrStopNotFound
	}
	d.Stops = append(d.Stops[:idx], d.Stops[idx+1:]...)
	d.invalidateLegs()
	d.recompute()
	return nil
}

// Reorder applies a new visiting order. The supplied list must be a
// permutation of exactly the current stops.
func (d *DailyItinerary) Reorder(order []ActivityID) error {
	if len(order) != len(d.Stops) {
		return ErrNotPermutation
	}
	byID := make(map[ActivityID]Stop, len(d.Stops))
	for _, s := range d.Stops {
		byID[s.ActivityID] = s
	}
	next := make([]Stop, 0, len(order))
	for _, id := range order {
		s, ok := byID[id]
		if !ok {
			return ErrNotPermutation
		}
		delete(byID, id) // duplicate ids in the order fail the lookup above
		next = append(next, s)
	}
	d.Stops = next
	d.invalidateLegs()
	d.recompute()
	return nil
}

// ApplyRoute installs an optimized visiting order together with its leg
// estimates. order must be a permutation of the current stops and legs
// must hold exactly len(order)-1 entries (leg i connects stop i to i+1).
func (d *DailyItinerary) ApplyRoute(order []ActivityID, legs []LegEstimate, prefs RoutePreferences) error {
	if len(order) > 0 && len(legs) != len(order)-1 {
		return ErrLegCountMismatch
	}
	if err := d.Reorder(order); err != nil {
		return err
	}
	degraded := false
	for i := range legs {
		mode := legs[i].Mode
		d.Stops[i].TravelToNextMinutes = legs[i].Minutes
		d.Stops[i].TravelToNextCost = legs[i].Cost
		d.Stops[i].ModeToNext = &mode
		if legs[i].Estimated {
			degraded = true
		}
	}
	d.PreferredMode = prefs.PreferredMode
	d.Strategy = prefs.Strategy
	d.Degraded = degraded
	d.recompute()
	return nil
}

// SetTransportMode is a pure attribute change; cached times and costs are
// only refreshed by the next optimize pass.
func (d *DailyItinerary) SetTransportMode(mode TransportMode, strategy MultiModalStrategy) {
	d.PreferredMode = mode
	d.Strategy = strategy
}

// invalidateLegs clears travel data after a structural mutation; the legs
// no longer describe the current consecutive pairs.
func (d *DailyItinerary) invalidateLegs() {
	for i := range d.Stops {
		d.Stops[i].TravelToNextMinutes = 0
		d.Stops[i].TravelToNextCost = 0
		d.Stops[i].ModeToNext = nil
	}
	d.Degraded = false
}

// recompute re-establishes positions 1..N, arrival offsets and cached
// totals. Total time is the sum of each stop's duration plus its travel
// to the next stop; the last stop contributes no travel.
func (d *DailyItinerary) recompute() {
	if len(d.Stops) > 0 {
		d.Stops[len(d.Stops)-1].TravelToNextMinutes = 0
		d.Stops[len(d.Stops)-1].TravelToNextCost = 0
		d.Stops[len(d.Stops)-1].ModeToNext = nil
	}

	offset := 0
	totalTime := 0
	totalCost := 0.0
	for i := range d.Stops {
		d.Stops[i].Position = i + 1
		d.Stops[i].ArrivalOffsetMinutes = offset
		offset += d.Stops[i].DurationMinutes + d.Stops[i].TravelToNextMinutes
		totalTime += d.Stops[i].DurationMinutes + d.Stops[i].TravelToNextMinutes
		totalCost += d.Stops[i].PriceEstimate + d.Stops[i].TravelToNextCost
	}
	d.TotalTimeMinutes = totalTime
	d.TotalCostEstimate = totalCost
}

// Plan owns a contiguous, gap-free sequence of daily itineraries spanning
// [StartDate, EndDate].
type Plan struct {
	ID          PlanID
	Name        string
	Description string

	StartDate time.Time // UTC midnight
	EndDate   time.Time // UTC midnight
	Days      []DailyItinerary

	// Version supports optimistic concurrency at the storage boundary.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPlan creates a plan with one empty daily itinerary per calendar date
// in the inclusive range.
func NewPlan(id PlanID, name, description string, start, end time.Time, now time.Time) (Plan, error) {
	start, end = Date(start), Date(end)
	if end.Before(start) {
		return Plan{}, ErrInvalidDateRange
	}
	p := Plan{
		ID:          id,
		Name:        name,
		Description: description,
		StartDate:   start,
		EndDate:     end,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.Days = buildDays(start, end, nil)
	return p, nil
}

// Day returns the itinerary for the given calendar date.
func (p *Plan) Day(date time.Time) (*DailyItinerary, error) {
	date = Date(date)
	for i := range p.Days {
		if p.Days[i].Date.Equal(date) {
			return &p.Days[i], nil
		}
	}
	return nil, ErrDateOutOfRange
}

// SetDateRange regenerates the day sequence for the new range, preserving
// itineraries whose date survives and creating the rest empty.
func (p *Plan) SetDateRange(start, end time.Time) error {
	start, end = Date(start), Date(end)
	if end.Before(start) {
		return ErrInvalidDateRange
	}
	existing := make(map[time.Time]DailyItinerary, len(p.Days))
	for _, d := range p.Days {
		existing[d.Date] = d
	}
	p.StartDate, p.EndDate = start, end
	p.Days = buildDays(start, end, existing)
	return nil
}

// MoveStop relocates an activity from one day to another as a single
// atomic operation: if either half would fail, both days stay unchanged.
func (p *Plan) MoveStop(id ActivityID, fromDate, toDate time.Time) error {
	if Date(fromDate).Equal(Date(toDate)) {
		return ErrSameDayMove
	}
	from, err := p.Day(fromDate)
	if err != nil {
		return err
	}
	to, err := p.Day(toDate)
	if err != nil {
		return err
	}
	var moved *Stop
	for i := range from.Stops {
		if from.Stops[i].ActivityID == id {
			moved = &from.Stops[i]
			break
		}
	}
	if moved == nil {
		return ErrStopNotFound
	}
	if to.HasActivity(id) {
		return ErrDuplicateActivity
	}

	activity := Activity{
		ID:              moved.ActivityID,
		DurationMinutes: moved.DurationMinutes,
		PriceEstimate:   moved.PriceEstimate,
	}
	if err := from.RemoveStop(id); err != nil {
		return err
	}
	return to.AddStop(activity)
}

func buildDays(start, end time.Time, existing map[time.Time]DailyItinerary) []DailyItinerary {
	days := make([]DailyItinerary, 0, int(end.Sub(start).Hours()/24)+1)
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if d, ok := existing[date]; ok {
			days = append(days, d)
			continue
		}
		days = append(days, DailyItinerary{
			Date:          date,
			Stops:         []Stop{},
			PreferredMode: ModeWalking,
			Strategy:      StrategySingleMode,
		})
	}
	return days
}
