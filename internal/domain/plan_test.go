package domain

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func activity(id ActivityID, minutes int, price float64) Activity {
	return Activity{ID: id, Name: string(id), DurationMinutes: minutes, PriceEstimate: price}
}

func mustPlan(t *testing.T, start, end time.Time) Plan {
	t.Helper()
	p, err := NewPlan("p1", "City Break", "", start, end, time.Unix(1000, 0).UTC())
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	return p
}

func mustAdd(t *testing.T, d *DailyItinerary, a Activity) {
	t.Helper()
	if err := d.AddStop(a); err != nil {
		t.Fatalf("AddStop(%s): %v", a.ID, err)
	}
}

func TestNewPlan_CreatesOneDayPerDateInclusive(t *testing.T) {
	t.Parallel()

	p := mustPlan(t, date(2026, 6, 1), date(2026, 6, 4))
	if len(p.Days) != 4 {
		t.Fatalf("days=%d, want 4", len(p.Days))
	}
	for i, d := range p.Days {
		want := date(2026, 6, 1+i)
		if !d.Date.Equal(want) {
			t.Fatalf("day[%d].Date=%v, want %v", i, d.Date, want)
		}
		if len(d.Stops) != 0 {
			t.Fatalf("day[%d] not empty", i)
		}
		if d.PreferredMode != ModeWalking || d.Strategy != StrategySingleMode {
			t.Fatalf("day[%d] mode/strategy=%s/%s", i, d.PreferredMode, d.Strategy)
		}
	}
}

func TestNewPlan_RejectsInvertedRange(t *testing.T) {
	t.Parallel()

	_, err := NewPlan("p1", "x", "", date(2026, 6, 4), date(2026, 6, 1), time.Unix(0, 0).UTC())
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("err=%v, want ErrInvalidDateRange", err)
	}
}

func TestDailyItinerary_AddStop_PositionsAndTotals(t *testing.T) {
	t.Parallel()

	p := mustPlan(t, date(2026, 6, 1), date(2026, 6, 1))
	day := &p.Days[0]
	mustAdd(t, day, activity("a1", 90, 25))
	mustAdd(t, day, activity("a2", 60, 18.50))

	if day.Stops[0].Position != 1 || day.Stops[1].Position != 2 {
		t.Fatalf("positions=%d,%d", day.Stops[0].Position, day.Stops[1].Position)
	}
	if day.TotalTimeMinutes != 150 {
		t.Fatalf("total time=%d, want 150", day.TotalTimeMinutes)
	}
	if day.TotalCostEstimate != 43.50 {
		t.Fatalf("total cost=%v, want 43.50", day.TotalCostEstimate)
	}
	if day.Stops[1].ArrivalOffsetMinutes != 90 {
		t.Fatalf("arrival offset=%d, want 90", day.Stops[1].ArrivalOffsetMinutes)
	}
}

func TestDailyItinerary_AddStop_RejectsDuplicate(t *testing.T) {
	t.Parallel()

	p := mustPlan(t, date(2026, 6, 1), date(2026, 6, 1))
	day := &p.Days[0]
	mustAdd(t, day, activity("a1", 60, 0))

	if err := day.AddStop(activity("a1", 60, 0)); !errors.Is(err, ErrDuplicateActivity) {
		t.Fatalf("err=%v, want ErrDuplicateActivity", err)
	}
	if len(day.Stops) != 1 {
		t.Fatalf("stops=%d, want 1 after rejected duplicate", len(day.Stops))
	}
}

func TestDailyItinerary_RemoveStop_Renumbers(t *testing.T) {
	t.Parallel()

	p := mustPlan(t, date(2026, 6, 1), date(2026, 6, 1))
	day := &p.Days[0]
	mustAdd(t, day, activity("a1", 30, 0))
	mustAdd(t, day, activity("a2", 45, 0))
	mustAdd(t, day, activity("a3", 60, 0))

	if err := day.RemoveStop("a2"); err != nil {
		t.Fatalf("RemoveStop: %v", err)
	}
	if len(day.Stops) != 2 {
		t.Fatalf("stops=%d, want 2", len(day.Stops))
	}
	if day.Stops[0].ActivityID != "a1" || day.Stops[0].Position != 1 {
		t.Fatalf("stop[0]=%+v", day.Stops[0])
	}
	if day.Stops[1].ActivityID != "a3" || day.Stops[1].Position != 2 {
		t.Fatalf("stop[1]=%+v", day.Stops[1])
	}
	if day.TotalTimeMinutes != 90 {
		t.Fatalf("total time=%d, want 90", day.TotalTimeMinutes)
	}

	if err := day.RemoveStop("missing"); !errors.Is(err, ErrStopNotFound) {
		t.Fatalf("err=%v, want ErrStopNotFound", err)
	}
}

func TestDailyItinerary_Reorder_ValidatesPermutation(t *testing.T) {
	t.Parallel()

	p := mustPlan(t, date(2026, 6, 1), date(2026, 6, 1))
	day := &p.Days[0]
	mustAdd(t, day, activity("a1", 30, 0))
	mustAdd(t, day, activity("a2", 45, 0))

	cases := []struct {
		name  string
		order []ActivityID
	}{
		{"too short", []ActivityID{"a1"}},
		{"unknown id", []ActivityID{"a1", "zz"}},
		{"duplicated id", []ActivityID{"a1", "a1"}},
	}
	for _, tc := range cases {
		if err := day.Reorder(tc.order); !errors.Is(err, ErrNotPermutation) {
			t.Fatalf("%s: err=%v, want ErrNotPermutation", tc.name, err)
		}
	}
	// Rejected orders leave the day untouched.
	if day.Stops[0].ActivityID != "a1" || day.Stops[1].ActivityID != "a2" {
		t.Fatalf("order changed after rejected reorder: %+v", day.Stops)
	}

	if err := day.Reorder([]ActivityID{"a2", "a1"}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if day.Stops[0].ActivityID != "a2" || day.Stops[0].Position != 1 {
		t.Fatalf("stop[0]=%+v", day.Stops[0])
	}
}

func TestDailyItinerary_ApplyRoute_InstallsLegsAndTotals(t *testing.T) {
	t.Parallel()

	p := mustPlan(t, date(2026, 6, 1), date(2026, 6, 1))
	day := &p.Days[0]
	mustAdd(t, day, activity("a1", 90, 25))
	mustAdd(t, day, activity("a2", 60, 18))
	mustAdd(t, day, activity("a3", 75, 30))

	prefs := RoutePreferences{PreferredMode: ModeTransit, Strategy: StrategyMixed}.Normalize()
	legs := []LegEstimate{
		{Minutes: 12, Cost: 2.50, Mode: ModeTransit},
		{Minutes: 20, Cost: 0, Mode: ModeWalking, Estimated: true},
	}
	if err := day.ApplyRoute([]ActivityID{"a3", "a1", "a2"}, legs, prefs); err != nil {
		t.Fatalf("ApplyRoute: %v", err)
	}

	if day.Stops[0].ActivityID != "a3" || day.Stops[1].ActivityID != "a1" || day.Stops[2].ActivityID != "a2" {
		t.Fatalf("order=%v %v %v", day.Stops[0].ActivityID, day.Stops[1].ActivityID, day.Stops[2].ActivityID)
	}
	if day.Stops[0].TravelToNextMinutes != 12 || *day.Stops[0].ModeToNext != ModeTransit {
		t.Fatalf("leg0=%+v", day.Stops[0])
	}
	if day.Stops[2].TravelToNextMinutes != 0 || day.Stops[2].ModeToNext != nil {
		t.Fatalf("last stop carries a leg: %+v", day.Stops[2])
	}
	// 75+12 + 90+20 + 60 = 257 min; 30+2.50 + 25 + 18 = 75.50
	if day.TotalTimeMinutes != 257 {
		t.Fatalf("total time=%d, want 257", day.TotalTimeMinutes)
	}
	if day.TotalCostEstimate != 75.50 {
		t.Fatalf("total cost=%v, want 75.50", day.TotalCostEstimate)
	}
	if got := day.Stops[1].ArrivalOffsetMinutes; got != 87 {
		t.Fatalf("stop[1] arrival=%d, want 87", got)
	}
	if !day.Degraded {
		t.Fatalf("expected degraded day: one leg is estimated")
	}

	if err := day.ApplyRoute([]ActivityID{"a1", "a2", "a3"}, legs[:1], prefs); !errors.Is(err, ErrLegCountMismatch) {
		t.Fatalf("err=%v, want ErrLegCountMismatch", err)
	}
}

func TestDailyItinerary_StructuralMutationInvalidatesLegs(t *testing.T) {
	t.Parallel()

	p := mustPlan(t, date(2026, 6, 1), date(2026, 6, 1))
	day := &p.Days[0]
	mustAdd(t, day, activity("a1", 60, 0))
	mustAdd(t, day, activity("a2", 60, 0))

	prefs := DefaultPreferences()
	if err := day.ApplyRoute([]ActivityID{"a1", "a2"}, []LegEstimate{{Minutes: 15, Cost: 3, Mode: ModeDriving, Estimated: true}}, prefs); err != nil {
		t.Fatalf("ApplyRoute: %v", err)
	}
	if day.TotalTimeMinutes != 135 {
		t.Fatalf("total time=%d, want 135", day.TotalTimeMinutes)
	}

	mustAdd(t, day, activity("a3", 30, 0))

	for i, s := range day.Stops {
		if s.TravelToNextMinutes != 0 || s.TravelToNextCost != 0 || s.ModeToNext != nil {
			t.Fatalf("stop[%d] still carries leg data: %+v", i, s)
		}
	}
	if day.Degraded {
		t.Fatalf("degraded flag survived leg invalidation")
	}
	if day.TotalTimeMinutes != 150 {
		t.Fatalf("total time=%d, want 150 (durations only)", day.TotalTimeMinutes)
	}
}

func TestPlan_Day_OutOfRange(t *testing.T) {
	t.Parallel()

	p := mustPlan(t, date(2026, 6, 1), date(2026, 6, 2))
	if _, err := p.Day(date(2026, 6, 3)); !errors.Is(err, ErrDateOutOfRange) {
		t.Fatalf("err=%v, want ErrDateOutOfRange", err)
	}
}

func TestPlan_SetDateRange_PreservesSurvivingDays(t *testing.T) {
	t.Parallel()

	p := mustPlan(t, date(2026, 6, 1), date(2026, 6, 3))
	d2, _ := p.Day(date(2026, 6, 2))
	mustAdd(t, d2, activity("a1", 120, 40))

	if err := p.SetDateRange(date(2026, 6, 2), date(2026, 6, 4)); err != nil {
		t.Fatalf("SetDateRange: %v", err)
	}
	if len(p.Days) != 3 {
		t.Fatalf("days=%d, want 3", len(p.Days))
	}
	kept, err := p.Day(date(2026, 6, 2))
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if len(kept.Stops) != 1 || kept.Stops[0].ActivityID != "a1" {
		t.Fatalf("surviving day lost its stops: %+v", kept.Stops)
	}
	fresh, _ := p.Day(date(2026, 6, 4))
	if len(fresh.Stops) != 0 {
		t.Fatalf("new day not empty")
	}
	if _, err := p.Day(date(2026, 6, 1)); !errors.Is(err, ErrDateOutOfRange) {
		t.Fatalf("dropped day still addressable")
	}

	if err := p.SetDateRange(date(2026, 6, 5), date(2026, 6, 4)); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("err=%v, want ErrInvalidDateRange", err)
	}
}

func TestPlan_MoveStop_MovesBetweenDays(t *testing.T) {
	t.Parallel()

	p := mustPlan(t, date(2026, 6, 1), date(2026, 6, 2))
	d1, _ := p.Day(date(2026, 6, 1))
	mustAdd(t, d1, activity("a1", 90, 25))
	mustAdd(t, d1, activity("a2", 60, 0))

	if err := p.MoveStop("a1", date(2026, 6, 1), date(2026, 6, 2)); err != nil {
		t.Fatalf("MoveStop: %v", err)
	}
	d1, _ = p.Day(date(2026, 6, 1))
	d2, _ := p.Day(date(2026, 6, 2))
	if len(d1.Stops) != 1 || d1.Stops[0].ActivityID != "a2" {
		t.Fatalf("source day=%+v", d1.Stops)
	}
	if len(d2.Stops) != 1 || d2.Stops[0].ActivityID != "a1" {
		t.Fatalf("target day=%+v", d2.Stops)
	}
	// Duration and price snapshots travel with the stop.
	if d2.Stops[0].DurationMinutes != 90 || d2.Stops[0].PriceEstimate != 25 {
		t.Fatalf("snapshot lost: %+v", d2.Stops[0])
	}
}

func TestPlan_MoveStop_FailuresLeaveBothDaysUnchanged(t *testing.T) {
	t.Parallel()

	p := mustPlan(t, date(2026, 6, 1), date(2026, 6, 2))
	d1, _ := p.Day(date(2026, 6, 1))
	d2, _ := p.Day(date(2026, 6, 2))
	mustAdd(t, d1, activity("a1", 60, 0))
	mustAdd(t, d2, activity("a1", 60, 0))

	if err := p.MoveStop("a1", date(2026, 6, 1), date(2026, 6, 2)); !errors.Is(err, ErrDuplicateActivity) {
		t.Fatalf("err=%v, want ErrDuplicateActivity", err)
	}
	d1, _ = p.Day(date(2026, 6, 1))
	d2, _ = p.Day(date(2026, 6, 2))
	if len(d1.Stops) != 1 || len(d2.Stops) != 1 {
		t.Fatalf("days changed after failed move: %d/%d stops", len(d1.Stops), len(d2.Stops))
	}

	if err := p.MoveStop("a1", date(2026, 6, 1), date(2026, 6, 1)); !errors.Is(err, ErrSameDayMove) {
		t.Fatalf("err=%v, want ErrSameDayMove", err)
	}
	if err := p.MoveStop("zz", date(2026, 6, 1), date(2026, 6, 2)); !errors.Is(err, ErrStopNotFound) {
		t.Fatalf("err=%v, want ErrStopNotFound", err)
	}
	if err := p.MoveStop("a1", date(2026, 6, 1), date(2026, 6, 9)); !errors.Is(err, ErrDateOutOfRange) {
		t.Fatalf("err=%v, want ErrDateOutOfRange", err)
	}
}

func TestDate_NormalizesToUTCMidnight(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("CEST", 2*3600)
	in := time.Date(2026, 6, 1, 14, 30, 12, 999, loc)
	got := Date(in)
	want := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Date(%v)=%v, want %v", in, got, want)
	}
}
