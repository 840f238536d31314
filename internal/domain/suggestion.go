package domain

import (
	"fmt"
	"sort"
	"time"
)

type SuggestionKind string

const (
	SuggestionMoveStop       SuggestionKind = "MOVE_STOP"
	SuggestionFlagForRemoval SuggestionKind = "FLAG_FOR_REMOVAL"
)

type SuggestionSeverity string

const (
	SeverityWarning  SuggestionSeverity = "WARNING"
	SeverityCritical SuggestionSeverity = "CRITICAL"
)

// Suggestion is a proposed corrective edit for one over-budget day. It is
// ephemeral: regenerated whenever the plan or the budget changes, never
// persisted on its own.
type Suggestion struct {
	Kind          SuggestionKind
	SourceDate    time.Time
	TargetDate    *time.Time // set for MOVE_STOP
	ActivityID    ActivityID
	ExcessMinutes int
	Rationale     string
	Severity      SuggestionSeverity
}

// Fingerprint is a stable content key used to derive deterministic
// suggestion identifiers.
func (s Suggestion) Fingerprint() string {
	target := "-"
	if s.TargetDate != nil {
		target = s.TargetDate.Format("2006-01-02")
	}
	return fmt.Sprintf("%s|%s|%s|%s",
		s.Kind, s.SourceDate.Format("2006-01-02"), target, s.ActivityID)
}

// GenerateSuggestions scans the plan's days in date order and proposes at
// most one corrective action per over-budget day: move the longest stop
// that fits into another day, or flag the longest stop for removal when
// no day has room. Deterministic for identical plan state.
func GenerateSuggestions(p Plan, budgetMinutes int) []Suggestion {
	out := []Suggestion{}
	for di := range p.Days {
		day := p.Days[di]
		excess := ExcessMinutes(day, budgetMinutes)
		if excess == 0 {
			continue
		}

		candidates := append([]Stop(nil), day.Stops...)
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].DurationMinutes != candidates[j].DurationMinutes {
				return candidates[i].DurationMinutes > candidates[j].DurationMinutes
			}
			return candidates[i].Position < candidates[j].Position
		})

		moved := false
		for _, c := range candidates {
			target := findMoveTarget(p, day.Date, c, budgetMinutes)
			if target == nil {
				continue
			}
			date := target.Date
			out = append(out, Suggestion{
				Kind:          SuggestionMoveStop,
				SourceDate:    day.Date,
				TargetDate:    &date,
				ActivityID:    c.ActivityID,
				ExcessMinutes: excess,
				Severity:      severityFor(excess, budgetMinutes, false),
				Rationale: fmt.Sprintf(
					"Day %s runs %d min over budget; moving activity %s (%d min) to %s keeps both days within %d min.",
					day.Date.Format("2006-01-02"), excess, c.ActivityID, c.DurationMinutes,
					date.Format("2006-01-02"), budgetMinutes),
			})
			moved = true
			break
		}
		if moved || len(candidates) == 0 {
			continue
		}

		longest := candidates[0]
		out = append(out, Suggestion{
			Kind:          SuggestionFlagForRemoval,
			SourceDate:    day.Date,
			ActivityID:    longest.ActivityID,
			ExcessMinutes: excess,
			Severity:      severityFor(excess, budgetMinutes, true),
			Rationale: fmt.Sprintf(
				"Day %s runs %d min over budget and no other day has room; consider removing activity %s (%d min).",
				day.Date.Format("2006-01-02"), excess, longest.ActivityID, longest.DurationMinutes),
		})
	}
	return out
}

// findMoveTarget returns the first other day, in date order, with enough
// spare capacity for the stop. The stop must also not already be
// scheduled there.
func findMoveTarget(p Plan, source time.Time, s Stop, budgetMinutes int) *DailyItinerary {
	for i := range p.Days {
		d := &p.Days[i]
		if d.Date.Equal(source) {
			continue
		}
		if d.HasActivity(s.ActivityID) {
			continue
		}
		if d.TotalTimeMinutes+s.DurationMinutes <= budgetMinutes {
			return d
		}
	}
	return nil
}

func severityFor(excess, budgetMinutes int, removal bool) SuggestionSeverity {
	if removal || excess*2 > budgetMinutes {
		return SeverityCritical
	}
	return SeverityWarning
}
