package domain

// WithinBudget reports whether the day's cached total time fits the
// budget. Pure; reads only the cached aggregate.
func WithinBudget(d DailyItinerary, budgetMinutes int) bool {
	return d.TotalTimeMinutes <= budgetMinutes
}

// ExcessMinutes returns how far the day overshoots the budget, zero when
// it fits.
func ExcessMinutes(d DailyItinerary, budgetMinutes int) int {
	if d.TotalTimeMinutes <= budgetMinutes {
		return 0
	}
	return d.TotalTimeMinutes - budgetMinutes
}
