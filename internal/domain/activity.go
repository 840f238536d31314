package domain

// Activity is a location-bound, fixed-duration bookable item from the
// external catalog. The engine never mutates activities; it snapshots the
// duration and price onto a Stop when the activity is scheduled.
type Activity struct {
	ID              ActivityID
	Name            string
	DurationMinutes int
	PriceEstimate   float64
	Location        Coordinates
}
