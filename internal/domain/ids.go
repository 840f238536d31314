package domain

// PlanID is an internal identifier for a plan record.
type PlanID string

// ActivityID identifies an activity in the external catalog.
// Activities are read-only inputs to the engine; the format of the
// identifier is controlled by the catalog.
type ActivityID string

// SuggestionID identifies one generated suggestion. IDs are deterministic
// over the suggestion's content so that an unchanged plan addresses the
// same suggestion by the same ID across generations.
type SuggestionID string
