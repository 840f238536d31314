package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"

	"github.com/roomrally/escapade-planner-api/internal/app/plans"
	"github.com/roomrally/escapade-planner-api/internal/domain"
)

const dateLayout = "2006-01-02"

type coordinatesDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type stopDTO struct {
	ActivityID           string  `json:"activityId"`
	Position             int     `json:"position"`
	DurationMinutes      int     `json:"durationMinutes"`
	PriceEstimate        float64 `json:"priceEstimate"`
	ArrivalOffsetMinutes int     `json:"arrivalOffsetMinutes"`
	TravelToNextMinutes  int     `json:"travelToNextMinutes"`
	TravelToNextCost     float64 `json:"travelToNextCost"`
	ModeToNext           *string `json:"modeToNext,omitempty"`
}

type dayDTO struct {
	Date              string    `json:"date"`
	Stops             []stopDTO `json:"stops"`
	TotalTimeMinutes  int       `json:"totalTimeMinutes"`
	TotalCostEstimate float64   `json:"totalCostEstimate"`
	PreferredMode     string    `json:"preferredMode"`
	Strategy          string    `json:"strategy"`
	Degraded          bool      `json:"degraded,omitempty"`
}

type planDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Days        []dayDTO `json:"days"`
	Version     int64    `json:"version"`
}

type activityDTO struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	DurationMinutes int            `json:"durationMinutes"`
	PriceEstimate   float64        `json:"priceEstimate"`
	Location        coordinatesDTO `json:"location"`
}

type segmentDTO struct {
	From           coordinatesDTO   `json:"from"`
	To             coordinatesDTO   `json:"to"`
	Mode           string           `json:"mode"`
	TravelMinutes  int              `json:"travelMinutes"`
	DistanceMeters int              `json:"distanceMeters"`
	CostEstimate   float64          `json:"costEstimate"`
	Path           []coordinatesDTO `json:"path,omitempty"`
	Estimated      bool             `json:"estimated,omitempty"`
}

type suggestionDTO struct {
	ID            string  `json:"id"`
	Kind          string  `json:"kind"`
	SourceDate    string  `json:"sourceDate"`
	TargetDate    *string `json:"targetDate,omitempty"`
	ActivityID    string  `json:"activityId"`
	ExcessMinutes int     `json:"excessMinutes"`
	Rationale     string  `json:"rationale"`
	Severity      string  `json:"severity"`
}

type optimizedDayDTO struct {
	Day      dayDTO       `json:"day"`
	Segments []segmentDTO `json:"segments"`
	Score    float64      `json:"score"`
	Degraded bool         `json:"degraded"`
}

type createPlanRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

type updatePlanRequest struct {
	Name        nullable.Nullable[string] `json:"name"`
	Description nullable.Nullable[string] `json:"description"`
}

type dateRangeRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type addStopRequest struct {
	ActivityID string `json:"activityId"`
}

type reorderStopsRequest struct {
	ActivityIDs []string `json:"activityIds"`
}

type moveStopRequest struct {
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
}

type preferencesDTO struct {
	AllowedModes    []string `json:"allowedModes"`
	PreferredMode   string   `json:"preferredMode"`
	Strategy        string   `json:"strategy"`
	OptimizeForTime bool     `json:"optimizeForTime"`
	OptimizeForCost bool     `json:"optimizeForCost"`
}

type transportModeRequest struct {
	Mode     string `json:"mode"`
	Strategy string `json:"strategy"`
}

type optimizeDayRequest struct {
	Preferences *preferencesDTO `json:"preferences"`
	StartAnchor *coordinatesDTO `json:"startAnchor"`
	EndAnchor   *coordinatesDTO `json:"endAnchor"`
}

type budgetRequest struct {
	Minutes int `json:"minutes"`
}

type budgetResponse struct {
	Minutes int `json:"minutes"`
}

func planFromDomain(p domain.Plan) planDTO {
	out := planDTO{
		ID:          string(p.ID),
		Name:        p.Name,
		Description: p.Description,
		StartDate:   p.StartDate.Format(dateLayout),
		EndDate:     p.EndDate.Format(dateLayout),
		Days:        make([]dayDTO, 0, len(p.Days)),
		Version:     p.Version,
	}
	for _, d := range p.Days {
		out.Days = append(out.Days, dayFromDomain(d))
	}
	return out
}

func dayFromDomain(d domain.DailyItinerary) dayDTO {
	out := dayDTO{
		Date:              d.Date.Format(dateLayout),
		Stops:             make([]stopDTO, 0, len(d.Stops)),
		TotalTimeMinutes:  d.TotalTimeMinutes,
		TotalCostEstimate: d.TotalCostEstimate,
		PreferredMode:     string(d.PreferredMode),
		Strategy:          string(d.Strategy),
		Degraded:          d.Degraded,
	}
	for _, s := range d.Stops {
		dto := stopDTO{
			ActivityID:           string(s.ActivityID),
			Position:             s.Position,
			DurationMinutes:      s.DurationMinutes,
			PriceEstimate:        s.PriceEstimate,
			ArrivalOffsetMinutes: s.ArrivalOffsetMinutes,
			TravelToNextMinutes:  s.TravelToNextMinutes,
			TravelToNextCost:     s.TravelToNextCost,
		}
		if s.ModeToNext != nil {
			m := string(*s.ModeToNext)
			dto.ModeToNext = &m
		}
		out.Stops = append(out.Stops, dto)
	}
	return out
}

func segmentFromDomain(seg domain.RouteSegment) segmentDTO {
	out := segmentDTO{
		From:           coordinatesDTO{Latitude: seg.From.Latitude, Longitude: seg.From.Longitude},
		To:             coordinatesDTO{Latitude: seg.To.Latitude, Longitude: seg.To.Longitude},
		Mode:           string(seg.Mode),
		TravelMinutes:  seg.TravelMinutes,
		DistanceMeters: seg.DistanceMeters,
		CostEstimate:   seg.CostEstimate,
		Estimated:      seg.Estimated,
	}
	for _, p := range seg.Path {
		out.Path = append(out.Path, coordinatesDTO{Latitude: p.Latitude, Longitude: p.Longitude})
	}
	return out
}

func suggestionFromApp(s plans.PlanSuggestion) suggestionDTO {
	out := suggestionDTO{
		ID:            string(s.ID),
		Kind:          string(s.Kind),
		SourceDate:    s.SourceDate.Format(dateLayout),
		ActivityID:    string(s.ActivityID),
		ExcessMinutes: s.ExcessMinutes,
		Rationale:     s.Rationale,
		Severity:      string(s.Severity),
	}
	if s.TargetDate != nil {
		t := s.TargetDate.Format(dateLayout)
		out.TargetDate = &t
	}
	return out
}

func activityFromDomain(a domain.Activity) activityDTO {
	return activityDTO{
		ID:              string(a.ID),
		Name:            a.Name,
		DurationMinutes: a.DurationMinutes,
		PriceEstimate:   a.PriceEstimate,
		Location:        coordinatesDTO{Latitude: a.Location.Latitude, Longitude: a.Location.Longitude},
	}
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func preferencesFromDTO(dto *preferencesDTO) (domain.RoutePreferences, map[string]any) {
	if dto == nil {
		return domain.DefaultPreferences(), nil
	}
	prefs := domain.RoutePreferences{
		OptimizeForTime: dto.OptimizeForTime,
		OptimizeForCost: dto.OptimizeForCost,
	}
	if dto.PreferredMode != "" {
		mode, err := domain.ParseTransportMode(dto.PreferredMode)
		if err != nil {
			return domain.RoutePreferences{}, map[string]any{"preferredMode": err.Error()}
		}
		prefs.PreferredMode = mode
	}
	if dto.Strategy != "" {
		strategy, err := domain.ParseStrategy(dto.Strategy)
		if err != nil {
			return domain.RoutePreferences{}, map[string]any{"strategy": err.Error()}
		}
		prefs.Strategy = strategy
	}
	for _, m := range dto.AllowedModes {
		mode, err := domain.ParseTransportMode(m)
		if err != nil {
			return domain.RoutePreferences{}, map[string]any{"allowedModes": err.Error()}
		}
		prefs.AllowedModes = append(prefs.AllowedModes, mode)
	}
	return prefs.Normalize(), nil
}

func coordinatesFromDTO(dto *coordinatesDTO) (*domain.Coordinates, map[string]any) {
	if dto == nil {
		return nil, nil
	}
	c, err := domain.NewCoordinates(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, map[string]any{"coordinates": err.Error()}
	}
	return &c, nil
}
