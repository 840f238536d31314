// Package plandoc defines the JSON document shape shared by the
// document-oriented plan stores (Postgres JSONB, Redis). A plan persists
// as one document: plan -> days -> stops, a strict owned hierarchy with
// no cross-plan references.
package plandoc

import (
	"time"

	"github.com/roomrally/escapade-planner-api/internal/domain"
)

type Doc struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	Days        []DayDoc  `json:"days"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type DayDoc struct {
	Date              string    `json:"date"`
	Stops             []StopDoc `json:"stops"`
	TotalTimeMinutes  int       `json:"totalTimeMinutes"`
	TotalCostEstimate float64   `json:"totalCostEstimate"`
	PreferredMode     string    `json:"preferredMode"`
	Strategy          string    `json:"strategy"`
	Degraded          bool      `json:"degraded,omitempty"`
}

type StopDoc struct {
	ActivityID           string  `json:"activityId"`
	Position             int     `json:"position"`
	DurationMinutes      int     `json:"durationMinutes"`
	PriceEstimate        float64 `json:"priceEstimate"`
	ArrivalOffsetMinutes int     `json:"arrivalOffsetMinutes"`
	TravelToNextMinutes  int     `json:"travelToNextMinutes"`
	TravelToNextCost     float64 `json:"travelToNextCost"`
	ModeToNext           *string `json:"modeToNext,omitempty"`
}

const dateLayout = "2006-01-02"

func FromDomain(p domain.Plan) Doc {
	doc := Doc{
		ID:          string(p.ID),
		Name:        p.Name,
		Description: p.Description,
		StartDate:   p.StartDate.Format(dateLayout),
		EndDate:     p.EndDate.Format(dateLayout),
		Days:        make([]DayDoc, 0, len(p.Days)),
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, d := range p.Days {
		dd := DayDoc{
			Date:              d.Date.Format(dateLayout),
			Stops:             make([]StopDoc, 0, len(d.Stops)),
			TotalTimeMinutes:  d.TotalTimeMinutes,
			TotalCostEstimate: d.TotalCostEstimate,
			PreferredMode:     string(d.PreferredMode),
			Strategy:          string(d.Strategy),
			Degraded:          d.Degraded,
		}
		for _, s := range d.Stops {
			sd := StopDoc{
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
				sd.ModeToNext = &m
			}
			dd.Stops = append(dd.Stops, sd)
		}
		doc.Days = append(doc.Days, dd)
	}
	return doc
}

func ToDomain(doc Doc) (domain.Plan, error) {
	start, err := time.ParseInLocation(dateLayout, doc.StartDate, time.UTC)
	if err != nil {
		return domain.Plan{}, err
	}
	end, err := time.ParseInLocation(dateLayout, doc.EndDate, time.UTC)
	if err != nil {
		return domain.Plan{}, err
	}
	p := domain.Plan{
		ID:          domain.PlanID(doc.ID),
		Name:        doc.Name,
		Description: doc.Description,
		StartDate:   start,
		EndDate:     end,
		Days:        make([]domain.DailyItinerary, 0, len(doc.Days)),
		Version:     doc.Version,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	for _, dd := range doc.Days {
		date, err := time.ParseInLocation(dateLayout, dd.Date, time.UTC)
		if err != nil {
			return domain.Plan{}, err
		}
		d := domain.DailyItinerary{
			Date:              date,
			Stops:             make([]domain.Stop, 0, len(dd.Stops)),
			TotalTimeMinutes:  dd.TotalTimeMinutes,
			TotalCostEstimate: dd.TotalCostEstimate,
			PreferredMode:     domain.TransportMode(dd.PreferredMode),
			Strategy:          domain.MultiModalStrategy(dd.Strategy),
			Degraded:          dd.Degraded,
		}
		for _, sd := range dd.Stops {
			s := domain.Stop{
				ActivityID:           domain.ActivityID(sd.ActivityID),
				Position:             sd.Position,
				DurationMinutes:      sd.DurationMinutes,
				PriceEstimate:        sd.PriceEstimate,
				ArrivalOffsetMinutes: sd.ArrivalOffsetMinutes,
				TravelToNextMinutes:  sd.TravelToNextMinutes,
				TravelToNextCost:     sd.TravelToNextCost,
			}
			if sd.ModeToNext != nil {
				m := domain.TransportMode(*sd.ModeToNext)
				s.ModeToNext = &m
			}
			d.Stops = append(d.Stops, s)
		}
		p.Days = append(p.Days, d)
	}
	return p, nil
}
