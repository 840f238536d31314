package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/nullable"

	"github.com/roomrally/escapade-planner-api/internal/app/plans"
	"github.com/roomrally/escapade-planner-api/internal/domain"
	"github.com/roomrally/escapade-planner-api/internal/ports/out/activityrepo"
)

// Server is the HTTP adapter: it decodes requests, delegates to the plan
// service, and maps results and app errors onto the wire.
type Server struct {
	Plans      *plans.Service
	Activities activityrepo.Repository
}

func NewServer(plansSvc *plans.Service, activities activityrepo.Repository) *Server {
	return &Server{Plans: plansSvc, Activities: activities}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response failed: %v", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_JSON", "invalid json body", nil)
		return false
	}
	return true
}

// datePathParam parses the {date} URL segment, rejecting anything that
// is not a calendar date.
func datePathParam(w http.ResponseWriter, r *http.Request) (t time.Time, ok bool) {
	raw := chi.URLParam(r, "date")
	t, ok = parseDate(raw)
	if !ok {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid date", map[string]any{"date": raw})
	}
	return t, ok
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	start, ok := parseDate(req.StartDate)
	if !ok {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid startDate", map[string]any{"startDate": req.StartDate})
		return
	}
	end, ok := parseDate(req.EndDate)
	if !ok {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid endDate", map[string]any{"endDate": req.EndDate})
		return
	}
	p, err := s.Plans.CreatePlan(r.Context(), plans.CreatePlanInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, planFromDomain(p))
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	p, err := s.Plans.GetPlan(r.Context(), planID(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, planFromDomain(p))
}

func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	var req updatePlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in := plans.UpdatePlanInput{
		Name:        optionalFromNullable(req.Name),
		Description: optionalFromNullable(req.Description),
	}
	p, err := s.Plans.UpdatePlan(r.Context(), planID(r), in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, planFromDomain(p))
}

func (s *Server) handleUpdateDateRange(w http.ResponseWriter, r *http.Request) {
	var req dateRangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	start, ok := parseDate(req.StartDate)
	if !ok {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid startDate", map[string]any{"startDate": req.StartDate})
		return
	}
	end, ok := parseDate(req.EndDate)
	if !ok {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid endDate", map[string]any{"endDate": req.EndDate})
		return
	}
	p, err := s.Plans.UpdateDateRange(r.Context(), planID(r), start, end)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, planFromDomain(p))
}

func (s *Server) handleAddStop(w http.ResponseWriter, r *http.Request) {
	date, ok := datePathParam(w, r)
	if !ok {
		return
	}
	var req addStopRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	day, err := s.Plans.AddStop(r.Context(), planID(r), date, domain.ActivityID(req.ActivityID))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dayFromDomain(day))
}

func (s *Server) handleRemoveStop(w http.ResponseWriter, r *http.Request) {
	date, ok := datePathParam(w, r)
	if !ok {
		return
	}
	day, err := s.Plans.RemoveStop(r.Context(), planID(r), date, domain.ActivityID(chi.URLParam(r, "activityId")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dayFromDomain(day))
}

func (s *Server) handleReorderStops(w http.ResponseWriter, r *http.Request) {
	date, ok := datePathParam(w, r)
	if !ok {
		return
	}
	var req reorderStopsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order := make([]domain.ActivityID, 0, len(req.ActivityIDs))
	for _, id := range req.ActivityIDs {
		order = append(order, domain.ActivityID(id))
	}
	day, err := s.Plans.ReorderStops(r.Context(), planID(r), date, order)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dayFromDomain(day))
}

func (s *Server) handleMoveStop(w http.ResponseWriter, r *http.Request) {
	var req moveStopRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	from, ok := parseDate(req.FromDate)
	if !ok {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid fromDate", map[string]any{"fromDate": req.FromDate})
		return
	}
	to, ok := parseDate(req.ToDate)
	if !ok {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid toDate", map[string]any{"toDate": req.ToDate})
		return
	}
	fromDay, toDay, err := s.Plans.MoveStopBetweenDays(r.Context(), planID(r), from, domain.ActivityID(chi.URLParam(r, "activityId")), to)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]dayDTO{
		"from": dayFromDomain(fromDay),
		"to":   dayFromDomain(toDay),
	})
}

// handleUpdateTransportMode changes the day's mode and strategy only;
// cached times refresh on the next optimize pass.
func (s *Server) handleUpdateTransportMode(w http.ResponseWriter, r *http.Request) {
	date, ok := datePathParam(w, r)
	if !ok {
		return
	}
	var req transportModeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	mode, err := domain.ParseTransportMode(req.Mode)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid mode", map[string]any{"mode": req.Mode})
		return
	}
	strategy := domain.StrategySingleMode
	if req.Strategy != "" {
		strategy, err = domain.ParseStrategy(req.Strategy)
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid strategy", map[string]any{"strategy": req.Strategy})
			return
		}
	}
	day, err := s.Plans.UpdateTransportMode(r.Context(), planID(r), date, mode, strategy)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dayFromDomain(day))
}

func (s *Server) handleOptimizeDay(w http.ResponseWriter, r *http.Request) {
	date, ok := datePathParam(w, r)
	if !ok {
		return
	}
	var req optimizeDayRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	prefs, details := preferencesFromDTO(req.Preferences)
	if details != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid preferences", details)
		return
	}
	startAnchor, details := coordinatesFromDTO(req.StartAnchor)
	if details != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid startAnchor", details)
		return
	}
	endAnchor, details := coordinatesFromDTO(req.EndAnchor)
	if details != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid endAnchor", details)
		return
	}

	result, err := s.Plans.OptimizeDay(r.Context(), planID(r), date, plans.OptimizeDayInput{
		Preferences: prefs,
		StartAnchor: startAnchor,
		EndAnchor:   endAnchor,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := optimizedDayDTO{
		Day:      dayFromDomain(result.Day),
		Segments: make([]segmentDTO, 0, len(result.Segments)),
		Score:    result.Score,
		Degraded: result.Degraded,
	}
	for _, seg := range result.Segments {
		out.Segments = append(out.Segments, segmentFromDomain(seg))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSuggestions(w http.ResponseWriter, r *http.Request) {
	sgs, err := s.Plans.GetSuggestions(r.Context(), planID(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]suggestionDTO, 0, len(sgs))
	for _, sg := range sgs {
		out = append(out, suggestionFromApp(sg))
	}
	writeJSON(w, http.StatusOK, map[string][]suggestionDTO{"suggestions": out})
}

func (s *Server) handleApplySuggestion(w http.ResponseWriter, r *http.Request) {
	p, err := s.Plans.ApplySuggestion(r.Context(), planID(r), domain.SuggestionID(chi.URLParam(r, "suggestionId")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, planFromDomain(p))
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.Plans.SetBudget(req.Minutes); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budgetResponse{Minutes: s.Plans.Budget()})
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, budgetResponse{Minutes: s.Plans.Budget()})
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	as, err := s.Activities.List(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]activityDTO, 0, len(as))
	for _, a := range as {
		out = append(out, activityFromDomain(a))
	}
	writeJSON(w, http.StatusOK, map[string][]activityDTO{"activities": out})
}

func planID(r *http.Request) domain.PlanID {
	return domain.PlanID(chi.URLParam(r, "planId"))
}

func optionalFromNullable(n nullable.Nullable[string]) plans.Optional[string] {
	if !n.IsSpecified() {
		return plans.Unspecified[string]()
	}
	if n.IsNull() {
		return plans.Null[string]()
	}
	v, err := n.Get()
	if err != nil {
		return plans.Unspecified[string]()
	}
	return plans.Some(v)
}
