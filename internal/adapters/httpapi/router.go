package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the API HTTP router.
//
// This is intentionally a thin adapter: handlers decode/validate and
// delegate to the plan service; all route wiring lives here.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	// Baseline production-safe middleware (minimal but useful).
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/activities", s.handleListActivities)

	r.Route("/plans", func(r chi.Router) {
		r.Post("/", s.handleCreatePlan)
		r.Route("/{planId}", func(r chi.Router) {
			r.Get("/", s.handleGetPlan)
			r.Patch("/", s.handleUpdatePlan)
			r.Put("/dates", s.handleUpdateDateRange)

			r.Route("/days/{date}", func(r chi.Router) {
				r.Post("/stops", s.handleAddStop)
				r.Put("/stops", s.handleReorderStops)
				r.Delete("/stops/{activityId}", s.handleRemoveStop)
				r.Put("/transport", s.handleUpdateTransportMode)
				r.Post("/optimize", s.handleOptimizeDay)
			})

			r.Post("/stops/{activityId}/move", s.handleMoveStop)
			r.Get("/suggestions", s.handleGetSuggestions)
			r.Post("/suggestions/{suggestionId}/apply", s.handleApplySuggestion)
		})
	})

	r.Put("/settings/budget", s.handleSetBudget)
	r.Get("/settings/budget", s.handleGetBudget)

	return r
}
