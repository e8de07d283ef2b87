package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/priyankverma/cleansched/internal/api/middleware"
	"github.com/priyankverma/cleansched/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler       http.HandlerFunc
	CreateSeriesHandler http.HandlerFunc
	CalendarHandler     http.HandlerFunc
	BulkHandler         http.HandlerFunc
	ResolveSwapHandler  http.HandlerFunc
	RunRemindersHandler http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public health check
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Post("/api/v1/schedule/series", orNotImplemented(deps.CreateSeriesHandler))
		r.Get("/api/v1/schedule/calendar", orNotImplemented(deps.CalendarHandler))
		r.Post("/api/v1/schedule/bulk", orNotImplemented(deps.BulkHandler))
		r.Post("/api/v1/schedule/swaps/{swapID}/resolve", orNotImplemented(deps.ResolveSwapHandler))

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.RequireScope("admin"))

			r.Post("/api/v1/billing/reminders/run", orNotImplemented(deps.RunRemindersHandler))
		})
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
