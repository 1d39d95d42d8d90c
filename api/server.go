/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/leave-requests/*   Leave request management
  /api/timeline/*         Deadline timelines and compliance
  /api/alerts             At-risk requests
  /api/notifications/*    HR notification management
  /api/analytics/*        Aggregate reporting
  /api/scenarios/*        Demo scenarios
  /health                 Liveness check

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	if len(corsOrigins) == 0 {
		corsOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Leave request routes
		r.Route("/leave-requests", func(r chi.Router) {
			r.Get("/", h.ListLeaveRequests)
			r.Post("/", h.CreateLeaveRequest)
			r.Get("/{id}", h.GetLeaveRequest)
			r.Patch("/{id}", h.UpdateLeaveRequest)
			r.Delete("/{id}", h.DeleteLeaveRequest)
		})

		// Timeline and compliance routes
		r.Route("/timeline", func(r chi.Router) {
			r.Get("/{id}", h.GetTimeline)
			r.Get("/{id}/compliance", h.GetCompliance)
		})

		r.Get("/alerts", h.GetAlerts)

		// Notification routes
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.ListNotifications)
			r.Post("/", h.CreateNotification)
			r.Get("/request/{id}", h.ListRequestNotifications)
			r.Patch("/{id}", h.UpdateNotification)
			r.Delete("/{id}", h.DeleteNotification)
		})

		// Analytics routes
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/summary", h.GetAnalyticsSummary)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetData)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
