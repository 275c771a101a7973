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
  /api/timesheet/*     Interval computation and listing
  /api/employees/*     Employee and rate management
  /api/jobtypes        The closed job-type table
  /api/pets/*          Pet custom rates
  /api/holidays/*      Holiday calendar
  /api/restrictions/*  Job-type restrictions

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Timesheet routes
		r.Route("/timesheet", func(r chi.Router) {
			r.Get("/", h.ListTimesheet)
			r.Post("/", h.SubmitTimesheet)
			r.Post("/preview", h.PreviewTimesheet)
			r.Get("/week", h.WeekTimesheet)
		})

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Delete("/{name}", h.DeleteEmployee)
			r.Get("/{name}/jobtypes", h.GetEmployeeJobTypes)
			r.Put("/{name}/rates", h.SetEmployeeRate)
		})

		// Job type routes
		r.Get("/jobtypes", h.ListJobTypes)

		// Pet rate routes
		r.Route("/pets", func(r chi.Router) {
			r.Put("/{pet}/rates", h.SetPetRate)
			r.Delete("/{pet}/rates/{jobType}", h.DeletePetRate)
		})

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Delete("/{date}", h.DeleteHoliday)
		})

		// Restriction routes
		r.Put("/restrictions/{jobType}", h.SetRestriction)
	})

	return r
}
