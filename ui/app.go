// Package ui exposes the assessment platform as a JSON HTTP API.
package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"psymatch/app"
	"psymatch/internal"
)

// App represents the HTTP application
type App struct {
	router      *chi.Mux
	assessments *app.AssessmentService
	matches     *app.MatchService
	models      ModelLister
	logger      *internal.Logger
}

// NewApp creates the HTTP application over the wired services.
func NewApp(assessments *app.AssessmentService, matches *app.MatchService, models ModelLister, logger *internal.Logger) *App {
	a := &App{
		router:      chi.NewRouter(),
		assessments: assessments,
		matches:     matches,
		models:      models,
		logger:      logger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Route("/api", func(r chi.Router) {
		r.Get("/health", a.handleHealth)
		r.Get("/models", a.handleListModels)

		r.Route("/assessments", func(r chi.Router) {
			r.Post("/", a.handleCreateAssessment)
			r.Route("/{assessmentID}", func(r chi.Router) {
				r.Get("/", a.handleGetAssessment)
				r.Post("/start", a.handleStartAssessment)
				r.Get("/next", a.handleNextItem)
				r.Post("/responses", a.handleSubmitResponse)
				r.Post("/complete", a.handleComplete)
				r.Get("/scores", a.handleScores)
				r.Get("/match/{modelID}", a.handleMatch)
				r.Get("/interview/{modelID}", a.handleInterview)
			})
		})
	})
}

// Router returns the configured handler.
func (a *App) Router() http.Handler {
	return a.router
}

// Serve starts the HTTP server on the given port.
func (a *App) Serve(port string) error {
	a.logger.Info("listening on :%s", port)
	return http.ListenAndServe(":"+port, a.router)
}
