// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"curator/internal/config"
	"curator/internal/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// Dependencies are the collaborators the HTTP layer needs
type Dependencies struct {
	Analyzer      handlers.Analyzer
	Location      *time.Location
	Subscriber    handlers.Subscriber
	ReportSubject string
	Logger        *log.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg config.ServerConfig, deps Dependencies) *Server {
	router := NewRouter(cfg, deps)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// NewRouter builds the route tree
func NewRouter(cfg config.ServerConfig, deps Dependencies) *chi.Mux {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CorsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	engagementHandler := handlers.NewEngagementHandler(deps.Analyzer, deps.Location, deps.Logger)
	feedbackHandler := handlers.NewFeedbackHandler(deps.Analyzer, deps.Logger)

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		r.Route("/v1", func(r chi.Router) {
			r.Route("/engagement", func(r chi.Router) {
				r.Get("/summary", engagementHandler.GetSummary)
				r.Get("/report", engagementHandler.GetReport)
				r.Get("/hourly", engagementHandler.GetHourly)
				r.Get("/forecast", engagementHandler.GetForecast)
			})

			r.Route("/feedback", func(r chi.Router) {
				r.Get("/", feedbackHandler.GetFeedback)
				r.Get("/suggestion", feedbackHandler.GetSuggestion)
			})

			r.Post("/sentiment", feedbackHandler.PostSentiment)
		})
	})

	router.Handle("/metrics", promhttp.Handler())

	// Live report events
	router.Get("/ws/reports", handlers.ReportStreamHandler(deps.Subscriber, deps.ReportSubject, deps.Logger))

	return router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
