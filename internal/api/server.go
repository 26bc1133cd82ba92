package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hireloop/interview-engine/internal/config"
	"github.com/hireloop/interview-engine/internal/interview"
)

// Server represents the HTTP API server
type Server struct {
	config  config.ServerConfig
	router  *chi.Mux
	manager *interview.Manager
}

// NewServer creates a new API server
func NewServer(cfg config.ServerConfig, manager *interview.Manager) *Server {
	s := &Server{
		config:  cfg,
		manager: manager,
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (public)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/interviews", func(r chi.Router) {
			r.Post("/", s.handleCreateInterview)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetInterview)
				r.Delete("/", s.handleDeleteInterview)
				r.Post("/end", s.handleEndInterview)
				r.Post("/evaluate", s.handleEvaluateInterview)
				r.Patch("/transcript", s.handleAppendTranscript)
				r.Get("/live", s.handleLiveTranscriptWS)
			})
		})

		r.Get("/interviewers", s.handleListInterviewers)
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
