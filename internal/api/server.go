// Package api provides the HTTP API server and handlers for the book
// history service.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Aglena/books-history-api/internal/ratelimit"
	"github.com/Aglena/books-history-api/internal/service"
	"github.com/Aglena/books-history-api/internal/store"
)

// Write endpoint rate limits, per client IP.
const (
	writeRatePerSecond = 10
	writeRateBurst     = 20
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store   *store.Store
	books   *service.BookService
	history *service.HistoryService
	router  *chi.Mux
	api     huma.API
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, books *service.BookService, history *service.HistoryService, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	limiter := ratelimit.New(writeRatePerSecond, writeRateBurst)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(ratelimit.Middleware(limiter))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	humaConfig := huma.DefaultConfig("Books History API", "1.0.0")
	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:   st,
		books:   books,
		history: history,
		router:  router,
		api:     api,
		limiter: limiter,
		logger:  logger,
	}

	s.registerHealthRoutes()
	s.registerBookRoutes()
	s.registerHistoryRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-owned background resources.
func (s *Server) Close() {
	s.limiter.Stop()
}
