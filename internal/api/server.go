// Package api provides the HTTP API server and handlers for the PaperTrail application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/papertrailapp/papertrail-server/internal/auth"
	"github.com/papertrailapp/papertrail-server/internal/config"
	"github.com/papertrailapp/papertrail-server/internal/metadata/openalex"
	"github.com/papertrailapp/papertrail-server/internal/search"
	"github.com/papertrailapp/papertrail-server/internal/sse"
	"github.com/papertrailapp/papertrail-server/internal/store/sqlite"
	"github.com/papertrailapp/papertrail-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       *sqlite.Store
	services    *Services
	openalex    *openalex.Client
	searchIndex *search.SearchIndex
	sseManager  *sse.Manager
	sseHandler  *sse.Handler
	validator   *validation.Validator
	router      *chi.Mux
	api         huma.API
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, st *sqlite.Store, services *Services, tokens *auth.TokenService, oa *openalex.Client, searchIndex *search.SearchIndex, sseManager *sse.Manager, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))

	origins := []string{"*"}
	if cfg != nil && len(cfg.Server.CORSOrigins) > 0 {
		origins = cfg.Server.CORSOrigins
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Last-Event-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Token verification happens before routing; handlers that need a user
	// reject via GetUserID.
	router.Use(authMiddleware(tokens))

	humaConfig := huma.DefaultConfig("PaperTrail API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	humaAPI := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:       st,
		services:    services,
		openalex:    oa,
		searchIndex: searchIndex,
		sseManager:  sseManager,
		sseHandler:  sse.NewHandler(sseManager, logger, userIDFromRequest),
		validator:   validation.New(),
		router:      router,
		api:         humaAPI,
		logger:      logger,
	}

	s.registerHealthRoutes()
	s.registerProfileRoutes()
	s.registerLibraryRoutes()
	s.registerSocialRoutes()
	s.registerFeedRoutes()
	s.registerReactionRoutes()
	s.registerSearchRoutes()
	s.registerDashboardRoutes()

	// The SSE stream bypasses huma; it writes a long-lived event stream.
	router.Get("/api/v1/events", s.sseHandler.ServeHTTP)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, used by tests to wrap with humatest.
func (s *Server) API() huma.API {
	return s.api
}
