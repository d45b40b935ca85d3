// Package api exposes metadata resolution over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"nft-metadata-api/internal/domain"
	"nft-metadata-api/internal/observability"
	"nft-metadata-api/internal/solana"
	"nft-metadata-api/internal/storage"
)

// APIKeyHeader carries the key checked on /nft routes.
const APIKeyHeader = "X-API-Key"

// MetadataResolver is the core operation the handlers call.
type MetadataResolver interface {
	Resolve(ctx context.Context, mint string) (*domain.TokenMetadata, error)
}

// ChainStatus reports the node position shown on /status.
type ChainStatus interface {
	GetEpochInfo(ctx context.Context) (*solana.EpochInfo, error)
	GetSlot(ctx context.Context) (int64, error)
}

// Config holds server options.
type Config struct {
	APIKey         string   // empty disables the key check
	CORSOrigins    []string // empty allows any origin
	JournalBackend string   // reported on /status
	StatusTimeout  time.Duration
}

// Server wires handlers to their collaborators.
type Server struct {
	resolver  MetadataResolver
	lookups   storage.LookupStore // nil when the journal is disabled
	chain     ChainStatus         // nil hides chain info on /status
	config    Config
	logger    *zap.Logger
	startedAt time.Time
}

// NewServer creates a Server. lookups and chain may be nil.
func NewServer(resolver MetadataResolver, lookups storage.LookupStore, chain ChainStatus, config Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.L()
	}
	if config.StatusTimeout <= 0 {
		config.StatusTimeout = 5 * time.Second
	}
	return &Server{
		resolver:  resolver,
		lookups:   lookups,
		chain:     chain,
		config:    config,
		logger:    logger.With(zap.String("component", "api")),
		startedAt: time.Now(),
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(recordMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", APIKeyHeader, middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" not allowed")
	})

	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	r.Method(http.MethodGet, "/metrics", observability.Handler())
	r.Get("/api-docs/openapi.json", s.handleOpenAPI)

	r.Route("/nft", func(r chi.Router) {
		r.Use(s.requireAPIKey)
		r.Get("/metadata/{mint}", s.handleMetadata)
		r.Get("/lookups/{mint}", s.handleLookups)
		r.Get("/{id}", s.handleNFT)
	})

	return r
}

func (s *Server) corsOrigins() []string {
	if len(s.config.CORSOrigins) == 0 {
		return []string{"*"}
	}
	return s.config.CORSOrigins
}
