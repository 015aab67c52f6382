package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/storefront/internal/api/handler"
	mw "github.com/edvin/storefront/internal/api/middleware"
	"github.com/edvin/storefront/internal/config"
	"github.com/edvin/storefront/internal/storefront"
	"github.com/edvin/storefront/internal/web"
)

type Server struct {
	router    chi.Router
	logger    zerolog.Logger
	cfg       *config.Config
	catalog   storefront.Source
	sessions  *storefront.Sessions
	templates *web.Templates
}

func NewServer(logger zerolog.Logger, cfg *config.Config, catalog storefront.Source, sessions *storefront.Sessions, templates *web.Templates) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger,
		cfg:       cfg,
		catalog:   catalog,
		sessions:  sessions,
		templates: templates,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	s.router.Handle("/static/*", http.StripPrefix("/static", web.Static()))

	// Catalog API
	catalog := handler.NewCatalog(s.catalog)
	s.router.Get("/api/catalog", catalog.Get)
	s.router.Get("/api/products/{barcode}", catalog.Product)

	s.router.Group(func(r chi.Router) {
		r.Use(mw.Session(s.sessions))

		pages := handler.NewPages(s.templates)
		r.Get("/", pages.Home)
		r.Post("/cards/{index}", pages.ActivateCard)
		r.Post("/overlay/close", pages.CloseOverlay)
		r.Post("/overlay/video", pages.PlayVideo)
		r.Post("/keys", pages.Key)

		scan := handler.NewScan(s.cfg.ScanMaxFrameBytes)
		r.Get("/scan", scan.Connect)
		r.Post("/scan/stop", pages.StopScan)

		r.Get("/api/state", handler.State)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// readiness is implemented by catalog sources that track availability
// themselves, such as catalog.Store.
type readiness interface {
	Ready() bool
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}

	cat, err := s.catalog.Load(r.Context())
	healthy := err == nil && cat != nil
	if rs, ok := s.catalog.(readiness); ok {
		healthy = rs.Ready()
	}
	switch {
	case healthy:
		checks["catalog"] = "ok"
	case err != nil:
		checks["catalog"] = err.Error()
	default:
		checks["catalog"] = "not loaded"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
