package router

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/artemisa-labs/website-api/internal/http/handlers"
	httpmiddleware "github.com/artemisa-labs/website-api/internal/http/middleware"
	"github.com/artemisa-labs/website-api/internal/leads"
	"github.com/artemisa-labs/website-api/internal/pricing"
	"github.com/artemisa-labs/website-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	LeadsHandler       *leads.Handler
	PricingHandler     *pricing.Handler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Reporting database for the stats endpoint (optional)
	DB *sql.DB
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.PricingHandler != nil {
			public.Route("/api/pricing", func(r chi.Router) {
				r.Get("/catalog", cfg.PricingHandler.GetCatalog)
				r.Post("/estimate", cfg.PricingHandler.Estimate)
			})
		}
		if cfg.LeadsHandler != nil {
			public.Route("/api/requests", func(r chi.Router) {
				r.Post("/demo", cfg.LeadsHandler.CreateDemoRequest)
				r.Post("/quote", cfg.LeadsHandler.CreateQuoteRequest)
			})
		}
	})

	// Admin routes (protected by JWT)
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			if cfg.LeadsHandler != nil {
				admin.Get("/leads", cfg.LeadsHandler.ListLeads)
				admin.Get("/leads/{leadID}", cfg.LeadsHandler.GetLead)
				admin.Get("/requests", cfg.LeadsHandler.ListRequests)
			}
			if cfg.DB != nil {
				statsHandler := handlers.NewAdminStatsHandler(cfg.DB, cfg.Logger)
				admin.Get("/stats", statsHandler.GetStats)
			}
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
