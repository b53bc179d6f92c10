package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/api/middleware"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/config"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(systemService *service.SystemService, dashboardService *service.DashboardService, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	limiter := custommiddleware.NewExtractionLimiter(cfg.Upload.MaxConcurrent, custommiddleware.DefaultLimiterWait)

	// API routes
	r.Route("/api", func(r chi.Router) {
		systemHandler := handlers.NewSystemHandler(systemService)

		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})
		r.Get("/profiles", systemHandler.Profiles)

		// Workbook uploads share one extraction budget
		r.Group(func(r chi.Router) {
			r.Use(limiter.Handler)

			loanHandler := handlers.NewLoanHandler(dashboardService, cfg.Upload.MaxBytes)
			lifeSettlementHandler := handlers.NewLifeSettlementHandler(dashboardService, cfg.Upload.MaxBytes)
			dashboardHandler := handlers.NewDashboardHandler(dashboardService, cfg.Upload.MaxBytes)

			r.Post("/loans", loanHandler.Upload)
			r.Post("/life-settlements", lifeSettlementHandler.Upload)
			r.Post("/dashboard", dashboardHandler.Upload)
		})
	})

	return r
}
