package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/api"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/config"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/profile"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Load workbook profiles; an empty path keeps the embedded defaults
	profiles, err := profile.Load(cfg.Report.ProfilesPath)
	if err != nil {
		log.Fatalf("Failed to load workbook profiles: %v", err)
	}
	if cfg.Report.ProfilesPath != "" {
		log.Printf("Loaded workbook profiles from %s: %v", cfg.Report.ProfilesPath, profiles.Names())
	}

	opts := service.DashboardOptions{
		ProjectionMonths:   cfg.Report.ProjectionMonths,
		StatusReference:    cfg.Report.StatusReference,
		NormalizePolicyIDs: cfg.Report.NormalizePolicyIDs,
	}

	// Create services
	systemService := service.NewSystemService(profiles, opts)
	dashboardService := service.NewDashboardService(profiles, opts)

	// Create router
	router := api.NewRouter(systemService, dashboardService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
