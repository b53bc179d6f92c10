package config_test

import (
	"errors"
	"testing"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/config"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_HOST", "SERVER_PORT", "CORS_ALLOWED_ORIGINS", "MAX_UPLOAD_MB",
		"MAX_CONCURRENT_EXTRACTIONS", "PROJECTION_MONTHS", "STATUS_REFERENCE",
		"NORMALIZE_POLICY_IDS", "PROFILES_PATH",
	} {
		t.Setenv(key, "")
	}
}

// TestLoad tests configuration loading from the environment.
//
// WHY: The report settings decide which loans count as started and how far cash flows
// are projected. Bad values must stop the server rather than silently fall back.
func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if cfg.Server.Addr != "localhost:5001" {
			t.Errorf("Expected localhost:5001, got %s", cfg.Server.Addr)
		}
		if cfg.Upload.MaxBytes != 32<<20 || cfg.Upload.MaxConcurrent != 4 {
			t.Errorf("Unexpected upload defaults: %+v", cfg.Upload)
		}
		if cfg.Report.ProjectionMonths != 12 || cfg.Report.StatusReference != model.StatusReferenceNow || !cfg.Report.NormalizePolicyIDs {
			t.Errorf("Unexpected report defaults: %+v", cfg.Report)
		}
		if len(cfg.CORS.AllowedOrigins) != 2 {
			t.Errorf("Expected 2 default origins, got %v", cfg.CORS.AllowedOrigins)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SERVER_HOST", "0.0.0.0")
		t.Setenv("SERVER_PORT", "8080")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://reports.example.com, ,https://admin.example.com")
		t.Setenv("MAX_UPLOAD_MB", "8")
		t.Setenv("PROJECTION_MONTHS", "6")
		t.Setenv("STATUS_REFERENCE", "AS_OF")
		t.Setenv("NORMALIZE_POLICY_IDS", "false")
		t.Setenv("PROFILES_PATH", "/etc/dashboard/profiles.yaml")

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if cfg.Server.Addr != "0.0.0.0:8080" {
			t.Errorf("Expected 0.0.0.0:8080, got %s", cfg.Server.Addr)
		}
		if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://admin.example.com" {
			t.Errorf("Unexpected origins: %v", cfg.CORS.AllowedOrigins)
		}
		if cfg.Upload.MaxBytes != 8<<20 {
			t.Errorf("Expected 8 MiB, got %d", cfg.Upload.MaxBytes)
		}
		if cfg.Report.ProjectionMonths != 6 || cfg.Report.StatusReference != model.StatusReferenceAsOf || cfg.Report.NormalizePolicyIDs {
			t.Errorf("Unexpected report config: %+v", cfg.Report)
		}
		if cfg.Report.ProfilesPath != "/etc/dashboard/profiles.yaml" {
			t.Errorf("Unexpected profiles path: %q", cfg.Report.ProfilesPath)
		}
	})

	invalid := map[string]string{
		"MAX_UPLOAD_MB":              "lots",
		"MAX_CONCURRENT_EXTRACTIONS": "0",
		"PROJECTION_MONTHS":          "-1",
		"STATUS_REFERENCE":           "yesterday",
		"NORMALIZE_POLICY_IDS":       "maybe",
	}
	for key, value := range invalid {
		t.Run("invalid "+key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			if _, err := config.Load(); !errors.Is(err, apperrors.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
