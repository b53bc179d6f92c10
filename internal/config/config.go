package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	CORS   CORSConfig
	Upload UploadConfig
	Report ReportConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// UploadConfig bounds workbook uploads.
type UploadConfig struct {
	MaxBytes      int64 // Multipart body limit
	MaxConcurrent int64 // Simultaneous extractions before requests are turned away
}

// ReportConfig holds the report settings shared by every extraction.
type ReportConfig struct {
	ProjectionMonths   int
	StatusReference    model.StatusReference
	NormalizePolicyIDs bool
	ProfilesPath       string // Optional YAML replacing the embedded workbook profiles
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	maxUploadMB, err := getEnvInt("MAX_UPLOAD_MB", 32)
	if err != nil {
		return nil, err
	}
	maxConcurrent, err := getEnvInt("MAX_CONCURRENT_EXTRACTIONS", 4)
	if err != nil {
		return nil, err
	}
	horizon, err := getEnvInt("PROJECTION_MONTHS", 12)
	if err != nil {
		return nil, err
	}
	normalize, err := getEnvBool("NORMALIZE_POLICY_IDS", true)
	if err != nil {
		return nil, err
	}

	statusRef := model.StatusReference(strings.ToLower(getEnv("STATUS_REFERENCE", string(model.StatusReferenceNow))))
	if statusRef != model.StatusReferenceNow && statusRef != model.StatusReferenceAsOf {
		return nil, fmt.Errorf("%w: STATUS_REFERENCE must be %q or %q, got %q",
			apperrors.ErrInvalidConfig, model.StatusReferenceNow, model.StatusReferenceAsOf, statusRef)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Upload: UploadConfig{
			MaxBytes:      int64(maxUploadMB) << 20,
			MaxConcurrent: int64(maxConcurrent),
		},
		Report: ReportConfig{
			ProjectionMonths:   horizon,
			StatusReference:    statusRef,
			NormalizePolicyIDs: normalize,
			ProfilesPath:       getEnv("PROFILES_PATH", ""),
		},
	}

	if maxUploadMB <= 0 || maxConcurrent <= 0 || horizon <= 0 {
		return nil, fmt.Errorf("%w: MAX_UPLOAD_MB, MAX_CONCURRENT_EXTRACTIONS and PROJECTION_MONTHS must be positive",
			apperrors.ErrInvalidConfig)
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", apperrors.ErrInvalidConfig, key, value)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q is not a boolean", apperrors.ErrInvalidConfig, key, value)
	}
	return b, nil
}

// getEnvList splits a comma-separated variable, dropping blank entries.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
