package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration values.
type Config struct {
	Secret            string
	DatabaseDSN       string
	HTTPPort          string
	TokenTTL          time.Duration
	DefaultMinimumQty int64
	CORSOrigins       []string
	LogLevel          string
	LogFormat         string
	ReportTitle       string
	CatalogCSV        string
	AdminUsername     string
	AdminPassword     string
	AdminFullName     string
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	secret := os.Getenv("SECRET")
	if secret == "" {
		secret = "dev_secret"
	}

	port := getenv("HTTP_PORT", "8080")
	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	ttl, err := time.ParseDuration(getenv("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		log.Printf("invalid TOKEN_TTL value %q, defaulting to 24h", os.Getenv("TOKEN_TTL"))
		ttl = 24 * time.Hour
	}

	minimum, err := strconv.ParseInt(getenv("DEFAULT_MINIMUM_QTY", "10"), 10, 64)
	if err != nil || minimum < 0 {
		log.Printf("invalid DEFAULT_MINIMUM_QTY value %q, defaulting to 10", os.Getenv("DEFAULT_MINIMUM_QTY"))
		minimum = 10
	}

	var origins []string
	for _, o := range strings.Split(getenv("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return Config{
		Secret:            secret,
		DatabaseDSN:       getenv("DATABASE_DSN", "pharmacy.db"),
		HTTPPort:          port,
		TokenTTL:          ttl,
		DefaultMinimumQty: minimum,
		CORSOrigins:       origins,
		LogLevel:          getenv("LOG_LEVEL", "info"),
		LogFormat:         getenv("LOG_FORMAT", "json"),
		ReportTitle:       getenv("REPORT_TITLE", "Medication Dispensing Report"),
		CatalogCSV:        getenv("CATALOG_CSV", "assets/medications.csv"),
		AdminUsername:     os.Getenv("ADMIN_USERNAME"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminFullName:     getenv("ADMIN_FULL_NAME", "Administrator"),
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
