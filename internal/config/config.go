package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the process configuration, read once from the environment at startup.
type Config struct {
	Port       int
	Production bool

	// Routing
	RootDomain     string
	AdminAlias     string
	ResolveTimeout time.Duration

	// Master registry spreadsheet and provisioning resources
	MasterSheetID   string
	TemplateSheetID string
	SheetsFolderID  string

	// Sheets/Drive API access
	SheetsAccessToken string

	// Session
	CookieSecret string
	SessionTTL   time.Duration

	// Asset storage
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string

	// Background schema audit
	StoreAuditInterval time.Duration
}

// Load reads and validates the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               8080,
		Production:         os.Getenv("APP_ENV") == "production",
		RootDomain:         getenv("ROOT_DOMAIN", "invoicecraft.com"),
		AdminAlias:         getenv("ADMIN_ALIAS", "app"),
		ResolveTimeout:     getDuration("RESOLVE_TIMEOUT_MS", 3000) * time.Millisecond,
		MasterSheetID:      os.Getenv("MASTER_SHEET_ID"),
		TemplateSheetID:    os.Getenv("TEMPLATE_SHEET_ID"),
		SheetsFolderID:     os.Getenv("SHEETS_FOLDER_ID"),
		SheetsAccessToken:  os.Getenv("SHEETS_ACCESS_TOKEN"),
		CookieSecret:       os.Getenv("COOKIE_SECRET"),
		SessionTTL:         getDuration("SESSION_TTL_SECONDS", 12*60*60) * time.Second,
		MinioEndpoint:      getenv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:     getenv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:     getenv("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:        os.Getenv("MINIO_USE_SSL") == "true",
		MinioBucket:        getenv("MINIO_BUCKET", "tenant-assets"),
		StoreAuditInterval: getDuration("STORE_AUDIT_INTERVAL_MINUTES", 60) * time.Minute,
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	if cfg.MasterSheetID == "" {
		return nil, errors.New("MASTER_SHEET_ID environment variable is required")
	}
	if cfg.SheetsAccessToken == "" {
		return nil, errors.New("SHEETS_ACCESS_TOKEN environment variable is required")
	}
	if len(cfg.CookieSecret) > 0 && len(cfg.CookieSecret) < 32 {
		return nil, errors.New("COOKIE_SECRET must be at least 32 bytes")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback int64) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(fallback)
}
