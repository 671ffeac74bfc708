package config_test

import (
	"testing"
	"time"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/config"
)

// TestLoad_Defaults tests the fallback values used when no environment is set.
//
// WHY: The server and CLI both start from Load(). Defaults must produce a usable
// configuration without a .env file, including the Polish default portfolio name.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Server.Addr != "localhost:5001" {
		t.Errorf("Expected addr 'localhost:5001', got '%s'", cfg.Server.Addr)
	}
	if cfg.Import.DefaultPortfolioName != "Główny Portfel" {
		t.Errorf("Expected default portfolio name 'Główny Portfel', got '%s'", cfg.Import.DefaultPortfolioName)
	}
	if cfg.Import.EnrichBonds {
		t.Error("Expected bond enrichment to be disabled by default")
	}
	if cfg.Import.ErrorPreview != 3 {
		t.Errorf("Expected error preview 3, got %d", cfg.Import.ErrorPreview)
	}
	if cfg.Inflation.CacheTTL != 12*time.Hour {
		t.Errorf("Expected CPI cache TTL 12h, got %s", cfg.Inflation.CacheTTL)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Errorf("Expected 2 default CORS origins, got %d", len(cfg.CORS.AllowedOrigins))
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("IMPORT_ENRICH_BONDS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example,https://c.example")
	t.Setenv("SNAPSHOT_SCHEDULE", "@hourly")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Server.Addr != "0.0.0.0:8080" {
		t.Errorf("Expected addr '0.0.0.0:8080', got '%s'", cfg.Server.Addr)
	}
	if !cfg.Import.EnrichBonds {
		t.Error("Expected bond enrichment to be enabled")
	}
	if len(cfg.CORS.AllowedOrigins) != 3 {
		t.Errorf("Expected 3 CORS origins, got %d", len(cfg.CORS.AllowedOrigins))
	}
	if cfg.Snapshot.Schedule != "@hourly" {
		t.Errorf("Expected schedule '@hourly', got '%s'", cfg.Snapshot.Schedule)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("IMPORT_ERROR_PREVIEW", "three")

	if _, err := config.Load(); err == nil {
		t.Error("Expected error for non-numeric IMPORT_ERROR_PREVIEW, got nil")
	}
}
