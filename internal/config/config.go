package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Log       LogConfig
	Import    ImportConfig
	Inflation InflationConfig
	Snapshot  SnapshotConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:"5001"`
	Host string `env:"SERVER_HOST" envDefault:"localhost"`
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string `env:"DB_PATH" envDefault:"./data/bond_portfolio.db"`
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost"`
}

// LogConfig controls the root logger built in main.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// ImportConfig holds the CSV import settings.
type ImportConfig struct {
	DefaultOwner         string `env:"DEFAULT_OWNER" envDefault:"default"`
	DefaultPortfolioName string `env:"DEFAULT_PORTFOLIO_NAME" envDefault:"Główny Portfel"`
	MaxUploadBytes       int64  `env:"IMPORT_MAX_UPLOAD_BYTES" envDefault:"2097152"`
	EnrichBonds          bool   `env:"IMPORT_ENRICH_BONDS" envDefault:"false"`
	ErrorPreview         int    `env:"IMPORT_ERROR_PREVIEW" envDefault:"3"`
}

// InflationConfig points at the CPI year-over-year data source.
// An empty SourceURL disables the inflation comparison.
type InflationConfig struct {
	SourceURL string        `env:"CPI_SOURCE_URL"`
	Timeout   time.Duration `env:"CPI_TIMEOUT" envDefault:"10s"`
	CacheTTL  time.Duration `env:"CPI_CACHE_TTL" envDefault:"12h"`
}

// SnapshotConfig drives the scheduled portfolio valuation snapshots.
type SnapshotConfig struct {
	Enabled  bool   `env:"SNAPSHOT_ENABLED" envDefault:"true"`
	Schedule string `env:"SNAPSHOT_SCHEDULE" envDefault:"0 23 * * *"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	// Combine host and port
	cfg.Server.Addr = fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	return cfg, nil
}
