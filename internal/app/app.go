// Package app assembles repositories and services shared by the HTTP server
// and the bondctl command.
package app

import (
	"database/sql"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/api"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/config"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/inflation"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/service"
)

// App holds the wired service graph.
type App struct {
	api.Services
	Snapshot *service.SnapshotService
}

// NewLogger builds the root logger from the log settings.
// Unknown levels fall back to info.
func NewLogger(w io.Writer, cfg config.LogConfig) *log.Logger {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "bond-portfolio",
		Level:           level,
	})
	if strings.EqualFold(cfg.Format, "json") {
		logger.SetFormatter(log.JSONFormatter)
	}
	return logger
}

// New creates repositories and services on top of db.
func New(db *sql.DB, cfg *config.Config, logger *log.Logger) *App {
	portfolioRepo := repository.NewPortfolioRepository(db)
	bondRepo := repository.NewBondRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	var cpi inflation.Source
	if cfg.Inflation.SourceURL != "" {
		cpi = inflation.NewCachedSource(
			inflation.NewHTTPSource(cfg.Inflation.SourceURL, cfg.Inflation.Timeout),
			cfg.Inflation.CacheTTL,
			logger,
		)
	}

	bondService := service.NewBondService(bondRepo, service.WithEnrichment(cfg.Import.EnrichBonds))
	holdingService := service.NewHoldingService(db, holdingRepo, transactionRepo)
	transactionService := service.NewTransactionService(transactionRepo, portfolioRepo, bondRepo)

	return &App{
		Services: api.Services{
			System: service.NewSystemService(db, map[string]bool{
				"inflation": cpi != nil,
				"snapshots": cfg.Snapshot.Enabled,
			}),
			Portfolio:   service.NewPortfolioService(portfolioRepo, holdingRepo, historyRepo),
			Bond:        bondService,
			Holding:     holdingService,
			Transaction: transactionService,
			Import: service.NewImportService(
				db,
				portfolioRepo,
				bondService,
				holdingService,
				transactionService,
				service.ImportDefaults{
					Owner:         cfg.Import.DefaultOwner,
					PortfolioName: cfg.Import.DefaultPortfolioName,
				},
				logger,
			),
			Analytics: service.NewAnalyticsService(portfolioRepo, holdingRepo, historyRepo, cpi),
		},
		Snapshot: service.NewSnapshotService(portfolioRepo, holdingRepo, historyRepo, logger),
	}
}
