package api

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/api/middleware"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/config"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/service"
)

// Services bundles everything the HTTP layer delegates to.
type Services struct {
	System      *service.SystemService
	Portfolio   *service.PortfolioService
	Bond        *service.BondService
	Holding     *service.HoldingService
	Transaction *service.TransactionService
	Import      *service.ImportService
	Analytics   *service.AnalyticsService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, logger *log.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(svc.System)
	portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
	transactionHandler := handlers.NewTransactionHandler(svc.Transaction)
	analyticsHandler := handlers.NewAnalyticsHandler(svc.Analytics)
	exportHandler := handlers.NewExportHandler(svc.Portfolio, svc.Transaction)
	holdingHandler := handlers.NewHoldingHandler(svc.Holding)
	bondHandler := handlers.NewBondHandler(svc.Bond)
	importHandler := handlers.NewImportHandler(svc.Import, cfg.Import.MaxUploadBytes, cfg.Import.ErrorPreview)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", portfolioHandler.Portfolios)
			r.Post("/", portfolioHandler.CreatePortfolio)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", portfolioHandler.GetPortfolio)
				r.Delete("/", portfolioHandler.DeletePortfolio)
				r.Get("/holdings", portfolioHandler.Holdings)
				r.Get("/history", portfolioHandler.History)
				r.Get("/transactions", transactionHandler.TransactionsPerPortfolio)
				r.Post("/transaction", transactionHandler.CreateTransaction)
				r.Get("/chart-data", analyticsHandler.ChartData)
				r.Get("/allocation", analyticsHandler.Allocation)
				r.Get("/inflation", analyticsHandler.Inflation)
				r.Get("/calendar", analyticsHandler.Calendar)
				r.Get("/export", exportHandler.Export)
			})
		})

		r.Route("/holding/{uuid}", func(r chi.Router) {
			r.Use(custommiddleware.ValidateUUIDMiddleware)
			r.Get("/", holdingHandler.GetHolding)
			r.Delete("/", holdingHandler.DeleteHolding)
		})

		r.Route("/transaction/{uuid}", func(r chi.Router) {
			r.Use(custommiddleware.ValidateUUIDMiddleware)
			r.Get("/", transactionHandler.GetTransaction)
		})

		r.Route("/bond", func(r chi.Router) {
			r.Get("/", bondHandler.Bonds)
			r.Get("/{isin}", bondHandler.Bond)
		})

		r.Post("/import", importHandler.Import)
	})

	return r
}
