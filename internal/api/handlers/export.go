package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/report"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves spreadsheet downloads.
type ExportHandler struct {
	portfolioService   *service.PortfolioService
	transactionService *service.TransactionService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(portfolioService *service.PortfolioService, transactionService *service.TransactionService) *ExportHandler {
	return &ExportHandler{
		portfolioService:   portfolioService,
		transactionService: transactionService,
	}
}

// Export downloads holdings and ledger as an XLSX workbook.
//
// Endpoint: GET /api/portfolio/{uuid}/export
// Response: 200 OK with the workbook as attachment
// Error: 404 Not Found if the portfolio does not exist
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	holdings, err := h.portfolioService.GetHoldings(r.Context(), portfolioID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieve.Error())
		return
	}
	transactions, err := h.transactionService.GetTransactions(r.Context(), portfolioID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieve.Error())
		return
	}

	data, err := report.HoldingsWorkbook(holdings, transactions)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to build export", err.Error())
		return
	}

	filename := fmt.Sprintf("portfolio-%s-%s.xlsx", portfolioID[:8], time.Now().Format("20060102"))
	response.RespondFile(w, xlsxContentType, filename, data)
}
