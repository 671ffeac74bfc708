package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/service"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/validation"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Portfolios lists portfolios, optionally for one owner.
//
// Endpoint: GET /api/portfolio?owner=
// Response: 200 OK with array of model.Portfolio
func (h *PortfolioHandler) Portfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.portfolioService.GetPortfolios(r.Context(), r.URL.Query().Get("owner"))
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieve.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolios)
}

// CreatePortfolio handles POST requests to create a portfolio.
//
// Endpoint: POST /api/portfolio
// Request Body: CreatePortfolioRequest (owner, name, cashBalance)
// Response: 201 Created with model.Portfolio
// Error: 400 Bad Request if validation fails or request body is invalid
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "failed to create portfolio")
		return
	}

	response.RespondJSON(w, http.StatusCreated, portfolio)
}

// GetPortfolio returns a portfolio with totals over its holdings.
//
// Endpoint: GET /api/portfolio/{uuid}
// Response: 200 OK with model.PortfolioSummary
// Error: 404 Not Found if the portfolio does not exist
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolioService.GetPortfolioSummary(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieve.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// DeletePortfolio removes a portfolio with all of its holdings and ledger entries.
//
// Endpoint: DELETE /api/portfolio/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if the portfolio does not exist
func (h *PortfolioHandler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	if err := h.portfolioService.DeletePortfolio(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, "failed to delete portfolio")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Holdings returns every lot of a portfolio joined with its bond.
//
// Endpoint: GET /api/portfolio/{uuid}/holdings
// Response: 200 OK with array of model.HoldingView
func (h *PortfolioHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.portfolioService.GetHoldings(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieve.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// History returns stored valuation snapshots.
//
// Endpoint: GET /api/portfolio/{uuid}/history?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD
// Response: 200 OK with array of model.PortfolioHistory
// Error: 400 Bad Request if a date is malformed or the range is inverted
func (h *PortfolioHandler) History(w http.ResponseWriter, r *http.Request) {
	start, end, err := validation.ParseDateRange(r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		respondServiceError(w, err, "invalid date range")
		return
	}

	history, err := h.portfolioService.GetHistory(r.Context(), chi.URLParam(r, "uuid"), start, end)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieve.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, history)
}
