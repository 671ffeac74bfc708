package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/service"
)

// HoldingHandler handles HTTP requests for single lots.
type HoldingHandler struct {
	holdingService *service.HoldingService
}

// NewHoldingHandler creates a new HoldingHandler.
func NewHoldingHandler(holdingService *service.HoldingService) *HoldingHandler {
	return &HoldingHandler{
		holdingService: holdingService,
	}
}

// DeleteHoldingResponse reports how many ledger entries went with the lot.
type DeleteHoldingResponse struct {
	RemovedTransactions int64 `json:"removedTransactions"`
}

// GetHolding returns one lot.
//
// Endpoint: GET /api/holding/{uuid}
// Response: 200 OK with model.Holding
// Error: 404 Not Found if the holding does not exist
func (h *HoldingHandler) GetHolding(w http.ResponseWriter, r *http.Request) {
	holding, err := h.holdingService.GetHolding(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieve.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holding)
}

// DeleteHolding removes a lot and the ledger entries that fed it.
// Once deleted, the same CSV rows can be imported again.
//
// Endpoint: DELETE /api/holding/{uuid}
// Response: 200 OK with DeleteHoldingResponse
// Error: 404 Not Found if the holding does not exist
func (h *HoldingHandler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	removed, err := h.holdingService.DeleteHolding(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, "failed to delete holding")
		return
	}

	response.RespondJSON(w, http.StatusOK, DeleteHoldingResponse{RemovedTransactions: removed})
}
