package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/service"
)

// BondHandler serves the bond catalog.
type BondHandler struct {
	bondService *service.BondService
}

// NewBondHandler creates a new BondHandler.
func NewBondHandler(bondService *service.BondService) *BondHandler {
	return &BondHandler{
		bondService: bondService,
	}
}

// Bonds lists every known bond definition.
//
// Endpoint: GET /api/bond
// Response: 200 OK with array of model.BondDefinition
func (h *BondHandler) Bonds(w http.ResponseWriter, r *http.Request) {
	bonds, err := h.bondService.GetBonds(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieve.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, bonds)
}

// Bond returns the definition for one ISIN.
//
// Endpoint: GET /api/bond/{isin}
// Response: 200 OK with model.BondDefinition
// Error: 404 Not Found if the ISIN is unknown
func (h *BondHandler) Bond(w http.ResponseWriter, r *http.Request) {
	bond, err := h.bondService.GetBond(r.Context(), chi.URLParam(r, "isin"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieve.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, bond)
}
