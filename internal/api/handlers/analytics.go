package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/service"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/validation"
)

// AnalyticsHandler serves chart data derived from a portfolio's holdings.
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// ChartData returns the value-over-time line.
//
// Endpoint: GET /api/portfolio/{uuid}/chart-data?freq=D|W|M|Q
// Response: 200 OK with model.Timeseries
// Error: 400 Bad Request for an unknown frequency
func (h *AnalyticsHandler) ChartData(w http.ResponseWriter, r *http.Request) {
	series, err := h.analyticsService.ValueTimeseries(r.Context(), chi.URLParam(r, "uuid"), r.URL.Query().Get("freq"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieve.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, series)
}

// Allocation returns the allocation pie.
//
// Endpoint: GET /api/portfolio/{uuid}/allocation?groupBy=bond_type,series&value=current_value
// Response: 200 OK with model.PieData
func (h *AnalyticsHandler) Allocation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pie, err := h.analyticsService.Allocation(r.Context(), chi.URLParam(r, "uuid"), q.Get("groupBy"), q.Get("value"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieve.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, pie)
}

// Inflation compares yearly portfolio growth with CPI.
//
// Endpoint: GET /api/portfolio/{uuid}/inflation
// Response: 200 OK with array of model.InflationPoint
// Error: 503 Service Unavailable if no CPI data can be obtained
func (h *AnalyticsHandler) Inflation(w http.ResponseWriter, r *http.Request) {
	points, err := h.analyticsService.InflationComparison(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieve.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, points)
}

// Calendar lists upcoming bond redemptions.
//
// Endpoint: GET /api/portfolio/{uuid}/calendar?from=YYYY-MM-DD
// Response: 200 OK with array of model.MaturityEvent
// Error: 400 Bad Request if from is malformed
func (h *AnalyticsHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	var from time.Time
	if s := r.URL.Query().Get("from"); s != "" {
		var err error
		if from, err = time.Parse("2006-01-02", s); err != nil {
			respondServiceError(w, &validation.Error{Fields: map[string]string{"from": "must be YYYY-MM-DD"}}, "")
			return
		}
	}

	events, err := h.analyticsService.MaturityCalendar(r.Context(), chi.URLParam(r, "uuid"), from)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieve.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, events)
}
