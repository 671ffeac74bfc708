package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/service"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/validation"
)

// ImportHandler accepts CSV uploads.
type ImportHandler struct {
	importService  *service.ImportService
	maxUploadBytes int64
	errorPreview   int
}

// NewImportHandler creates a new ImportHandler. maxUploadBytes caps the
// request body; errorPreview is the number of row errors quoted in the
// summary message.
func NewImportHandler(importService *service.ImportService, maxUploadBytes int64, errorPreview int) *ImportHandler {
	return &ImportHandler{
		importService:  importService,
		maxUploadBytes: maxUploadBytes,
		errorPreview:   errorPreview,
	}
}

// ImportResponse is the import result plus a human readable summary.
type ImportResponse struct {
	*model.ImportResult
	Message string `json:"message"`
}

// Import handles a multipart CSV upload.
//
// Endpoint: POST /api/import
// Form fields: csv_file (required), owner, portfolioId, dryRun
// Response: 200 OK with ImportResponse when the batch was applied (or would be, on a dry run)
// Error: 422 Unprocessable Entity with ImportResponse when any row was rejected; nothing is written
// Error: 400 Bad Request if the upload is missing, empty, too large or has no header
// Error: 404 Not Found if portfolioId does not exist
// Error: 500 Internal Server Error if the batch could not be committed
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid upload", err.Error())
		return
	}

	file, _, err := r.FormFile("csv_file")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "csv_file is required", err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "failed to read upload", err.Error())
		return
	}

	req := request.ImportRequest{
		Owner:       r.FormValue("owner"),
		PortfolioID: r.FormValue("portfolioId"),
	}
	if s := r.FormValue("dryRun"); s != "" {
		if req.DryRun, err = strconv.ParseBool(s); err != nil {
			respondServiceError(w, &validation.Error{Fields: map[string]string{"dryRun": "must be true or false"}}, "")
			return
		}
	}
	if err := validation.ValidateImportRequest(req); err != nil {
		respondServiceError(w, err, "")
		return
	}

	// A started batch runs to completion even if the client disconnects.
	result, err := h.importService.ImportCSV(context.WithoutCancel(r.Context()), data, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrEmptyCSV),
			errors.Is(err, apperrors.ErrMissingHeader),
			errors.Is(err, apperrors.ErrEncodingExhausted):
			response.RespondError(w, http.StatusBadRequest, err.Error(), "")
		default:
			respondServiceError(w, err, apperrors.ErrFailedToImport.Error())
		}
		return
	}

	status := http.StatusOK
	if result.Failed() {
		status = http.StatusUnprocessableEntity
	}
	response.RespondJSON(w, status, ImportResponse{
		ImportResult: result,
		Message:      result.Summary(h.errorPreview),
	})
}
