package validation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
)

func ValidateCreatePortfolio(req request.CreatePortfolioRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Owner) == "" {
		errors["owner"] = apperrors.ErrInvalidPortfolioOwner.Error()
	} else if len(req.Owner) > 100 {
		errors["owner"] = "owner must be 100 characters or less"
	}

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = apperrors.ErrInvalidPortfolioName.Error()
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	if req.CashBalance != "" {
		if _, err := decimal.NewFromString(req.CashBalance); err != nil {
			errors["cashBalance"] = "cashBalance must be a decimal number"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateImportRequest checks the form fields of a CSV upload.
func ValidateImportRequest(req request.ImportRequest) error {
	errors := make(map[string]string)

	if req.PortfolioID != "" {
		if err := ValidateUUID(req.PortfolioID); err != nil {
			errors["portfolioId"] = err.Error()
		}
	}
	if len(req.Owner) > 100 {
		errors["owner"] = "owner must be 100 characters or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
