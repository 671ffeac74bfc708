package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrBondNotFound indicates that no bond definition exists for the given ISIN or ID.
	ErrBondNotFound = errors.New("bond not found")

	// ErrHoldingNotFound indicates that a holding (lot) with the given ID or lot key does not exist.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidFrequency indicates an unsupported resampling frequency.
	ErrInvalidFrequency = errors.New("invalid frequency")

	// Row-level import failures
	ErrMissingISIN          = errors.New("missing ISIN")
	ErrInvalidPurchaseDate  = errors.New("missing or invalid purchase date")
	ErrInvalidPurchasePrice = errors.New("invalid purchase price")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrNonPositiveQuantity  = errors.New("quantity must be positive")
)

// Portfolio field validation messages.
var (
	ErrInvalidPortfolioName  = errors.New("name is required")
	ErrInvalidPortfolioOwner = errors.New("owner is required")
)

// CSV input errors are batch-level: the file as a whole cannot be read.
var (
	// ErrEmptyCSV indicates an upload without any bytes or without any data row.
	ErrEmptyCSV = errors.New("CSV file is empty")

	// ErrMissingHeader indicates that the first CSV line is missing or blank.
	ErrMissingHeader = errors.New("CSV header row is required")

	// ErrEncodingExhausted indicates that none of the supported encodings could decode the file.
	ErrEncodingExhausted = errors.New("CSV encoding could not be detected")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	ErrFailedToImport   = errors.New("failed to import CSV batch")
	ErrFailedToRetrieve = errors.New("failed to retrieve data")

	// ErrInflationUnavailable indicates the CPI data source could not be reached.
	ErrInflationUnavailable = errors.New("inflation data unavailable")
)
