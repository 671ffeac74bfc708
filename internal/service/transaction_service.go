package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/repository"
)

// TransactionService writes and reads the append-only ledger.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
	portfolioRepo   *repository.PortfolioRepository
	bondRepo        *repository.BondRepository
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
func NewTransactionService(
	transactionRepo *repository.TransactionRepository,
	portfolioRepo *repository.PortfolioRepository,
	bondRepo *repository.BondRepository,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		portfolioRepo:   portfolioRepo,
		bondRepo:        bondRepo,
	}
}

// WithTx returns a copy of the service whose writes join tx.
func (s *TransactionService) WithTx(tx *sql.Tx) *TransactionService {
	return &TransactionService{
		transactionRepo: s.transactionRepo.WithTx(tx),
		portfolioRepo:   s.portfolioRepo.WithTx(tx),
		bondRepo:        s.bondRepo.WithTx(tx),
	}
}

// Record appends a BUY entry for an imported row. No duplicate check happens
// here; the import orchestrator filters known references first.
func (s *TransactionService) Record(ctx context.Context, portfolioID, bondID string, row model.ParsedRow) (model.Transaction, error) {
	t := model.Transaction{
		ID:          uuid.New().String(),
		PortfolioID: portfolioID,
		BondID:      bondID,
		Type:        model.TransactionTypeBuy,
		Quantity:    row.Quantity,
		Price:       row.PurchasePrice,
		Date:        row.PurchaseDate,
		Fees:        row.Fees,
		Reference:   optionalString(row.Reference),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.transactionRepo.InsertTransaction(ctx, &t); err != nil {
		return model.Transaction{}, fmt.Errorf("failed to record transaction: %w", err)
	}
	return t, nil
}

// IsDuplicate reports whether reference was already recorded for the
// portfolio. An empty reference is never a duplicate.
func (s *TransactionService) IsDuplicate(ctx context.Context, portfolioID, reference string) (bool, error) {
	if strings.TrimSpace(reference) == "" || portfolioID == "" {
		return false, nil
	}
	return s.transactionRepo.ReferenceExists(ctx, portfolioID, strings.TrimSpace(reference))
}

// GetTransactions returns the ledger of a portfolio.
func (s *TransactionService) GetTransactions(ctx context.Context, portfolioID string) ([]model.TransactionView, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return nil, err
	}
	return s.transactionRepo.GetTransactionsByPortfolio(ctx, portfolioID)
}

// GetTransaction returns a single ledger entry.
func (s *TransactionService) GetTransaction(ctx context.Context, transactionID string) (model.TransactionView, error) {
	return s.transactionRepo.GetTransaction(ctx, transactionID)
}

// CreateTransaction records a manual ledger entry such as a coupon payment
// or a redemption. Holdings are left untouched; only imports aggregate lots.
// The request must have passed validation.ValidateCreateTransaction.
func (s *TransactionService) CreateTransaction(
	ctx context.Context,
	portfolioID string,
	req request.CreateTransactionRequest,
) (*model.Transaction, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return nil, err
	}

	bond, err := s.bondRepo.GetBondByISIN(ctx, strings.TrimSpace(req.ISIN))
	if err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity: %w", err)
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}
	fees := decimal.Zero
	if req.Fees != "" {
		if fees, err = decimal.NewFromString(req.Fees); err != nil {
			return nil, fmt.Errorf("invalid fees: %w", err)
		}
	}

	if dup, err := s.IsDuplicate(ctx, portfolioID, req.Reference); err != nil {
		return nil, err
	} else if dup {
		return nil, fmt.Errorf("%w: reference %s", apperrors.ErrDuplicateEntry, req.Reference)
	}

	t := &model.Transaction{
		ID:          uuid.New().String(),
		PortfolioID: portfolioID,
		BondID:      bond.ID,
		Type:        model.TransactionType(strings.ToUpper(req.Type)),
		Quantity:    quantity,
		Price:       price,
		Date:        date,
		Fees:        fees,
		Reference:   optionalString(req.Reference),
		Notes:       optionalString(req.Notes),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.transactionRepo.InsertTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return t, nil
}
