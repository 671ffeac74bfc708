package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/repository"
)

// HoldingService aggregates imported rows into lots and removes lots on request.
type HoldingService struct {
	db              *sql.DB
	holdingRepo     *repository.HoldingRepository
	transactionRepo *repository.TransactionRepository
}

// NewHoldingService creates a new HoldingService with the provided repository dependencies.
func NewHoldingService(
	db *sql.DB,
	holdingRepo *repository.HoldingRepository,
	transactionRepo *repository.TransactionRepository,
) *HoldingService {
	return &HoldingService{
		db:              db,
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
	}
}

// WithTx returns a copy of the service whose writes join tx.
func (s *HoldingService) WithTx(tx *sql.Tx) *HoldingService {
	return &HoldingService{
		db:              s.db,
		holdingRepo:     s.holdingRepo.WithTx(tx),
		transactionRepo: s.transactionRepo.WithTx(tx),
	}
}

// Upsert folds a parsed row into the lot identified by
// (portfolio, bond, purchase date, purchase price).
//
// On a match, quantity and current value are added and the transaction
// reference is cleared, since the lot now aggregates several ledger entries.
// The purchase price of an existing lot never changes. Without a match a new
// lot is inserted carrying the row's reference.
func (s *HoldingService) Upsert(ctx context.Context, portfolioID, bondID string, row model.ParsedRow) (model.Holding, error) {
	now := time.Now().UTC()

	lot, err := s.holdingRepo.FindLot(ctx, portfolioID, bondID, row.PurchaseDate, row.PurchasePrice)
	switch {
	case err == nil:
		lot.Quantity = lot.Quantity.Add(row.Quantity)
		lot.CurrentValue = addNullable(lot.CurrentValue, row.CurrentValue)
		lot.TransactionReference = nil
		lot.UpdatedAt = now

		if err := s.holdingRepo.UpdateHoldingAggregate(ctx, &lot); err != nil {
			return model.Holding{}, fmt.Errorf("failed to merge into lot %s: %w", lot.ID, err)
		}
		return lot, nil

	case errors.Is(err, apperrors.ErrHoldingNotFound):
		lot = model.Holding{
			ID:                   uuid.New().String(),
			PortfolioID:          portfolioID,
			BondID:               bondID,
			Quantity:             row.Quantity,
			PurchasePrice:        row.PurchasePrice,
			PurchaseDate:         row.PurchaseDate,
			CurrentValue:         row.CurrentValue,
			TransactionReference: optionalString(row.Reference),
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := s.holdingRepo.InsertHolding(ctx, &lot); err != nil {
			return model.Holding{}, fmt.Errorf("failed to create lot: %w", err)
		}
		return lot, nil

	default:
		return model.Holding{}, err
	}
}

// addNullable sums two optional values; a missing side counts as zero and
// the result is missing only when both sides are.
func addNullable(a, b decimal.NullDecimal) decimal.NullDecimal {
	switch {
	case a.Valid && b.Valid:
		return decimal.NewNullDecimal(a.Decimal.Add(b.Decimal))
	case a.Valid:
		return a
	default:
		return b
	}
}

// GetHolding returns a single lot.
func (s *HoldingService) GetHolding(ctx context.Context, holdingID string) (model.Holding, error) {
	return s.holdingRepo.GetHolding(ctx, holdingID)
}

// DeleteHolding removes a lot together with the ledger entries that fed it.
// A lot that still carries its reference takes the entries with that
// reference; an aggregated lot takes the BUY entries matching its key.
// Returns the number of ledger entries removed.
func (s *HoldingService) DeleteHolding(ctx context.Context, holdingID string) (removed int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	holdings := s.holdingRepo.WithTx(tx)
	transactions := s.transactionRepo.WithTx(tx)

	lot, err := holdings.GetHolding(ctx, holdingID)
	if err != nil {
		return 0, err
	}

	if lot.TransactionReference != nil {
		removed, err = transactions.DeleteTransactionsByReference(ctx, lot.PortfolioID, *lot.TransactionReference)
	} else {
		removed, err = transactions.DeleteBuysForLot(ctx, lot.PortfolioID, lot.BondID, lot.PurchaseDate, lot.PurchasePrice)
	}
	if err != nil {
		return 0, err
	}

	if err = holdings.DeleteHolding(ctx, holdingID); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit holding delete: %w", err)
	}
	return removed, nil
}
