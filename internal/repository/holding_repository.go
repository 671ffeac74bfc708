package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
)

// HoldingRepository provides data access methods for the holding table.
type HoldingRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// WithTx returns a new HoldingRepository scoped to the provided transaction.
func (r *HoldingRepository) WithTx(tx *sql.Tx) *HoldingRepository {
	return &HoldingRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *HoldingRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const holdingColumns = `
	h.id, h.portfolio_id, h.bond_definition_id, h.quantity, h.purchase_price,
	h.purchase_date, h.current_value, h.transaction_reference, h.created_at, h.updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

// holdingDest returns the scan targets for holdingColumns and a finish func
// that converts the text columns once Scan has run.
func holdingDest(h *model.Holding) ([]any, func() error) {
	var purchaseDate, createdAt, updatedAt string
	var reference sql.NullString

	dest := []any{
		&h.ID,
		&h.PortfolioID,
		&h.BondID,
		&h.Quantity,
		&h.PurchasePrice,
		&purchaseDate,
		&h.CurrentValue,
		&reference,
		&createdAt,
		&updatedAt,
	}

	finish := func() error {
		var err error
		h.TransactionReference = nullString(reference)
		if h.PurchaseDate, err = ParseTime(purchaseDate); err != nil {
			return err
		}
		if h.CreatedAt, err = ParseTime(createdAt); err != nil {
			return err
		}
		if h.UpdatedAt, err = ParseTime(updatedAt); err != nil {
			return err
		}
		return nil
	}
	return dest, finish
}

func scanHolding(row rowScanner) (model.Holding, error) {
	var h model.Holding
	dest, finish := holdingDest(&h)
	if err := row.Scan(dest...); err != nil {
		return model.Holding{}, err
	}
	if err := finish(); err != nil {
		return model.Holding{}, err
	}
	return h, nil
}

// GetHolding returns a holding by ID or apperrors.ErrHoldingNotFound.
func (r *HoldingRepository) GetHolding(ctx context.Context, holdingID string) (model.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holding h WHERE h.id = ?`

	h, err := scanHolding(r.getQuerier().QueryRowContext(ctx, query, holdingID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Holding{}, apperrors.ErrHoldingNotFound
	}
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to query holding: %w", err)
	}
	return h, nil
}

// FindLot returns the holding matching the aggregation key exactly.
// The price comparison is on the canonical decimal text, so 100.00 and 100
// match while 100.01 does not. When more than one lot matches (rows created
// outside the import path), the oldest one is returned.
func (r *HoldingRepository) FindLot(
	ctx context.Context,
	portfolioID, bondID string,
	purchaseDate time.Time,
	purchasePrice decimal.Decimal,
) (model.Holding, error) {
	query := `
		SELECT ` + holdingColumns + `
		FROM holding h
		WHERE h.portfolio_id = ?
		AND h.bond_definition_id = ?
		AND h.purchase_date = ?
		AND h.purchase_price = ?
		ORDER BY h.created_at, h.id
		LIMIT 1
	`

	h, err := scanHolding(r.getQuerier().QueryRowContext(ctx, query,
		portfolioID,
		bondID,
		formatDate(purchaseDate),
		decimalText(purchasePrice),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Holding{}, apperrors.ErrHoldingNotFound
	}
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to query holding lot: %w", err)
	}
	return h, nil
}

// InsertHolding adds a new lot.
func (r *HoldingRepository) InsertHolding(ctx context.Context, h *model.Holding) error {
	query := `
		INSERT INTO holding (
			id, portfolio_id, bond_definition_id, quantity, purchase_price, purchase_date,
			current_value, transaction_reference, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		h.ID,
		h.PortfolioID,
		h.BondID,
		decimalText(h.Quantity),
		decimalText(h.PurchasePrice),
		formatDate(h.PurchaseDate),
		nullableDecimal(h.CurrentValue),
		nullableString(h.TransactionReference),
		formatTimestamp(h.CreatedAt),
		formatTimestamp(h.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert holding: %w", err)
	}
	return nil
}

// UpdateHoldingAggregate writes the additive columns of a lot. Purchase
// price and date are part of the lot key and are never updated.
func (r *HoldingRepository) UpdateHoldingAggregate(ctx context.Context, h *model.Holding) error {
	query := `
		UPDATE holding
		SET quantity = ?, current_value = ?, transaction_reference = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		decimalText(h.Quantity),
		nullableDecimal(h.CurrentValue),
		nullableString(h.TransactionReference),
		formatTimestamp(h.UpdatedAt),
		h.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrHoldingNotFound
	}
	return nil
}

// DeleteHolding removes a lot.
func (r *HoldingRepository) DeleteHolding(ctx context.Context, holdingID string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM holding WHERE id = ?`, holdingID)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrHoldingNotFound
	}
	return nil
}

// GetHoldingViews returns the holdings snapshot of a portfolio joined with
// bond data, ordered by purchase date then ISIN.
func (r *HoldingRepository) GetHoldingViews(ctx context.Context, portfolioID string) ([]model.HoldingView, error) {
	query := `
		SELECT ` + holdingColumns + `,
			b.isin, b.name, b.issuer, b.series, b.bond_type, b.maturity_date,
			b.emission_date, b.coupon_rate, b.nominal_value
		FROM holding h
		JOIN bond_definition b ON b.id = h.bond_definition_id
		WHERE h.portfolio_id = ?
		ORDER BY h.purchase_date, b.isin, h.created_at
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	views := []model.HoldingView{}
	for rows.Next() {
		var v model.HoldingView
		var series, bondType, maturity, emission sql.NullString

		dest, finish := holdingDest(&v.Holding)
		dest = append(dest,
			&v.ISIN,
			&v.Name,
			&v.Issuer,
			&series,
			&bondType,
			&maturity,
			&emission,
			&v.CouponRate,
			&v.NominalValue,
		)

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan holding table results: %w", err)
		}
		if err := finish(); err != nil {
			return nil, fmt.Errorf("failed to parse holding dates: %w", err)
		}

		v.Series = nullString(series)
		v.BondType = nullString(bondType)
		if v.MaturityDate, err = parseNullTime(maturity); err != nil {
			return nil, fmt.Errorf("failed to parse maturity date: %w", err)
		}
		if v.EmissionDate, err = parseNullTime(emission); err != nil {
			return nil, fmt.Errorf("failed to parse emission date: %w", err)
		}

		views = append(views, v)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}

	return views, nil
}
