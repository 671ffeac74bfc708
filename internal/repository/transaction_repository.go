package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
)

// TransactionRepository provides data access methods for the transaction table.
// Ledger rows are append-only apart from cascading deletes.
type TransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a new TransactionRepository scoped to the provided transaction.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *TransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// ReferenceExists reports whether a ledger entry with this reference is
// already recorded for the portfolio.
func (r *TransactionRepository) ReferenceExists(ctx context.Context, portfolioID, reference string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM "transaction"
			WHERE portfolio_id = ? AND reference = ?
		)
	`

	var exists bool
	if err := r.getQuerier().QueryRowContext(ctx, query, portfolioID, reference).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to query transaction reference: %w", err)
	}
	return exists, nil
}

// InsertTransaction appends a ledger entry.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO "transaction" (
			id, portfolio_id, bond_definition_id, type, quantity, price, date,
			fees, reference, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		t.PortfolioID,
		t.BondID,
		string(t.Type),
		decimalText(t.Quantity),
		decimalText(t.Price),
		formatDate(t.Date),
		decimalText(t.Fees),
		nullableString(t.Reference),
		nullableString(t.Notes),
		formatTimestamp(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// GetTransaction returns a single ledger entry or apperrors.ErrTransactionNotFound.
func (r *TransactionRepository) GetTransaction(ctx context.Context, transactionID string) (model.TransactionView, error) {
	query := transactionViewQuery + ` WHERE t.id = ?`

	rows, err := r.getQuerier().QueryContext(ctx, query, transactionID)
	if err != nil {
		return model.TransactionView{}, fmt.Errorf("failed to query transaction: %w", err)
	}
	views, err := scanTransactionViews(rows)
	if err != nil {
		return model.TransactionView{}, err
	}
	if len(views) == 0 {
		return model.TransactionView{}, apperrors.ErrTransactionNotFound
	}
	return views[0], nil
}

// GetTransactionsByPortfolio returns the ledger of a portfolio, oldest first.
func (r *TransactionRepository) GetTransactionsByPortfolio(ctx context.Context, portfolioID string) ([]model.TransactionView, error) {
	query := transactionViewQuery + ` WHERE t.portfolio_id = ? ORDER BY t.date, t.created_at, t.id`

	rows, err := r.getQuerier().QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	return scanTransactionViews(rows)
}

const transactionViewQuery = `
	SELECT t.id, t.portfolio_id, t.bond_definition_id, t.type, t.quantity, t.price,
		t.date, t.fees, t.reference, t.notes, t.created_at, b.isin, b.name
	FROM "transaction" t
	JOIN bond_definition b ON b.id = t.bond_definition_id
`

func scanTransactionViews(rows *sql.Rows) ([]model.TransactionView, error) {
	defer rows.Close()

	views := []model.TransactionView{}
	for rows.Next() {
		var v model.TransactionView
		var txType, date, createdAt string
		var reference, notes sql.NullString

		err := rows.Scan(
			&v.ID,
			&v.PortfolioID,
			&v.BondID,
			&txType,
			&v.Quantity,
			&v.Price,
			&date,
			&v.Fees,
			&reference,
			&notes,
			&createdAt,
			&v.ISIN,
			&v.BondName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction table results: %w", err)
		}

		v.Type = model.TransactionType(txType)
		v.Reference = nullString(reference)
		v.Notes = nullString(notes)
		if v.Date, err = ParseTime(date); err != nil {
			return nil, fmt.Errorf("failed to parse transaction date: %w", err)
		}
		if v.CreatedAt, err = ParseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse transaction created_at: %w", err)
		}

		views = append(views, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}
	return views, nil
}

// DeleteTransactionsByReference removes the ledger entries of a portfolio
// carrying the given reference. Returns the number of rows removed.
func (r *TransactionRepository) DeleteTransactionsByReference(ctx context.Context, portfolioID, reference string) (int64, error) {
	query := `DELETE FROM "transaction" WHERE portfolio_id = ? AND reference = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, portfolioID, reference)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions: %w", err)
	}
	return rowsAffectedOrErr(result)
}

// DeleteBuysForLot removes BUY entries that fed an aggregated lot, matched on
// the lot key since such a lot no longer carries a single reference.
func (r *TransactionRepository) DeleteBuysForLot(
	ctx context.Context,
	portfolioID, bondID string,
	date time.Time,
	price decimal.Decimal,
) (int64, error) {
	query := `
		DELETE FROM "transaction"
		WHERE portfolio_id = ?
		AND bond_definition_id = ?
		AND date = ?
		AND price = ?
		AND type = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		portfolioID,
		bondID,
		formatDate(date),
		decimalText(price),
		string(model.TransactionTypeBuy),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete lot transactions: %w", err)
	}
	return rowsAffectedOrErr(result)
}

func rowsAffectedOrErr(result sql.Result) (int64, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
