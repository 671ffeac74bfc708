package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
)

// HistoryRepository provides data access methods for the portfolio_history table.
type HistoryRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewHistoryRepository creates a new HistoryRepository with the provided database connection.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// WithTx returns a new HistoryRepository scoped to the provided transaction.
func (r *HistoryRepository) WithTx(tx *sql.Tx) *HistoryRepository {
	return &HistoryRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *HistoryRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// UpsertHistory writes the snapshot for (portfolio, date), replacing the
// values of an existing row for the same day.
func (r *HistoryRepository) UpsertHistory(ctx context.Context, h *model.PortfolioHistory) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}

	query := `
		INSERT INTO portfolio_history (
			id, portfolio_id, date, total_value, cash_value, bond_value, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (portfolio_id, date) DO UPDATE SET
			total_value = excluded.total_value,
			cash_value = excluded.cash_value,
			bond_value = excluded.bond_value
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		h.ID,
		h.PortfolioID,
		formatDate(h.Date),
		decimalText(h.TotalValue),
		decimalText(h.CashValue),
		decimalText(h.BondValue),
		formatTimestamp(h.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert portfolio_history: %w", err)
	}
	return nil
}

// GetHistory returns the snapshots of a portfolio within [startDate, endDate],
// oldest first. Zero dates leave that side of the range open.
func (r *HistoryRepository) GetHistory(ctx context.Context, portfolioID string, startDate, endDate time.Time) ([]model.PortfolioHistory, error) {
	query := `
		SELECT id, portfolio_id, date, total_value, cash_value, bond_value, created_at
		FROM portfolio_history
		WHERE portfolio_id = ?
	`
	args := []any{portfolioID}

	if !startDate.IsZero() {
		query += " AND date >= ?"
		args = append(args, formatDate(startDate))
	}
	if !endDate.IsZero() {
		query += " AND date <= ?"
		args = append(args, formatDate(endDate))
	}
	query += " ORDER BY date ASC"

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio_history table: %w", err)
	}
	defer rows.Close()

	history := []model.PortfolioHistory{}
	for rows.Next() {
		var h model.PortfolioHistory
		var date, createdAt string

		err := rows.Scan(
			&h.ID,
			&h.PortfolioID,
			&date,
			&h.TotalValue,
			&h.CashValue,
			&h.BondValue,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio_history results: %w", err)
		}
		if h.Date, err = ParseTime(date); err != nil {
			return nil, err
		}
		if h.CreatedAt, err = ParseTime(createdAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio_history table: %w", err)
	}

	return history, nil
}
