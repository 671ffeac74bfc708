package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
)

// PortfolioRepository provides data access methods for the portfolio table.
type PortfolioRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// WithTx returns a new PortfolioRepository scoped to the provided transaction.
func (r *PortfolioRepository) WithTx(tx *sql.Tx) *PortfolioRepository {
	return &PortfolioRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *PortfolioRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func scanPortfolio(row rowScanner) (model.Portfolio, error) {
	var p model.Portfolio
	var createdAt string

	if err := row.Scan(&p.ID, &p.Owner, &p.Name, &p.CashBalance, &createdAt); err != nil {
		return model.Portfolio{}, err
	}

	t, err := ParseTime(createdAt)
	if err != nil {
		return model.Portfolio{}, err
	}
	p.CreatedAt = t
	return p, nil
}

// GetPortfolios retrieves portfolios ordered by creation time.
// An empty owner returns the portfolios of every owner.
// Returns an empty slice if no portfolios match.
func (r *PortfolioRepository) GetPortfolios(ctx context.Context, owner string) ([]model.Portfolio, error) {
	query := `
		SELECT id, owner, name, cash_balance, created_at
		FROM portfolio
		WHERE 1=1
	`
	var args []any

	if owner != "" {
		query += " AND owner = ?"
		args = append(args, owner)
	}
	query += " ORDER BY created_at, id"

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}

	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio table results: %w", err)
		}
		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolios table: %w", err)
	}

	return portfolios, nil
}

// GetPortfolioOnID returns a single portfolio or apperrors.ErrPortfolioNotFound.
func (r *PortfolioRepository) GetPortfolioOnID(ctx context.Context, portfolioID string) (model.Portfolio, error) {
	query := `
		SELECT id, owner, name, cash_balance, created_at
		FROM portfolio
		WHERE id = ?
	`

	p, err := scanPortfolio(r.getQuerier().QueryRowContext(ctx, query, portfolioID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to query portfolio: %w", err)
	}

	return p, nil
}

// GetDefaultPortfolio returns the oldest portfolio of an owner, or
// apperrors.ErrPortfolioNotFound when the owner has none yet.
func (r *PortfolioRepository) GetDefaultPortfolio(ctx context.Context, owner string) (model.Portfolio, error) {
	query := `
		SELECT id, owner, name, cash_balance, created_at
		FROM portfolio
		WHERE owner = ?
		ORDER BY created_at, id
		LIMIT 1
	`

	p, err := scanPortfolio(r.getQuerier().QueryRowContext(ctx, query, owner))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to query default portfolio: %w", err)
	}

	return p, nil
}

// InsertPortfolio adds a new portfolio.
func (r *PortfolioRepository) InsertPortfolio(ctx context.Context, p *model.Portfolio) error {
	query := `
		INSERT INTO portfolio (id, owner, name, cash_balance, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		p.ID,
		p.Owner,
		p.Name,
		decimalText(p.CashBalance),
		formatTimestamp(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}
	return nil
}

// DeletePortfolio removes a portfolio. Holdings, transactions and history
// rows go with it through ON DELETE CASCADE.
func (r *PortfolioRepository) DeletePortfolio(ctx context.Context, portfolioID string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM portfolio WHERE id = ?`, portfolioID)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrPortfolioNotFound
	}
	return nil
}
