package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
)

// BondRepository provides data access methods for the bond_definition table.
type BondRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewBondRepository creates a new BondRepository with the provided database connection.
func NewBondRepository(db *sql.DB) *BondRepository {
	return &BondRepository{db: db}
}

// WithTx returns a new BondRepository scoped to the provided transaction.
func (r *BondRepository) WithTx(tx *sql.Tx) *BondRepository {
	return &BondRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *BondRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const bondColumns = `
	id, isin, name, issuer, series, bond_type, maturity_date, emission_date,
	coupon_rate, nominal_value, created_at
`

func scanBond(row rowScanner) (model.BondDefinition, error) {
	var b model.BondDefinition
	var series, bondType, maturity, emission sql.NullString
	var createdAt string

	if err := row.Scan(
		&b.ID,
		&b.ISIN,
		&b.Name,
		&b.Issuer,
		&series,
		&bondType,
		&maturity,
		&emission,
		&b.CouponRate,
		&b.NominalValue,
		&createdAt,
	); err != nil {
		return model.BondDefinition{}, err
	}

	var err error
	b.Series = nullString(series)
	b.BondType = nullString(bondType)
	if b.MaturityDate, err = parseNullTime(maturity); err != nil {
		return model.BondDefinition{}, err
	}
	if b.EmissionDate, err = parseNullTime(emission); err != nil {
		return model.BondDefinition{}, err
	}
	if b.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.BondDefinition{}, err
	}
	return b, nil
}

// GetBondByISIN returns the catalog entry for an ISIN.
// Returns apperrors.ErrBondNotFound when the ISIN is unknown.
func (r *BondRepository) GetBondByISIN(ctx context.Context, isin string) (model.BondDefinition, error) {
	query := `SELECT ` + bondColumns + ` FROM bond_definition WHERE isin = ?`

	b, err := scanBond(r.getQuerier().QueryRowContext(ctx, query, isin))
	if errors.Is(err, sql.ErrNoRows) {
		return model.BondDefinition{}, apperrors.ErrBondNotFound
	}
	if err != nil {
		return model.BondDefinition{}, fmt.Errorf("failed to query bond_definition: %w", err)
	}
	return b, nil
}

// GetBonds returns the whole catalog ordered by ISIN.
func (r *BondRepository) GetBonds(ctx context.Context) ([]model.BondDefinition, error) {
	query := `SELECT ` + bondColumns + ` FROM bond_definition ORDER BY isin`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query bond_definition table: %w", err)
	}
	defer rows.Close()

	bonds := []model.BondDefinition{}
	for rows.Next() {
		b, err := scanBond(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bond_definition results: %w", err)
		}
		bonds = append(bonds, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bond_definition table: %w", err)
	}

	return bonds, nil
}

// InsertBond adds a new catalog entry. The ISIN is unique; a second insert
// for the same ISIN returns apperrors.ErrDuplicateEntry.
func (r *BondRepository) InsertBond(ctx context.Context, b *model.BondDefinition) error {
	existing, err := r.GetBondByISIN(ctx, b.ISIN)
	if err == nil && existing.ID != "" {
		return fmt.Errorf("%w: isin %s", apperrors.ErrDuplicateEntry, b.ISIN)
	}
	if err != nil && !errors.Is(err, apperrors.ErrBondNotFound) {
		return err
	}

	query := `
		INSERT INTO bond_definition (
			id, isin, name, issuer, series, bond_type, maturity_date, emission_date,
			coupon_rate, nominal_value, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.getQuerier().ExecContext(ctx, query,
		b.ID,
		b.ISIN,
		b.Name,
		b.Issuer,
		nullableString(b.Series),
		nullableString(b.BondType),
		nullableDate(b.MaturityDate),
		nullableDate(b.EmissionDate),
		nullableDecimal(b.CouponRate),
		decimalText(b.NominalValue),
		formatTimestamp(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert bond_definition: %w", err)
	}
	return nil
}

// UpdateBondDetails writes the optional descriptive columns of a bond.
// Identity (ISIN), name, issuer and nominal value are never rewritten.
func (r *BondRepository) UpdateBondDetails(ctx context.Context, b *model.BondDefinition) error {
	query := `
		UPDATE bond_definition
		SET series = ?, bond_type = ?, maturity_date = ?, emission_date = ?, coupon_rate = ?
		WHERE id = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		nullableString(b.Series),
		nullableString(b.BondType),
		nullableDate(b.MaturityDate),
		nullableDate(b.EmissionDate),
		nullableDecimal(b.CouponRate),
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bond_definition: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrBondNotFound
	}
	return nil
}
