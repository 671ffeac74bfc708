package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/validation"
)

const (
	// DefaultIssuer is used when a statement row names no issuer.
	DefaultIssuer = "Skarb Państwa"
)

// DefaultNominalValue is used when a statement row carries no nominal value.
var DefaultNominalValue = decimal.NewFromInt(100)

// BondService resolves ISINs to catalog entries.
type BondService struct {
	bondRepo *repository.BondRepository
	enrich   bool
}

// BondOption configures a BondService.
type BondOption func(*BondService)

// WithEnrichment makes Resolve fill null descriptive fields of an existing
// bond from later rows. Populated fields are never overwritten.
func WithEnrichment(enabled bool) BondOption {
	return func(s *BondService) {
		s.enrich = enabled
	}
}

// NewBondService creates a new BondService with the provided repository dependencies.
func NewBondService(bondRepo *repository.BondRepository, opts ...BondOption) *BondService {
	s := &BondService{bondRepo: bondRepo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithTx returns a copy of the service whose writes join tx.
func (s *BondService) WithTx(tx *sql.Tx) *BondService {
	return &BondService{
		bondRepo: s.bondRepo.WithTx(tx),
		enrich:   s.enrich,
	}
}

// Resolve maps an ISIN to its BondDefinition, creating the entry from the
// row when the ISIN is new. The insert joins the caller's transaction; commit
// is the caller's business.
func (s *BondService) Resolve(ctx context.Context, isin string, row model.ParsedRow) (model.BondDefinition, error) {
	isin = strings.TrimSpace(isin)
	if isin == "" {
		return model.BondDefinition{}, &validation.Error{
			Fields: map[string]string{"isin": apperrors.ErrMissingISIN.Error()},
		}
	}

	bond, err := s.bondRepo.GetBondByISIN(ctx, isin)
	if err == nil {
		if s.enrich {
			return s.fillMissing(ctx, bond, row)
		}
		return bond, nil
	}
	if !errors.Is(err, apperrors.ErrBondNotFound) {
		return model.BondDefinition{}, err
	}

	bond = newBondFromRow(isin, row)
	if err := s.bondRepo.InsertBond(ctx, &bond); err != nil {
		return model.BondDefinition{}, fmt.Errorf("failed to create bond %s: %w", isin, err)
	}
	return bond, nil
}

func newBondFromRow(isin string, row model.ParsedRow) model.BondDefinition {
	name := firstNonEmpty(row.Series, row.Name, isin)
	issuer := firstNonEmpty(row.Issuer, DefaultIssuer)

	nominal := DefaultNominalValue
	if row.NominalValue.Valid {
		nominal = row.NominalValue.Decimal
	}

	return model.BondDefinition{
		ID:           uuid.New().String(),
		ISIN:         isin,
		Name:         name,
		Issuer:       issuer,
		Series:       optionalString(row.Series),
		BondType:     optionalString(row.BondType),
		MaturityDate: row.MaturityDate,
		EmissionDate: row.EmissionDate,
		CouponRate:   row.CouponRate,
		NominalValue: nominal,
		CreatedAt:    time.Now().UTC(),
	}
}

// fillMissing copies row data into fields that are still null.
func (s *BondService) fillMissing(ctx context.Context, bond model.BondDefinition, row model.ParsedRow) (model.BondDefinition, error) {
	changed := false

	if bond.Series == nil && row.Series != "" {
		bond.Series = optionalString(row.Series)
		changed = true
	}
	if bond.BondType == nil && row.BondType != "" {
		bond.BondType = optionalString(row.BondType)
		changed = true
	}
	if bond.MaturityDate == nil && row.MaturityDate != nil {
		bond.MaturityDate = row.MaturityDate
		changed = true
	}
	if bond.EmissionDate == nil && row.EmissionDate != nil {
		bond.EmissionDate = row.EmissionDate
		changed = true
	}
	if !bond.CouponRate.Valid && row.CouponRate.Valid {
		bond.CouponRate = row.CouponRate
		changed = true
	}

	if !changed {
		return bond, nil
	}
	if err := s.bondRepo.UpdateBondDetails(ctx, &bond); err != nil {
		return model.BondDefinition{}, fmt.Errorf("failed to enrich bond %s: %w", bond.ISIN, err)
	}
	return bond, nil
}

// GetBonds returns the whole bond catalog.
func (s *BondService) GetBonds(ctx context.Context) ([]model.BondDefinition, error) {
	return s.bondRepo.GetBonds(ctx)
}

// GetBond returns the catalog entry for an ISIN.
func (s *BondService) GetBond(ctx context.Context, isin string) (model.BondDefinition, error) {
	return s.bondRepo.GetBondByISIN(ctx, strings.TrimSpace(isin))
}
