package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/service"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/testutil"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/validation"
)

// TestBondService_Resolve tests ISIN resolution against the catalog.
//
// WHY: Every import row passes through Resolve. A new ISIN must be created with
// sensible fallbacks and a known ISIN must map to the same catalog row.
func TestBondService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("creates bond with fallbacks", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestBondService(t, db)

		bond, err := svc.Resolve(ctx, " PL0000000001 ", model.ParsedRow{})
		if err != nil {
			t.Fatalf("Resolve() returned unexpected error: %v", err)
		}

		if bond.ISIN != "PL0000000001" {
			t.Errorf("Expected trimmed ISIN, got %q", bond.ISIN)
		}
		if bond.Name != "PL0000000001" {
			t.Errorf("Expected name to fall back to ISIN, got %q", bond.Name)
		}
		if bond.Issuer != service.DefaultIssuer {
			t.Errorf("Expected issuer %q, got %q", service.DefaultIssuer, bond.Issuer)
		}
		if !bond.NominalValue.Equal(service.DefaultNominalValue) {
			t.Errorf("Expected nominal %s, got %s", service.DefaultNominalValue, bond.NominalValue)
		}
	})

	t.Run("known ISIN returns existing row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestBondService(t, db)
		existing := testutil.NewBond().WithSeries("EDO0534").Build(t, db)

		bond, err := svc.Resolve(ctx, existing.ISIN, model.ParsedRow{Series: "OTHER"})
		if err != nil {
			t.Fatalf("Resolve() returned unexpected error: %v", err)
		}
		if bond.ID != existing.ID {
			t.Errorf("Expected bond %s, got %s", existing.ID, bond.ID)
		}
		if bond.Series == nil || *bond.Series != "EDO0534" {
			t.Errorf("Expected series to stay EDO0534, got %v", bond.Series)
		}
	})

	t.Run("empty ISIN is a validation error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestBondService(t, db)

		_, err := svc.Resolve(ctx, "  ", model.ParsedRow{})
		var verr *validation.Error
		if !errors.As(err, &verr) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})
}

func TestBondService_GetBond(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestBondService(t, db)
	bond := testutil.NewBond().WithCoupon("0.0325").Build(t, db)

	got, err := svc.GetBond(ctx, bond.ISIN)
	if err != nil {
		t.Fatalf("GetBond() returned unexpected error: %v", err)
	}
	if !got.CouponRate.Valid || !got.CouponRate.Decimal.Equal(dec("0.0325")) {
		t.Errorf("Expected coupon 0.0325, got %v", got.CouponRate)
	}

	if _, err := svc.GetBond(ctx, "XX0000000000"); !errors.Is(err, apperrors.ErrBondNotFound) {
		t.Errorf("Expected ErrBondNotFound, got %v", err)
	}

	all, err := svc.GetBonds(ctx)
	if err != nil {
		t.Fatalf("GetBonds() returned unexpected error: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 bond, got %d", len(all))
	}
}
