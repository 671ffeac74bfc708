package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/testutil"
)

// fakeCPI is an inflation.Source returning a fixed series.
type fakeCPI struct {
	points []model.ValuePoint
	err    error
}

func (f fakeCPI) Series(context.Context) ([]model.ValuePoint, error) {
	return f.points, f.err
}

func TestAnalyticsService_ValueTimeseries(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestAnalyticsService(t, db, nil)

	p := testutil.NewPortfolio().Build(t, db)
	bond := testutil.NewBond().Build(t, db)
	testutil.NewHolding(p.ID, bond.ID).WithDate("2024-01-01").WithQuantity("1").WithCurrentValue("100").Build(t, db)
	testutil.NewHolding(p.ID, bond.ID).WithDate("2024-01-03").WithQuantity("3").WithCurrentValue("300").Build(t, db)

	t.Run("daily grid forward fills", func(t *testing.T) {
		ts, err := svc.ValueTimeseries(ctx, p.ID, "D")
		if err != nil {
			t.Fatalf("ValueTimeseries() returned unexpected error: %v", err)
		}

		wantLabels := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
		wantValues := []float64{100, 100, 300}
		if len(ts.Labels) != len(wantLabels) {
			t.Fatalf("Expected %d labels, got %v", len(wantLabels), ts.Labels)
		}
		for i := range wantLabels {
			if ts.Labels[i] != wantLabels[i] || ts.Values[i] != wantValues[i] {
				t.Errorf("Point %d: expected %s=%v, got %s=%v", i, wantLabels[i], wantValues[i], ts.Labels[i], ts.Values[i])
			}
		}
	})

	t.Run("unknown frequency", func(t *testing.T) {
		_, err := svc.ValueTimeseries(ctx, p.ID, "Y")
		if !errors.Is(err, apperrors.ErrInvalidFrequency) {
			t.Errorf("Expected ErrInvalidFrequency, got %v", err)
		}
	})

	t.Run("unknown portfolio", func(t *testing.T) {
		_, err := svc.ValueTimeseries(ctx, testutil.MakeID(), "D")
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})
}

func TestAnalyticsService_Allocation(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestAnalyticsService(t, db, nil)

	p := testutil.NewPortfolio().Build(t, db)
	edo := testutil.NewBond().WithBondType("EDO").Build(t, db)
	coi := testutil.NewBond().WithBondType("COI").Build(t, db)
	plain := testutil.NewBond().Build(t, db)

	testutil.NewHolding(p.ID, edo.ID).WithQuantity("2").WithCurrentValue("200").Build(t, db)
	testutil.NewHolding(p.ID, coi.ID).WithQuantity("5").WithCurrentValue("50").Build(t, db)
	testutil.NewHolding(p.ID, plain.ID).WithQuantity("1").WithCurrentValue("10").Build(t, db)

	tests := []struct {
		name        string
		groupBy     string
		valueColumn string
		wantLabels  []string
		wantValues  []float64
	}{
		{
			name:       "defaults group by bond type and sum current value",
			wantLabels: []string{"EDO", "COI", "Inne"},
			wantValues: []float64{200, 50, 10},
		},
		{
			name:        "quantity column",
			groupBy:     "bond_type",
			valueColumn: "quantity",
			wantLabels:  []string{"COI", "EDO", "Inne"},
			wantValues:  []float64{5, 2, 1},
		},
		{
			name:       "unknown candidates are skipped",
			groupBy:    "nope, bond_type",
			wantLabels: []string{"EDO", "COI", "Inne"},
			wantValues: []float64{200, 50, 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pie, err := svc.Allocation(ctx, p.ID, tt.groupBy, tt.valueColumn)
			if err != nil {
				t.Fatalf("Allocation() returned unexpected error: %v", err)
			}
			if fmt.Sprint(pie.Labels) != fmt.Sprint(tt.wantLabels) {
				t.Errorf("Labels = %v, want %v", pie.Labels, tt.wantLabels)
			}
			if fmt.Sprint(pie.Values) != fmt.Sprint(tt.wantValues) {
				t.Errorf("Values = %v, want %v", pie.Values, tt.wantValues)
			}
		})
	}
}

func TestAnalyticsService_MaturityCalendar(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestAnalyticsService(t, db, nil)

	p := testutil.NewPortfolio().Build(t, db)
	past := testutil.NewBond().WithMaturity("2023-06-01").Build(t, db)
	future := testutil.NewBond().WithMaturity("2030-05-01").Build(t, db)
	testutil.NewHolding(p.ID, past.ID).Build(t, db)
	testutil.NewHolding(p.ID, future.ID).WithQuantity("4").Build(t, db)
	testutil.NewHolding(p.ID, future.ID).WithQuantity("6").WithPrice("99").Build(t, db)

	events, err := svc.MaturityCalendar(ctx, p.ID, testutil.MustDate("2024-01-01"))
	if err != nil {
		t.Fatalf("MaturityCalendar() returned unexpected error: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("Expected 1 upcoming event, got %+v", events)
	}
	if events[0].ISIN != future.ISIN || events[0].Date != "2030-05-01" {
		t.Errorf("Expected %s on 2030-05-01, got %s on %s", future.ISIN, events[0].ISIN, events[0].Date)
	}
	if !events[0].Redemption.Equal(dec("1000")) {
		t.Errorf("Expected redemption 1000, got %s", events[0].Redemption)
	}
}

// TestAnalyticsService_InflationComparison tests the CPI comparison wiring.
//
// WHY: Stored snapshots are the preferred portfolio series, and an unavailable
// CPI source must surface as ErrInflationUnavailable rather than an empty chart.
func TestAnalyticsService_InflationComparison(t *testing.T) {
	ctx := context.Background()

	t.Run("compares snapshots with CPI", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		p := testutil.NewPortfolio().Build(t, db)
		testutil.CreateHistory(t, db, p.ID, "2023-03-31", "1000")
		testutil.CreateHistory(t, db, p.ID, "2024-03-31", "1050")

		cpi := fakeCPI{points: []model.ValuePoint{
			{Date: testutil.MustDate("2024-03-01"), Value: dec("2.5")},
		}}
		svc := testutil.NewTestAnalyticsService(t, db, cpi)

		points, err := svc.InflationComparison(ctx, p.ID)
		if err != nil {
			t.Fatalf("InflationComparison() returned unexpected error: %v", err)
		}
		if len(points) != 1 {
			t.Fatalf("Expected 1 point, got %+v", points)
		}
		if points[0].Date != "2024-03-31" || points[0].PortfolioYoY != 5 || points[0].CPIYoY != 2.5 {
			t.Errorf("Expected 2024-03-31 5%% vs 2.5%%, got %+v", points[0])
		}
	})

	t.Run("falls back to holdings without snapshots", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		p := testutil.NewPortfolio().Build(t, db)
		bond := testutil.NewBond().Build(t, db)
		testutil.NewHolding(p.ID, bond.ID).WithDate("2023-01-10").WithCurrentValue("100").Build(t, db)
		testutil.NewHolding(p.ID, bond.ID).WithDate("2024-01-10").WithCurrentValue("120").Build(t, db)

		cpi := fakeCPI{points: []model.ValuePoint{{Date: testutil.MustDate("2024-01-15"), Value: dec("3.7")}}}
		svc := testutil.NewTestAnalyticsService(t, db, cpi)

		points, err := svc.InflationComparison(ctx, p.ID)
		if err != nil {
			t.Fatalf("InflationComparison() returned unexpected error: %v", err)
		}
		if len(points) != 1 || points[0].PortfolioYoY != 20 {
			t.Errorf("Expected one point with 20%% growth, got %+v", points)
		}
	})

	t.Run("no source configured", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		p := testutil.NewPortfolio().Build(t, db)
		svc := testutil.NewTestAnalyticsService(t, db, nil)

		if _, err := svc.InflationComparison(ctx, p.ID); !errors.Is(err, apperrors.ErrInflationUnavailable) {
			t.Errorf("Expected ErrInflationUnavailable, got %v", err)
		}
	})

	t.Run("source failure", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		p := testutil.NewPortfolio().Build(t, db)
		svc := testutil.NewTestAnalyticsService(t, db, fakeCPI{err: apperrors.ErrInflationUnavailable})

		if _, err := svc.InflationComparison(ctx, p.ID); !errors.Is(err, apperrors.ErrInflationUnavailable) {
			t.Errorf("Expected ErrInflationUnavailable, got %v", err)
		}
	})
}
