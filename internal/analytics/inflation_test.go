package analytics_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/analytics"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
)

func point(date string, value int64) model.ValuePoint {
	return model.ValuePoint{Date: day(date), Value: decimal.NewFromInt(value)}
}

// TestCompareWithInflation tests year-over-year alignment with CPI.
//
// WHY: Portfolio values arrive on arbitrary days while CPI is monthly. Both
// must be reduced to month ends before comparison, and only months present
// in both series may be reported.
func TestCompareWithInflation(t *testing.T) {
	portfolio := []model.ValuePoint{
		point("2023-01-05", 1000),
		point("2023-01-20", 1100), // last in January wins
		point("2024-01-10", 1210),
		point("2024-02-15", 1320), // February 2023 is carried from January
	}
	cpi := []model.ValuePoint{
		point("2024-01-01", 4),
		point("2024-03-01", 2),
	}

	got := analytics.CompareWithInflation(portfolio, cpi)

	if len(got) != 1 {
		t.Fatalf("Expected 1 aligned month, got %d: %+v", len(got), got)
	}
	if got[0].Date != "2024-01-31" {
		t.Errorf("Date = %s, want 2024-01-31", got[0].Date)
	}
	if got[0].PortfolioYoY != 10 {
		t.Errorf("PortfolioYoY = %v, want 10", got[0].PortfolioYoY)
	}
	if got[0].CPIYoY != 4 {
		t.Errorf("CPIYoY = %v, want 4", got[0].CPIYoY)
	}
}

func TestCompareWithInflation_ShortHistory(t *testing.T) {
	portfolio := []model.ValuePoint{point("2024-01-10", 100), point("2024-06-10", 110)}
	cpi := []model.ValuePoint{point("2024-06-01", 3)}

	got := analytics.CompareWithInflation(portfolio, cpi)

	if got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil result, got %+v", got)
	}
}
