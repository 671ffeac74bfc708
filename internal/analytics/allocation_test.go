package analytics_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/analytics"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
)

func typed(bondType string, current string) model.HoldingView {
	v := view("2024-01-01", 1, 100, current)
	if bondType != "" {
		v.BondType = &bondType
	}
	return v
}

// TestAllocationPie_SortOrder tests that slices come out largest first.
//
// WHY: The pie legend is rendered in the returned order; groups must be
// ranked by value, not by name or first appearance.
func TestAllocationPie_SortOrder(t *testing.T) {
	holdings := []model.HoldingView{
		typed("A", "50"),
		typed("B", "150"),
		typed("C", "10"),
		typed("B", "50"),
	}

	got := analytics.AllocationPie(holdings, []string{"bond_type"}, "current_value")

	if want := []string{"B", "A", "C"}; !reflect.DeepEqual(got.Labels, want) {
		t.Errorf("Labels = %v, want %v", got.Labels, want)
	}
	if want := []float64{200, 50, 10}; !reflect.DeepEqual(got.Values, want) {
		t.Errorf("Values = %v, want %v", got.Values, want)
	}
}

func TestAllocationPie_Grouping(t *testing.T) {
	t.Run("missing group falls into Inne", func(t *testing.T) {
		holdings := []model.HoldingView{typed("", "30"), typed("EDO", "70")}

		got := analytics.AllocationPie(holdings, []string{"bond_type"}, "current_value")

		if want := []string{"EDO", analytics.OtherLabel}; !reflect.DeepEqual(got.Labels, want) {
			t.Errorf("Labels = %v, want %v", got.Labels, want)
		}
	})

	t.Run("first known candidate wins", func(t *testing.T) {
		h := typed("EDO", "30")
		h.Issuer = "Skarb Państwa"

		got := analytics.AllocationPie([]model.HoldingView{h}, []string{"unknown", "issuer", "bond_type"}, "current_value")

		if want := []string{"Skarb Państwa"}; !reflect.DeepEqual(got.Labels, want) {
			t.Errorf("Labels = %v, want %v", got.Labels, want)
		}
	})

	t.Run("equal values order by label", func(t *testing.T) {
		holdings := []model.HoldingView{typed("Z", "10"), typed("M", "10")}

		got := analytics.AllocationPie(holdings, []string{"bond_type"}, "current_value")

		if want := []string{"M", "Z"}; !reflect.DeepEqual(got.Labels, want) {
			t.Errorf("Labels = %v, want %v", got.Labels, want)
		}
	})

	t.Run("maturity year and nominal value", func(t *testing.T) {
		h := typed("EDO", "")
		h.Quantity = decimal.NewFromInt(3)
		maturity := time.Date(2034, 5, 1, 0, 0, 0, 0, time.UTC)
		h.MaturityDate = &maturity

		got := analytics.AllocationPie([]model.HoldingView{h}, []string{"maturity_year"}, "nominal")

		if want := []string{"2034"}; !reflect.DeepEqual(got.Labels, want) {
			t.Errorf("Labels = %v, want %v", got.Labels, want)
		}
		if want := []float64{300}; !reflect.DeepEqual(got.Values, want) {
			t.Errorf("Values = %v, want %v", got.Values, want)
		}
	})
}

func TestAllocationPie_EmptyOrUnusable(t *testing.T) {
	cases := map[string]struct {
		holdings   []model.HoldingView
		candidates []string
		value      string
	}{
		"no holdings":        {nil, []string{"bond_type"}, "current_value"},
		"no known group":     {[]model.HoldingView{typed("EDO", "1")}, []string{"colour"}, "current_value"},
		"unknown value name": {[]model.HoldingView{typed("EDO", "1")}, []string{"bond_type"}, "weight"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := analytics.AllocationPie(tc.holdings, tc.candidates, tc.value)
			if got.Labels == nil || got.Values == nil {
				t.Fatalf("Expected non-nil empty slices, got %+v", got)
			}
			if len(got.Labels) != 0 || len(got.Values) != 0 {
				t.Errorf("Expected empty output, got %+v", got)
			}
		})
	}
}
