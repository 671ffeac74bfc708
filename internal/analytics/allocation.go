package analytics

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
)

// OtherLabel collects holdings whose grouping attribute is empty.
const OtherLabel = "Inne"

// DefaultGroupBy is tried in order when a caller names no grouping.
var DefaultGroupBy = []string{"bond_type", "series", "issuer"}

// groupers maps a grouping column name to the attribute it reads.
// An empty result means the attribute is missing for that holding.
var groupers = map[string]func(model.HoldingView) string{
	"bond_type": func(h model.HoldingView) string { return deref(h.BondType) },
	"series":    func(h model.HoldingView) string { return deref(h.Series) },
	"issuer":    func(h model.HoldingView) string { return h.Issuer },
	"isin":      func(h model.HoldingView) string { return h.ISIN },
	"name":      func(h model.HoldingView) string { return h.Name },
	"maturity_year": func(h model.HoldingView) string {
		if h.MaturityDate == nil {
			return ""
		}
		return strconv.Itoa(h.MaturityDate.Year())
	},
}

// valuers maps a value column name to the amount summed per group.
var valuers = map[string]func(model.HoldingView) decimal.Decimal{
	"current_value": model.HoldingView.CurrentValueOrZero,
	"invested":      model.HoldingView.InvestedValue,
	"quantity":      func(h model.HoldingView) decimal.Decimal { return h.Quantity },
	"nominal": func(h model.HoldingView) decimal.Decimal {
		return h.Quantity.Mul(h.NominalValue)
	},
}

// IsGroupColumn reports whether name can be used as a grouping column.
func IsGroupColumn(name string) bool {
	_, ok := groupers[name]
	return ok
}

// IsValueColumn reports whether name can be used as a value column.
func IsValueColumn(name string) bool {
	_, ok := valuers[name]
	return ok
}

// AllocationPie groups holdings by the first known column in candidates and
// sums valueColumn per group, largest group first. Groups with equal sums
// are ordered by label.
func AllocationPie(holdings []model.HoldingView, candidates []string, valueColumn string) model.PieData {
	out := model.PieData{Labels: []string{}, Values: []float64{}}
	if len(holdings) == 0 {
		return out
	}

	var groupOf func(model.HoldingView) string
	for _, c := range candidates {
		if g, ok := groupers[c]; ok {
			groupOf = g
			break
		}
	}
	valueOf, ok := valuers[valueColumn]
	if groupOf == nil || !ok {
		return out
	}

	sums := make(map[string]decimal.Decimal)
	for _, h := range holdings {
		label := groupOf(h)
		if label == "" {
			label = OtherLabel
		}
		sums[label] = sums[label].Add(valueOf(h))
	}

	labels := make([]string, 0, len(sums))
	for label := range sums {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if c := sums[labels[i]].Cmp(sums[labels[j]]); c != 0 {
			return c > 0
		}
		return labels[i] < labels[j]
	})

	for _, label := range labels {
		out.Labels = append(out.Labels, label)
		out.Values = append(out.Values, round2(sums[label]))
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
