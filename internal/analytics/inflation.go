package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
)

// yoyLag is the number of month ends between compared observations.
const yoyLag = 12

var hundred = decimal.NewFromInt(100)

// CompareWithInflation puts the year-over-year change of a portfolio value
// series next to CPI year-over-year readings.
//
// The portfolio series is reduced to the last observation of every month,
// gaps between months are carried forward, and each month is compared with
// the same month a year earlier. Only months present in both the portfolio
// result and the CPI series are returned, oldest first.
func CompareWithInflation(portfolio, cpi []model.ValuePoint) []model.InflationPoint {
	out := []model.InflationPoint{}

	months := monthlyLast(portfolio)
	if len(months) <= yoyLag {
		return out
	}
	cpiByMonth := lastPerMonth(cpi)

	for i := yoyLag; i < len(months); i++ {
		base := months[i-yoyLag].Value
		if base.IsZero() {
			continue
		}
		cpiValue, ok := cpiByMonth[months[i].Date]
		if !ok {
			continue
		}
		yoy := months[i].Value.Div(base).Sub(decimal.NewFromInt(1)).Mul(hundred)
		out = append(out, model.InflationPoint{
			Date:         months[i].Date.Format("2006-01-02"),
			PortfolioYoY: round2(yoy),
			CPIYoY:       round2(cpiValue),
		})
	}
	return out
}

// lastPerMonth keys the last observation of each month by its month end.
func lastPerMonth(points []model.ValuePoint) map[time.Time]decimal.Decimal {
	sorted := make([]model.ValuePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	last := make(map[time.Time]decimal.Decimal, len(sorted))
	for _, p := range sorted {
		last[monthEnd(p.Date)] = p.Value
	}
	return last
}

// monthlyLast returns one point per month end from the first to the last
// month of points, holding the last observation of that month. Months
// without an observation repeat the previous month.
func monthlyLast(points []model.ValuePoint) []model.ValuePoint {
	if len(points) == 0 {
		return nil
	}

	last := lastPerMonth(points)

	first, final := points[0].Date, points[0].Date
	for _, p := range points[1:] {
		if p.Date.Before(first) {
			first = p.Date
		}
		if p.Date.After(final) {
			final = p.Date
		}
	}

	out := []model.ValuePoint{}
	var carry decimal.Decimal
	for m := monthEnd(first); !m.After(monthEnd(final)); m = monthEnd(m.AddDate(0, 0, 1)) {
		if v, ok := last[m]; ok {
			carry = v
		}
		out = append(out, model.ValuePoint{Date: m, Value: carry})
	}
	return out
}
