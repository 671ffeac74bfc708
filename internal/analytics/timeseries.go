package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
)

type dayTotals struct {
	date     time.Time
	value    decimal.Decimal
	invested decimal.Decimal
}

// CurrentValueTimeseries sums current value and invested capital per
// purchase date and lays the sums onto a calendar grid of frequency f.
//
// Each grid point carries the totals of the latest purchase date on or
// before it. Totals are not accumulated across dates; a gap simply repeats
// the last known snapshot.
func CurrentValueTimeseries(holdings []model.HoldingView, f Frequency) model.Timeseries {
	out := model.Timeseries{Labels: []string{}, Values: []float64{}, Costs: []float64{}}

	days := groupByPurchaseDate(holdings)
	if len(days) == 0 {
		return out
	}

	i := 0
	for _, point := range grid(f, days[0].date, days[len(days)-1].date) {
		for i+1 < len(days) && !days[i+1].date.After(point) {
			i++
		}
		out.Labels = append(out.Labels, point.Format("2006-01-02"))
		out.Values = append(out.Values, round2(days[i].value))
		out.Costs = append(out.Costs, round2(days[i].invested))
	}
	return out
}

// ValueSeries is the daily current-value line as dated points, used where a
// series is needed instead of chart labels.
func ValueSeries(holdings []model.HoldingView) []model.ValuePoint {
	days := groupByPurchaseDate(holdings)
	points := make([]model.ValuePoint, 0, len(days))
	for _, d := range days {
		points = append(points, model.ValuePoint{Date: d.date, Value: d.value})
	}
	return points
}

func groupByPurchaseDate(holdings []model.HoldingView) []dayTotals {
	byDate := make(map[time.Time]*dayTotals)
	for _, h := range holdings {
		if h.PurchaseDate.IsZero() {
			continue
		}
		d := dateOnly(h.PurchaseDate)
		t, ok := byDate[d]
		if !ok {
			t = &dayTotals{date: d, value: decimal.Zero, invested: decimal.Zero}
			byDate[d] = t
		}
		t.value = t.value.Add(h.CurrentValueOrZero())
		t.invested = t.invested.Add(h.InvestedValue())
	}

	days := make([]dayTotals, 0, len(byDate))
	for _, t := range byDate {
		days = append(days, *t)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].date.Before(days[j].date) })
	return days
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
