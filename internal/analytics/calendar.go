package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
)

// MaturityCalendar lists upcoming redemptions, one event per bond and
// maturity date, summed over lots. Holdings without a maturity date or
// maturing before from are left out; a zero from keeps everything.
func MaturityCalendar(holdings []model.HoldingView, from time.Time) []model.MaturityEvent {
	type key struct {
		date string
		isin string
	}

	events := make(map[key]*model.MaturityEvent)
	for _, h := range holdings {
		if h.MaturityDate == nil {
			continue
		}
		if !from.IsZero() && dateOnly(*h.MaturityDate).Before(dateOnly(from)) {
			continue
		}

		k := key{date: h.MaturityDate.Format("2006-01-02"), isin: h.ISIN}
		e, ok := events[k]
		if !ok {
			e = &model.MaturityEvent{
				Date:         k.date,
				ISIN:         h.ISIN,
				Name:         h.Name,
				Quantity:     decimal.Zero,
				NominalValue: h.NominalValue,
				Redemption:   decimal.Zero,
			}
			events[k] = e
		}
		e.Quantity = e.Quantity.Add(h.Quantity)
		e.Redemption = e.Redemption.Add(h.Quantity.Mul(h.NominalValue))
	}

	out := make([]model.MaturityEvent, 0, len(events))
	for _, e := range events {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ISIN < out[j].ISIN
	})
	return out
}
