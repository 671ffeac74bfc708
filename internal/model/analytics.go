package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuePoint is one dated observation of a series, e.g. a CPI reading or a
// portfolio valuation.
type ValuePoint struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// Timeseries is chart-ready output. Labels are ISO dates; Values and Costs
// have the same length as Labels and are rounded to 2 decimals.
type Timeseries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Costs  []float64 `json:"costs"`
}

// PieData is chart-ready allocation output, largest slice first.
type PieData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// InflationPoint compares portfolio growth against CPI for one month end.
type InflationPoint struct {
	Date         string  `json:"date"`
	PortfolioYoY float64 `json:"portfolioYoy"`
	CPIYoY       float64 `json:"cpiYoy"`
}

// MaturityEvent is one bond redemption on the calendar.
type MaturityEvent struct {
	Date         string          `json:"date"`
	ISIN         string          `json:"isin"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	NominalValue decimal.Decimal `json:"nominalValue"`
	Redemption   decimal.Decimal `json:"redemption"` // quantity times nominal value
}
