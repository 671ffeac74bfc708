// Package inflation fetches consumer price index readings used to compare
// portfolio growth against inflation.
package inflation

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
)

// Source provides CPI year-over-year readings in percent, oldest first.
type Source interface {
	Series(ctx context.Context) ([]model.ValuePoint, error)
}

// reading is the wire form served by the CPI endpoint:
//
//	[{"date": "2024-01-01", "value": 3.7}, ...]
type reading struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// HTTPSource reads CPI readings from a JSON endpoint.
type HTTPSource struct {
	client *resty.Client
	url    string
}

// NewHTTPSource creates a source for url with the given request timeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &HTTPSource{client: client, url: url}
}

// Series downloads and decodes the CPI series.
// Any transport, status or decoding failure wraps apperrors.ErrInflationUnavailable.
func (s *HTTPSource) Series(ctx context.Context) ([]model.ValuePoint, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInflationUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: unexpected status %d", apperrors.ErrInflationUnavailable, resp.StatusCode())
	}

	var readings []reading
	if err := json.Unmarshal(resp.Body(), &readings); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", apperrors.ErrInflationUnavailable, err)
	}

	points := make([]model.ValuePoint, 0, len(readings))
	for _, r := range readings {
		date, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date %q", apperrors.ErrInflationUnavailable, r.Date)
		}
		points = append(points, model.ValuePoint{Date: date, Value: r.Value})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	return points, nil
}
