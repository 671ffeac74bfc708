package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/analytics"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/inflation"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/repository"
)

// DefaultValueColumn is summed by Allocation when the caller names none.
const DefaultValueColumn = "current_value"

// AnalyticsService loads a portfolio's holdings snapshot and hands it to the
// chart builders in package analytics.
type AnalyticsService struct {
	portfolioRepo *repository.PortfolioRepository
	holdingRepo   *repository.HoldingRepository
	historyRepo   *repository.HistoryRepository
	cpi           inflation.Source
}

// NewAnalyticsService creates a new AnalyticsService.
// cpi may be nil, in which case InflationComparison reports the data as unavailable.
func NewAnalyticsService(
	portfolioRepo *repository.PortfolioRepository,
	holdingRepo *repository.HoldingRepository,
	historyRepo *repository.HistoryRepository,
	cpi inflation.Source,
) *AnalyticsService {
	return &AnalyticsService{
		portfolioRepo: portfolioRepo,
		holdingRepo:   holdingRepo,
		historyRepo:   historyRepo,
		cpi:           cpi,
	}
}

func (s *AnalyticsService) snapshot(ctx context.Context, portfolioID string) ([]model.HoldingView, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return nil, err
	}
	return s.holdingRepo.GetHoldingViews(ctx, portfolioID)
}

// ValueTimeseries builds the value-over-time chart at frequency freq (D, W, M or Q).
func (s *AnalyticsService) ValueTimeseries(ctx context.Context, portfolioID, freq string) (model.Timeseries, error) {
	f, err := analytics.ParseFrequency(freq)
	if err != nil {
		return model.Timeseries{}, err
	}

	holdings, err := s.snapshot(ctx, portfolioID)
	if err != nil {
		return model.Timeseries{}, err
	}
	return analytics.CurrentValueTimeseries(holdings, f), nil
}

// Allocation builds the allocation pie. groupBy is a comma separated list of
// candidate grouping columns tried in order.
func (s *AnalyticsService) Allocation(ctx context.Context, portfolioID, groupBy, valueColumn string) (model.PieData, error) {
	holdings, err := s.snapshot(ctx, portfolioID)
	if err != nil {
		return model.PieData{}, err
	}

	candidates := analytics.DefaultGroupBy
	if groupBy != "" {
		candidates = splitList(groupBy)
	}
	if valueColumn == "" {
		valueColumn = DefaultValueColumn
	}

	return analytics.AllocationPie(holdings, candidates, valueColumn), nil
}

// MaturityCalendar lists redemptions on or after from.
func (s *AnalyticsService) MaturityCalendar(ctx context.Context, portfolioID string, from time.Time) ([]model.MaturityEvent, error) {
	holdings, err := s.snapshot(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	return analytics.MaturityCalendar(holdings, from), nil
}

// InflationComparison compares the portfolio's yearly growth with CPI.
//
// Stored valuation snapshots are preferred as the portfolio series. A
// portfolio without snapshots falls back to the purchase-date value series.
// The portfolio data and the CPI series are loaded concurrently.
func (s *AnalyticsService) InflationComparison(ctx context.Context, portfolioID string) ([]model.InflationPoint, error) {
	if s.cpi == nil {
		return nil, apperrors.ErrInflationUnavailable
	}
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return nil, err
	}

	var series, cpi []model.ValuePoint
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		series, err = s.portfolioSeries(gctx, portfolioID)
		return err
	})
	g.Go(func() error {
		var err error
		cpi, err = s.cpi.Series(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return analytics.CompareWithInflation(series, cpi), nil
}

func (s *AnalyticsService) portfolioSeries(ctx context.Context, portfolioID string) ([]model.ValuePoint, error) {
	history, err := s.historyRepo.GetHistory(ctx, portfolioID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	if len(history) > 0 {
		points := make([]model.ValuePoint, 0, len(history))
		for _, h := range history {
			points = append(points, model.ValuePoint{Date: h.Date, Value: h.TotalValue})
		}
		return points, nil
	}

	holdings, err := s.holdingRepo.GetHoldingViews(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	return analytics.ValueSeries(holdings), nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
