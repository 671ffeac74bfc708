package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/validation"
)

// PortfolioService handles portfolio-related business logic operations.
// It reads holdings through the bond join so callers get one snapshot row per
// lot, and derives summary totals from that snapshot.
type PortfolioService struct {
	portfolioRepo *repository.PortfolioRepository
	holdingRepo   *repository.HoldingRepository
	historyRepo   *repository.HistoryRepository
}

// NewPortfolioService creates a new PortfolioService with the provided repository dependencies.
func NewPortfolioService(
	portfolioRepo *repository.PortfolioRepository,
	holdingRepo *repository.HoldingRepository,
	historyRepo *repository.HistoryRepository,
) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
		holdingRepo:   holdingRepo,
		historyRepo:   historyRepo,
	}
}

// GetPortfolios lists portfolios, restricted to one owner when owner is set.
func (s *PortfolioService) GetPortfolios(ctx context.Context, owner string) ([]model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolios(ctx, owner)
}

// GetPortfolio retrieves a single portfolio by ID.
// Returns apperrors.ErrPortfolioNotFound if it does not exist.
func (s *PortfolioService) GetPortfolio(ctx context.Context, portfolioID string) (model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID)
}

// CreatePortfolio validates and inserts a new portfolio.
func (s *PortfolioService) CreatePortfolio(ctx context.Context, req request.CreatePortfolioRequest) (model.Portfolio, error) {
	if err := validation.ValidateCreatePortfolio(req); err != nil {
		return model.Portfolio{}, err
	}

	cash := decimal.Zero
	if req.CashBalance != "" {
		// already validated
		cash, _ = decimal.NewFromString(req.CashBalance)
	}

	p := model.Portfolio{
		ID:          uuid.New().String(),
		Owner:       strings.TrimSpace(req.Owner),
		Name:        strings.TrimSpace(req.Name),
		CashBalance: cash,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.portfolioRepo.InsertPortfolio(ctx, &p); err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to create portfolio: %w", err)
	}
	return p, nil
}

// DeletePortfolio removes a portfolio. Holdings, transactions and history
// rows go with it through the foreign key cascade.
func (s *PortfolioService) DeletePortfolio(ctx context.Context, portfolioID string) error {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return err
	}
	return s.portfolioRepo.DeletePortfolio(ctx, portfolioID)
}

// GetHoldings returns the holdings snapshot of a portfolio.
func (s *PortfolioService) GetHoldings(ctx context.Context, portfolioID string) ([]model.HoldingView, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return nil, err
	}
	return s.holdingRepo.GetHoldingViews(ctx, portfolioID)
}

// GetPortfolioSummary returns the portfolio together with totals over its lots.
// Lots without a current value count as zero.
func (s *PortfolioService) GetPortfolioSummary(ctx context.Context, portfolioID string) (model.PortfolioSummary, error) {
	p, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID)
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	views, err := s.holdingRepo.GetHoldingViews(ctx, portfolioID)
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	summary := model.PortfolioSummary{
		Portfolio:     p,
		HoldingCount:  len(views),
		TotalQuantity: decimal.Zero,
		InvestedValue: decimal.Zero,
		CurrentValue:  decimal.Zero,
	}
	for _, v := range views {
		summary.TotalQuantity = summary.TotalQuantity.Add(v.Quantity)
		summary.InvestedValue = summary.InvestedValue.Add(v.InvestedValue())
		summary.CurrentValue = summary.CurrentValue.Add(v.CurrentValueOrZero())
	}
	summary.TotalValue = summary.CurrentValue.Add(p.CashBalance)

	return summary, nil
}

// GetHistory returns stored valuation snapshots in date order.
// Zero start or end dates leave that side of the range open.
func (s *PortfolioService) GetHistory(ctx context.Context, portfolioID string, start, end time.Time) ([]model.PortfolioHistory, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return nil, err
	}
	return s.historyRepo.GetHistory(ctx, portfolioID, start, end)
}
