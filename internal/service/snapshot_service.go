package service

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/repository"
)

// SnapshotService writes one valuation row per portfolio and date into
// portfolio_history. Re-running it for the same date overwrites that row.
type SnapshotService struct {
	portfolioRepo *repository.PortfolioRepository
	holdingRepo   *repository.HoldingRepository
	historyRepo   *repository.HistoryRepository
	logger        *log.Logger
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(
	portfolioRepo *repository.PortfolioRepository,
	holdingRepo *repository.HoldingRepository,
	historyRepo *repository.HistoryRepository,
	logger *log.Logger,
) *SnapshotService {
	return &SnapshotService{
		portfolioRepo: portfolioRepo,
		holdingRepo:   holdingRepo,
		historyRepo:   historyRepo,
		logger:        logger.WithPrefix("snapshot"),
	}
}

// TakeSnapshot values every portfolio as of on and returns how many rows
// were written. Bond value is the sum of current values; lots without one
// count as zero.
func (s *SnapshotService) TakeSnapshot(ctx context.Context, on time.Time) (int, error) {
	portfolios, err := s.portfolioRepo.GetPortfolios(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("failed to list portfolios: %w", err)
	}

	date := time.Date(on.Year(), on.Month(), on.Day(), 0, 0, 0, 0, time.UTC)
	written := 0
	for _, p := range portfolios {
		h, err := s.value(ctx, p, date)
		if err != nil {
			return written, fmt.Errorf("portfolio %s: %w", p.ID, err)
		}
		if err := s.historyRepo.UpsertHistory(ctx, &h); err != nil {
			return written, fmt.Errorf("portfolio %s: %w", p.ID, err)
		}
		written++
	}

	s.logger.Info("snapshot taken", "date", date.Format("2006-01-02"), "portfolios", written)
	return written, nil
}

func (s *SnapshotService) value(ctx context.Context, p model.Portfolio, date time.Time) (model.PortfolioHistory, error) {
	views, err := s.holdingRepo.GetHoldingViews(ctx, p.ID)
	if err != nil {
		return model.PortfolioHistory{}, err
	}

	bonds := decimal.Zero
	for _, v := range views {
		bonds = bonds.Add(v.CurrentValueOrZero())
	}

	return model.PortfolioHistory{
		PortfolioID: p.ID,
		Date:        date,
		BondValue:   bonds,
		CashValue:   p.CashBalance,
		TotalValue:  bonds.Add(p.CashBalance),
		CreatedAt:   time.Now().UTC(),
	}, nil
}
