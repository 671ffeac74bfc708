package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/importer"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/repository"
)

// ImportDefaults names the portfolio used when an upload does not target one.
type ImportDefaults struct {
	Owner         string
	PortfolioName string
}

// ImportService drives a CSV batch through normalization, duplicate
// filtering, bond resolution, lot aggregation and ledger recording.
//
// A batch runs in two phases. Validate parses every row and filters known
// references without writing anything. Only a clean batch reaches the commit
// phase, which applies all rows inside one database transaction and rolls
// the whole batch back if any row fails there.
type ImportService struct {
	db                 *sql.DB
	portfolioRepo      *repository.PortfolioRepository
	bondService        *BondService
	holdingService     *HoldingService
	transactionService *TransactionService
	defaults           ImportDefaults
	logger             *log.Logger
}

// NewImportService creates a new ImportService with the provided dependencies.
func NewImportService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	bondService *BondService,
	holdingService *HoldingService,
	transactionService *TransactionService,
	defaults ImportDefaults,
	logger *log.Logger,
) *ImportService {
	return &ImportService{
		db:                 db,
		portfolioRepo:      portfolioRepo,
		bondService:        bondService,
		holdingService:     holdingService,
		transactionService: transactionService,
		defaults:           defaults,
		logger:             logger.WithPrefix("import"),
	}
}

// ImportPlan is the outcome of the validation phase.
type ImportPlan struct {
	Portfolio model.Portfolio
	Exists    bool // false when the default portfolio still has to be created
	Rows      []model.ParsedRow
	Skipped   int
	Errors    []string
}

// ImportCSV decodes an uploaded file and imports its rows.
// Decoding problems are batch-level errors; row problems are reported in the
// result.
func (s *ImportService) ImportCSV(ctx context.Context, data []byte, req request.ImportRequest) (*model.ImportResult, error) {
	sheet, err := importer.Read(data)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, apperrors.ErrEmptyCSV
	}

	s.logger.Debug("csv decoded", "encoding", sheet.Encoding, "rows", len(sheet.Rows))
	return s.Import(ctx, sheet.Rows, req)
}

// Import runs both phases over already-decoded rows.
func (s *ImportService) Import(ctx context.Context, rows []importer.Row, req request.ImportRequest) (*model.ImportResult, error) {
	plan, err := s.Validate(ctx, rows, req)
	if err != nil {
		return nil, err
	}

	result := &model.ImportResult{
		Skipped: plan.Skipped,
		Errors:  plan.Errors,
		DryRun:  req.DryRun,
	}
	// A default portfolio that is not saved yet has no ID to report.
	if plan.Exists {
		result.PortfolioID = plan.Portfolio.ID
	}

	if len(plan.Errors) > 0 {
		s.logResult(result)
		return result, nil
	}

	if req.DryRun {
		result.Imported = len(plan.Rows)
		s.logResult(result)
		return result, nil
	}

	if len(plan.Rows) == 0 {
		s.logResult(result)
		return result, nil
	}

	if err := s.Commit(ctx, plan, result); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToImport, err)
	}

	s.logResult(result)
	return result, nil
}

// Validate parses every row and drops rows whose reference is already in the
// ledger or earlier in the same batch. It performs no writes.
func (s *ImportService) Validate(ctx context.Context, rows []importer.Row, req request.ImportRequest) (*ImportPlan, error) {
	plan := &ImportPlan{
		Rows:   []model.ParsedRow{},
		Errors: []string{},
	}

	owner := firstNonEmpty(req.Owner, s.defaults.Owner)
	portfolio, exists, err := s.targetPortfolio(ctx, owner, req.PortfolioID)
	if err != nil {
		return nil, err
	}
	plan.Portfolio = portfolio
	plan.Exists = exists

	seen := make(map[string]struct{})
	for i, raw := range rows {
		parsed, err := importer.ParseRow(i, raw)
		if err != nil {
			plan.Errors = append(plan.Errors, rowError(i, err))
			continue
		}

		if ref := parsed.Reference; ref != "" {
			if _, dup := seen[ref]; dup {
				plan.Skipped++
				continue
			}
			seen[ref] = struct{}{}

			if exists {
				dup, err := s.transactionService.IsDuplicate(ctx, portfolio.ID, ref)
				if err != nil {
					return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToImport, err)
				}
				if dup {
					plan.Skipped++
					continue
				}
			}
		}

		plan.Rows = append(plan.Rows, parsed)
	}

	return plan, nil
}

// Commit applies a clean plan in one transaction. Row failures are collected
// into result.Errors and roll the whole batch back; the returned error is
// reserved for batch-level failures such as a failed commit.
func (s *ImportService) Commit(ctx context.Context, plan *ImportPlan, result *model.ImportResult) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.Error("failed to rollback import", "err", rbErr)
		}
	}()

	portfolio := plan.Portfolio
	if !plan.Exists {
		portfolio.CreatedAt = time.Now().UTC()
		if err := s.portfolioRepo.WithTx(tx).InsertPortfolio(ctx, &portfolio); err != nil {
			return fmt.Errorf("create default portfolio: %w", err)
		}
		s.logger.Info("created default portfolio", "portfolio_id", portfolio.ID, "owner", portfolio.Owner)
	}

	bonds := s.bondService.WithTx(tx)
	holdings := s.holdingService.WithTx(tx)
	ledger := s.transactionService.WithTx(tx)

	imported := 0
	rowErrors := []string{}
	for _, row := range plan.Rows {
		dup, err := ledger.IsDuplicate(ctx, portfolio.ID, row.Reference)
		if err != nil {
			rowErrors = append(rowErrors, rowError(row.Index, err))
			continue
		}
		if dup {
			result.Skipped++
			continue
		}

		if err := applyRow(ctx, bonds, holdings, ledger, portfolio.ID, row); err != nil {
			rowErrors = append(rowErrors, rowError(row.Index, err))
			continue
		}
		imported++
	}

	if len(rowErrors) > 0 {
		result.Imported = 0
		result.Errors = rowErrors
		return nil
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true

	result.PortfolioID = portfolio.ID
	result.Imported = imported
	return nil
}

func applyRow(
	ctx context.Context,
	bonds *BondService,
	holdings *HoldingService,
	ledger *TransactionService,
	portfolioID string,
	row model.ParsedRow,
) error {
	bond, err := bonds.Resolve(ctx, row.ISIN, row)
	if err != nil {
		return err
	}
	if _, err := holdings.Upsert(ctx, portfolioID, bond.ID, row); err != nil {
		return err
	}
	if _, err := ledger.Record(ctx, portfolioID, bond.ID, row); err != nil {
		return err
	}
	return nil
}

// targetPortfolio finds the portfolio an upload goes into without writing.
// When the owner has no portfolio yet, an unsaved default is returned with
// exists=false.
func (s *ImportService) targetPortfolio(ctx context.Context, owner, portfolioID string) (model.Portfolio, bool, error) {
	if portfolioID != "" {
		p, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID)
		if err != nil {
			return model.Portfolio{}, false, err
		}
		return p, true, nil
	}

	p, err := s.portfolioRepo.GetDefaultPortfolio(ctx, owner)
	if err == nil {
		return p, true, nil
	}
	if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
		return model.Portfolio{}, false, err
	}

	return model.Portfolio{
		ID:          uuid.New().String(),
		Owner:       owner,
		Name:        s.defaults.PortfolioName,
		CashBalance: decimal.Zero,
	}, false, nil
}

func (s *ImportService) logResult(result *model.ImportResult) {
	for _, e := range result.Errors {
		s.logger.Debug("row rejected", "portfolio_id", result.PortfolioID, "error", e)
	}
	s.logger.Info("import finished",
		"portfolio_id", result.PortfolioID,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
		"dry_run", result.DryRun,
	)
}

func rowError(index int, err error) string {
	return fmt.Sprintf("row %d: %v", index, err)
}
