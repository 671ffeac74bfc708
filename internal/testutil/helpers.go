package testutil

import (
	"database/sql"
	"fmt"
	"io"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/inflation"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/service"
)

// DefaultPortfolioName is the name tests expect for auto-created portfolios.
const DefaultPortfolioName = "Główny Portfel"

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

func NewTestBondService(t *testing.T, db *sql.DB, opts ...service.BondOption) *service.BondService {
	t.Helper()
	return service.NewBondService(repository.NewBondRepository(db), opts...)
}

func NewTestHoldingService(t *testing.T, db *sql.DB) *service.HoldingService {
	t.Helper()
	return service.NewHoldingService(
		db,
		repository.NewHoldingRepository(db),
		repository.NewTransactionRepository(db),
	)
}

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()
	return service.NewTransactionService(
		repository.NewTransactionRepository(db),
		repository.NewPortfolioRepository(db),
		repository.NewBondRepository(db),
	)
}

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()
	return service.NewPortfolioService(
		repository.NewPortfolioRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewHistoryRepository(db),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db, map[string]bool{"inflation": false})
}

func NewTestSnapshotService(t *testing.T, db *sql.DB) *service.SnapshotService {
	t.Helper()
	return service.NewSnapshotService(
		repository.NewPortfolioRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewHistoryRepository(db),
		DiscardLogger(),
	)
}

// NewTestAnalyticsService builds an AnalyticsService; cpi may be nil.
func NewTestAnalyticsService(t *testing.T, db *sql.DB, cpi inflation.Source) *service.AnalyticsService {
	t.Helper()
	return service.NewAnalyticsService(
		repository.NewPortfolioRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewHistoryRepository(db),
		cpi,
	)
}

// NewTestImportService wires the full import pipeline against db.
func NewTestImportService(t *testing.T, db *sql.DB, opts ...service.BondOption) *service.ImportService {
	t.Helper()
	return service.NewImportService(
		db,
		repository.NewPortfolioRepository(db),
		NewTestBondService(t, db, opts...),
		NewTestHoldingService(t, db),
		NewTestTransactionService(t, db),
		service.ImportDefaults{Owner: "default", PortfolioName: DefaultPortfolioName},
		DiscardLogger(),
	)
}

// MakeID returns a new random UUID string.
func MakeID() string {
	return uuid.New().String()
}

// MakeISIN returns a random Polish-looking ISIN. Uniqueness across a test run
// is probabilistic, which is enough for independent test databases.
func MakeISIN() string {
	return fmt.Sprintf("PL%010d", rand.IntN(10_000_000_000))
}

// MakePortfolioName appends a random suffix to prefix.
func MakePortfolioName(prefix string) string {
	return fmt.Sprintf("%s %d", prefix, rand.IntN(1_000_000))
}

// MustDate parses a YYYY-MM-DD date or panics.
func MustDate(s string) time.Time {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

// CountRows counts rows of table matching the optional where clause.
//
// Example:
//
//	n := testutil.CountRows(t, db, "holding", "portfolio_id = ?", portfolio.ID)
func CountRows(t *testing.T, db *sql.DB, table, where string, args ...any) int {
	t.Helper()

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %q`, table)
	if where != "" {
		query += " WHERE " + where
	}

	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
