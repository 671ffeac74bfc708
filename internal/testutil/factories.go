package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, db)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    WithOwner("anna").
//	    WithName("IKE").
//	    WithCash("250.00").
//	    Build(t, db)
type PortfolioBuilder struct {
	ID          string
	Owner       string
	Name        string
	CashBalance decimal.Decimal
	CreatedAt   time.Time
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:          MakeID(),
		Owner:       "default",
		Name:        MakePortfolioName("Test Portfolio"),
		CashBalance: decimal.Zero,
		CreatedAt:   time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *PortfolioBuilder) WithID(id string) *PortfolioBuilder {
	b.ID = id
	return b
}

// WithOwner sets the owning user.
func (b *PortfolioBuilder) WithOwner(owner string) *PortfolioBuilder {
	b.Owner = owner
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// WithCash sets the cash balance.
func (b *PortfolioBuilder) WithCash(amount string) *PortfolioBuilder {
	b.CashBalance = decimal.RequireFromString(amount)
	return b
}

// WithCreatedAt sets the creation time, which decides the default portfolio.
func (b *PortfolioBuilder) WithCreatedAt(t time.Time) *PortfolioBuilder {
	b.CreatedAt = t
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	query := `
		INSERT INTO portfolio (id, owner, name, cash_balance, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Owner, b.Name, b.CashBalance.String(), b.CreatedAt.Format(timestampLayout))
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		ID:          b.ID,
		Owner:       b.Owner,
		Name:        b.Name,
		CashBalance: b.CashBalance,
		CreatedAt:   b.CreatedAt,
	}
}

// BondBuilder provides a fluent interface for creating bond definitions.
//
// Example usage:
//
//	bond := testutil.NewBond().WithSeries("EDO0534").WithCoupon("0.0325").Build(t, db)
type BondBuilder struct {
	ID           string
	ISIN         string
	Name         string
	Issuer       string
	Series       string
	BondType     string
	MaturityDate *time.Time
	CouponRate   decimal.NullDecimal
	NominalValue decimal.Decimal
}

// NewBond creates a BondBuilder with a random ISIN and treasury defaults.
func NewBond() *BondBuilder {
	isin := MakeISIN()
	return &BondBuilder{
		ID:           MakeID(),
		ISIN:         isin,
		Name:         isin,
		Issuer:       "Skarb Państwa",
		NominalValue: decimal.NewFromInt(100),
	}
}

// WithISIN sets the ISIN.
func (b *BondBuilder) WithISIN(isin string) *BondBuilder {
	b.ISIN = isin
	return b
}

// WithSeries sets the series and uses it as the name.
func (b *BondBuilder) WithSeries(series string) *BondBuilder {
	b.Series = series
	b.Name = series
	return b
}

// WithBondType sets the bond type, e.g. EDO or COI.
func (b *BondBuilder) WithBondType(bondType string) *BondBuilder {
	b.BondType = bondType
	return b
}

// WithMaturity sets the maturity date (YYYY-MM-DD).
func (b *BondBuilder) WithMaturity(date string) *BondBuilder {
	d := MustDate(date)
	b.MaturityDate = &d
	return b
}

// WithCoupon sets the fractional coupon rate.
func (b *BondBuilder) WithCoupon(rate string) *BondBuilder {
	b.CouponRate = decimal.NewNullDecimal(decimal.RequireFromString(rate))
	return b
}

// Build creates the bond definition in the database and returns it.
func (b *BondBuilder) Build(t *testing.T, db *sql.DB) model.BondDefinition {
	t.Helper()

	var maturity, coupon any
	if b.MaturityDate != nil {
		maturity = b.MaturityDate.Format(dateLayout)
	}
	if b.CouponRate.Valid {
		coupon = b.CouponRate.Decimal.String()
	}

	query := `
		INSERT INTO bond_definition (
			id, isin, name, issuer, series, bond_type, maturity_date, coupon_rate, nominal_value, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.ISIN, b.Name, b.Issuer, nullable(b.Series), nullable(b.BondType),
		maturity, coupon, b.NominalValue.String(), time.Now().UTC().Format(timestampLayout),
	)
	if err != nil {
		t.Fatalf("Failed to create test bond: %v", err)
	}

	bond := model.BondDefinition{
		ID:           b.ID,
		ISIN:         b.ISIN,
		Name:         b.Name,
		Issuer:       b.Issuer,
		MaturityDate: b.MaturityDate,
		CouponRate:   b.CouponRate,
		NominalValue: b.NominalValue,
	}
	if b.Series != "" {
		bond.Series = &b.Series
	}
	if b.BondType != "" {
		bond.BondType = &b.BondType
	}
	return bond
}

// HoldingBuilder provides a fluent interface for creating lots.
//
// Example usage:
//
//	lot := testutil.NewHolding(portfolio.ID, bond.ID).
//	    WithQuantity("10").
//	    WithPrice("99.50").
//	    WithCurrentValue("1000").
//	    Build(t, db)
type HoldingBuilder struct {
	ID           string
	PortfolioID  string
	BondID       string
	Quantity     decimal.Decimal
	Price        decimal.Decimal
	Date         time.Time
	CurrentValue decimal.NullDecimal
	Reference    string
}

// NewHolding creates a HoldingBuilder for one lot of 1 bond at 100.
func NewHolding(portfolioID, bondID string) *HoldingBuilder {
	return &HoldingBuilder{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		BondID:      bondID,
		Quantity:    decimal.NewFromInt(1),
		Price:       decimal.NewFromInt(100),
		Date:        MustDate("2024-01-15"),
	}
}

// WithQuantity sets the quantity.
func (b *HoldingBuilder) WithQuantity(q string) *HoldingBuilder {
	b.Quantity = decimal.RequireFromString(q)
	return b
}

// WithPrice sets the purchase price.
func (b *HoldingBuilder) WithPrice(p string) *HoldingBuilder {
	b.Price = decimal.RequireFromString(p)
	return b
}

// WithDate sets the purchase date (YYYY-MM-DD).
func (b *HoldingBuilder) WithDate(date string) *HoldingBuilder {
	b.Date = MustDate(date)
	return b
}

// WithCurrentValue sets the current value.
func (b *HoldingBuilder) WithCurrentValue(v string) *HoldingBuilder {
	b.CurrentValue = decimal.NewNullDecimal(decimal.RequireFromString(v))
	return b
}

// WithReference sets the transaction reference.
func (b *HoldingBuilder) WithReference(ref string) *HoldingBuilder {
	b.Reference = ref
	return b
}

// Build creates the lot in the database and returns it.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	var current any
	if b.CurrentValue.Valid {
		current = b.CurrentValue.Decimal.String()
	}
	now := time.Now().UTC()

	query := `
		INSERT INTO holding (
			id, portfolio_id, bond_definition_id, quantity, purchase_price, purchase_date,
			current_value, transaction_reference, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.PortfolioID, b.BondID, b.Quantity.String(), b.Price.String(), b.Date.Format(dateLayout),
		current, nullable(b.Reference), now.Format(timestampLayout), now.Format(timestampLayout),
	)
	if err != nil {
		t.Fatalf("Failed to create test holding: %v", err)
	}

	h := model.Holding{
		ID:            b.ID,
		PortfolioID:   b.PortfolioID,
		BondID:        b.BondID,
		Quantity:      b.Quantity,
		PurchasePrice: b.Price,
		PurchaseDate:  b.Date,
		CurrentValue:  b.CurrentValue,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if b.Reference != "" {
		h.TransactionReference = &b.Reference
	}
	return h
}

// TransactionBuilder provides a fluent interface for creating ledger entries.
type TransactionBuilder struct {
	ID          string
	PortfolioID string
	BondID      string
	Type        model.TransactionType
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	Date        time.Time
	Reference   string
}

// NewTransaction creates a TransactionBuilder for a BUY of 1 at 100.
func NewTransaction(portfolioID, bondID string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		BondID:      bondID,
		Type:        model.TransactionTypeBuy,
		Quantity:    decimal.NewFromInt(1),
		Price:       decimal.NewFromInt(100),
		Date:        MustDate("2024-01-15"),
	}
}

// WithType sets the transaction type.
func (b *TransactionBuilder) WithType(typ model.TransactionType) *TransactionBuilder {
	b.Type = typ
	return b
}

// WithQuantity sets the quantity.
func (b *TransactionBuilder) WithQuantity(q string) *TransactionBuilder {
	b.Quantity = decimal.RequireFromString(q)
	return b
}

// WithPrice sets the price.
func (b *TransactionBuilder) WithPrice(p string) *TransactionBuilder {
	b.Price = decimal.RequireFromString(p)
	return b
}

// WithDate sets the date (YYYY-MM-DD).
func (b *TransactionBuilder) WithDate(date string) *TransactionBuilder {
	b.Date = MustDate(date)
	return b
}

// WithReference sets the reference.
func (b *TransactionBuilder) WithReference(ref string) *TransactionBuilder {
	b.Reference = ref
	return b
}

// Build creates the ledger entry in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	now := time.Now().UTC()
	query := `
		INSERT INTO "transaction" (
			id, portfolio_id, bond_definition_id, type, quantity, price, date, fees, reference, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, '0', ?, NULL, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.PortfolioID, b.BondID, string(b.Type), b.Quantity.String(), b.Price.String(),
		b.Date.Format(dateLayout), nullable(b.Reference), now.Format(timestampLayout),
	)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	tx := model.Transaction{
		ID:          b.ID,
		PortfolioID: b.PortfolioID,
		BondID:      b.BondID,
		Type:        b.Type,
		Quantity:    b.Quantity,
		Price:       b.Price,
		Date:        b.Date,
		Fees:        decimal.Zero,
		CreatedAt:   now,
	}
	if b.Reference != "" {
		tx.Reference = &b.Reference
	}
	return tx
}

// CreateHistory stores a valuation snapshot row.
func CreateHistory(t *testing.T, db *sql.DB, portfolioID, date, total string) {
	t.Helper()

	query := `
		INSERT INTO portfolio_history (id, portfolio_id, date, total_value, cash_value, bond_value, created_at)
		VALUES (?, ?, ?, ?, '0', ?, ?)
	`
	_, err := db.Exec(query, MakeID(), portfolioID, date, total, total, time.Now().UTC().Format(timestampLayout))
	if err != nil {
		t.Fatalf("Failed to create test history: %v", err)
	}
}
