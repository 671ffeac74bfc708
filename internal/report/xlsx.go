// Package report renders portfolio data as spreadsheet downloads.
package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/importer"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
)

// Sheet names of the workbook.
const (
	HoldingsSheet     = "Obligacje"
	TransactionsSheet = "Transakcje"
)

// holdingHeader uses the primary import column names so a holdings sheet
// saved as CSV can be imported again.
var holdingHeader = []string{
	importer.Aliases[importer.FieldISIN][0],
	importer.Aliases[importer.FieldName][0],
	importer.Aliases[importer.FieldIssuer][0],
	importer.Aliases[importer.FieldSeries][0],
	importer.Aliases[importer.FieldBondType][0],
	importer.Aliases[importer.FieldPurchaseDate][0],
	importer.Aliases[importer.FieldMaturityDate][0],
	importer.Aliases[importer.FieldQuantity][0],
	importer.Aliases[importer.FieldPurchasePrice][0],
	importer.Aliases[importer.FieldCurrentValue][0],
	importer.Aliases[importer.FieldCouponText][0],
	importer.Aliases[importer.FieldReference][0],
}

var transactionHeader = []string{
	"Data", "Typ", "Kod_ISIN", "Nazwa", "Ilosc", "Cena", "Prowizja", "Numer_Transakcji", "Uwagi",
}

// HoldingsWorkbook builds an XLSX file with one sheet of lots and one sheet
// of ledger entries and returns its bytes.
func HoldingsWorkbook(holdings []model.HoldingView, transactions []model.TransactionView) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#d9ead3"}},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	holdingRows := make([][]any, 0, len(holdings))
	for _, h := range holdings {
		holdingRows = append(holdingRows, []any{
			h.ISIN,
			h.Name,
			h.Issuer,
			deref(h.Series),
			deref(h.BondType),
			h.PurchaseDate.Format("2006-01-02"),
			dateOrEmpty(h.MaturityDate),
			h.Quantity.InexactFloat64(),
			h.PurchasePrice.InexactFloat64(),
			nullFloat(h.CurrentValue),
			importer.FormatCoupon("", h.CouponRate),
			deref(h.TransactionReference),
		})
	}
	if err := writeSheet(f, HoldingsSheet, holdingHeader, holdingRows, headerStyle); err != nil {
		return nil, err
	}

	txRows := make([][]any, 0, len(transactions))
	for _, t := range transactions {
		txRows = append(txRows, []any{
			t.Date.Format("2006-01-02"),
			string(t.Type),
			t.ISIN,
			t.BondName,
			t.Quantity.InexactFloat64(),
			t.Price.InexactFloat64(),
			t.Fees.InexactFloat64(),
			deref(t.Reference),
			deref(t.Notes),
		})
	}
	if err := writeSheet(f, TransactionsSheet, transactionHeader, txRows, headerStyle); err != nil {
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("remove default sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, name string, header []string, rows [][]any, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(name, cell, title); err != nil {
			return err
		}
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header of %s: %w", name, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("write row %d of %s: %w", i, name, err)
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dateOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func nullFloat(d decimal.NullDecimal) any {
	if !d.Valid {
		return ""
	}
	return d.Decimal.InexactFloat64()
}
