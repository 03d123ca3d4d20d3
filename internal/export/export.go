// Package export writes the filtered purchase and issue logs as xlsx.
package export

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"medadmin/m/domain"
)

// Purchases renders purchase records, one per row after a header.
func Purchases(records []domain.PurchaseRecord) ([]byte, error) {
	header := []interface{}{"Item", "Purchase Date", "Quantity", "Batch No.", "Expiry Date", "Supplier", "Invoice Number", "Cost/Unit", "Total", "Status"}
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		cost, total := "", ""
		if r.CostPerUnit != nil {
			c := decimal.NewFromFloat(*r.CostPerUnit)
			cost = c.StringFixed(2)
			total = c.Mul(decimal.NewFromInt(int64(r.Quantity))).Round(2).StringFixed(2)
		}
		rows = append(rows, []interface{}{
			r.ItemName,
			domain.DateOnly(r.PurchaseDate),
			r.Quantity,
			r.BatchNo,
			domain.DateOnly(r.ExpiryDate),
			r.Supplier,
			r.InvoiceNumber,
			cost,
			total,
			string(r.Status),
		})
	}
	return write("Purchases", header, rows)
}

// Issues renders issue records. Consent is only filled for students.
func Issues(records []domain.IssueRecord) ([]byte, error) {
	header := []interface{}{"Item", "Issue Date", "Quantity", "Issued To", "Name", "Remarks", "Consent", "Status"}
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		consent := ""
		if r.EntityType == domain.EntityStudent {
			consent = "No"
			if r.ParentConsent {
				consent = "Yes"
			}
		}
		rows = append(rows, []interface{}{
			r.ItemName,
			domain.DateOnly(r.IssueDate),
			r.Quantity,
			string(r.EntityType),
			r.EntityName,
			r.Remarks,
			consent,
			string(r.Status),
		})
	}
	return write("Issues", header, rows)
}

func write(name string, header []interface{}, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, name); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
