package localdata

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"medadmin/m/domain"
)

// The legacy lists match free text against every column, case-insensitively.

func FilterStock(rows []domain.StockRecord, text string) []domain.StockRecord {
	return filter(rows, text, func(r domain.StockRecord) []string {
		return []string{strconv.FormatInt(r.ID, 10), r.Name, r.Batch, strconv.Itoa(r.Quantity), r.Expiry, r.Unit, r.Description, r.Comment, r.Dosage, r.CreatedDate}
	})
}

func FilterPurchaseLog(rows []domain.PurchaseLog, text string) []domain.PurchaseLog {
	return filter(rows, text, func(r domain.PurchaseLog) []string {
		return []string{strconv.FormatInt(r.ID, 10), r.Date, r.ItemName, r.Batch, r.ExpiryDate, strconv.Itoa(r.Quantity), r.Unit, r.SupplierName, decimal.NewFromFloat(r.CostPerUnit).String()}
	})
}

func FilterIssueLog(rows []domain.IssueLog, text string) []domain.IssueLog {
	return filter(rows, text, func(r domain.IssueLog) []string {
		return []string{strconv.FormatInt(r.ID, 10), r.MedicineName, strconv.Itoa(r.Quantity), r.IssuedTo, r.IssueDate}
	})
}

func filter[T any](rows []T, text string, fields func(T) []string) []T {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return rows
	}
	var out []T
	for _, r := range rows {
		for _, f := range fields(r) {
			if strings.Contains(strings.ToLower(f), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
