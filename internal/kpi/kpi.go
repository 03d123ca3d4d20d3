// Package kpi aggregates the dashboard figures. Everything is recomputed
// from the collection passed in; nothing is cached.
package kpi

import (
	"time"

	"medadmin/m/domain"
)

const (
	LowStockThreshold = 500
	NearExpiryDays    = 180
)

// StockKPIs are the legacy dashboard figures.
type StockKPIs struct {
	TotalItems      int
	LowStockCount   int
	NearExpiryCount int
}

// Stock counts batches below LowStockThreshold and batches expiring before
// now plus NearExpiryDays. Expiry dates are midnight UTC, so a batch expiring
// on the cutoff day counts once that day has begun. Unparseable expiry dates
// never count as near.
func Stock(records []domain.StockRecord, now time.Time) StockKPIs {
	threshold := now.UTC().AddDate(0, 0, NearExpiryDays)

	k := StockKPIs{TotalItems: len(records)}
	for _, r := range records {
		if r.Quantity < LowStockThreshold {
			k.LowStockCount++
		}
		expiry, err := time.Parse("2006-01-02", domain.DateOnly(r.Expiry))
		if err == nil && expiry.Before(threshold) {
			k.NearExpiryCount++
		}
	}
	return k
}

// MedicalKPIs are the medical dashboard figures.
type MedicalKPIs struct {
	TotalItems    int
	LowStockItems int
}

func Medical(items []domain.InventoryItem) MedicalKPIs {
	k := MedicalKPIs{TotalItems: len(items)}
	for _, item := range items {
		if item.LowStock() {
			k.LowStockItems++
		}
	}
	return k
}

// Card is one rendered KPI tile.
type Card struct {
	Title string
	Value int
	Color string
	Path  string
}

const (
	colorPrimary = "#3366ff"
	colorDanger  = "#ff3d71"
	colorOK      = "#00d68f"
)

func (k StockKPIs) Cards() []Card {
	return []Card{
		{Title: "Total Distinct Medicines", Value: k.TotalItems, Color: "#1976d2", Path: "/stock"},
		{Title: "Low Stock Warnings", Value: k.LowStockCount, Color: "#f57c00", Path: "/stock"},
		{Title: "Near Expiry Batches", Value: k.NearExpiryCount, Color: "#d32f2f", Path: "/stock"},
	}
}

func (k MedicalKPIs) Cards() []Card {
	low := colorOK
	if k.LowStockItems > 0 {
		low = colorDanger
	}
	return []Card{
		{Title: "Total Items", Value: k.TotalItems, Color: colorPrimary, Path: "/medical/items"},
		{Title: "Low Stock Alerts", Value: k.LowStockItems, Color: low, Path: "/medical/items"},
	}
}

// Link is a quick-navigation tile on the medical dashboard.
type Link struct {
	Title       string
	Description string
	Path        string
}

var QuickLinks = []Link{
	{Title: "Inventory Items", Description: "View and manage medical inventory", Path: "/medical/items"},
	{Title: "Purchase Log", Description: "Track inventory purchases", Path: "/medical/purchases"},
	{Title: "Issue Log", Description: "Track items issued to staff/students", Path: "/medical/issues"},
}
