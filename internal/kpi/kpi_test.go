package kpi

import (
	"testing"
	"time"

	"medadmin/m/domain"
)

func TestStock(t *testing.T) {
	today := time.Date(2025, 10, 1, 15, 30, 0, 0, time.UTC)
	records := []domain.StockRecord{
		{Quantity: 1500, Expiry: "2026-04-01"}, // 182 days out
		{Quantity: 500, Expiry: "2026-03-29"},  // 179 days out
		{Quantity: 499, Expiry: "2024-01-01"},  // already expired
		{Quantity: 10, Expiry: "soon"},
		{Quantity: 1000, Expiry: "2026-03-30"}, // exactly 180 days out
		{Quantity: 1000, Expiry: "2026-03-31"}, // 181 days out
	}
	got := Stock(records, today)
	want := StockKPIs{TotalItems: 6, LowStockCount: 2, NearExpiryCount: 3}
	if got != want {
		t.Errorf("Stock = %+v, want %+v", got, want)
	}
	if Stock(nil, today) != (StockKPIs{}) {
		t.Error("empty collection should be all zeros")
	}
}

func TestStockCutoffFollowsTheClock(t *testing.T) {
	batch := []domain.StockRecord{{Quantity: 1000, Expiry: "2026-03-30"}}
	cases := []struct {
		now  time.Time
		want int
	}{
		{time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2025, 10, 1, 0, 0, 1, 0, time.UTC), 1},
		{time.Date(2025, 9, 30, 23, 59, 0, 0, time.UTC), 0},
	}
	for _, tc := range cases {
		if got := Stock(batch, tc.now).NearExpiryCount; got != tc.want {
			t.Errorf("at %s NearExpiryCount = %d, want %d", tc.now, got, tc.want)
		}
	}
}

func TestMedical(t *testing.T) {
	items := []domain.InventoryItem{
		{CurrentStock: 10, ReorderLevel: 10},
		{CurrentStock: 11, ReorderLevel: 10},
		{CurrentStock: 0, ReorderLevel: 0},
	}
	k := Medical(items)
	if k.TotalItems != 3 || k.LowStockItems != 2 {
		t.Errorf("Medical = %+v", k)
	}
	if c := k.Cards()[1]; c.Color != colorDanger {
		t.Errorf("low stock color = %s", c.Color)
	}
	if c := (MedicalKPIs{TotalItems: 1}).Cards()[1]; c.Color != colorOK {
		t.Errorf("ok color = %s", c.Color)
	}
}
