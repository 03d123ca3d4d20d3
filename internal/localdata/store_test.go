package localdata

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"medadmin/m/domain"
	"medadmin/m/internal/storage"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestOpenFallsBackToInitial(t *testing.T) {
	s, err := Open(context.Background(), storage.NewMemory(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Stock()) != 3 || len(s.IssueLog()) != 2 || len(s.PurchaseLog()) != 1 {
		t.Fatalf("dataset = %+v", s.Snapshot())
	}
}

func TestMutationsPersist(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	s, _ := Open(ctx, mem, nil)
	s.now = fixedClock(time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC))

	a, err := s.AddStock(ctx, domain.StockRecord{Name: "Cetirizine", Quantity: 30, Expiry: "2026-01-01"})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := s.AddStock(ctx, domain.StockRecord{Name: "ORS", Quantity: 80, Expiry: "2026-01-01"})
	if a.ID == b.ID {
		t.Fatal("ids collided under a frozen clock")
	}
	if a.CreatedDate != "2025-03-04" {
		t.Errorf("createdDate = %q", a.CreatedDate)
	}

	a.Quantity = 25
	a.CreatedDate = ""
	if err := s.EditStock(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteStock(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteStock(ctx, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}

	p, err := s.AddPurchaseLog(ctx, domain.PurchaseLog{ItemName: "ORS", Quantity: 10, CostPerUnit: 1.5})
	if err != nil {
		t.Fatal(err)
	}
	if p.Date != "2025-03-04" {
		t.Errorf("purchase date = %q", p.Date)
	}

	raw, ok, _ := mem.GetItem(ctx, StorageKey)
	if !ok {
		t.Fatal("dataset not written")
	}
	var saved Dataset
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		t.Fatal(err)
	}
	if len(saved.Stock) != 4 || len(saved.PurchaseLog) != 2 {
		t.Fatalf("saved = %+v", saved)
	}

	reopened, _ := Open(ctx, mem, nil)
	got, err := reopened.GetStock(a.ID)
	if err != nil || got.Quantity != 25 || got.CreatedDate != "2025-03-04" {
		t.Errorf("reopened stock = %+v, %v", got, err)
	}
}

type failingStorage struct{ *storage.Memory }

func (f *failingStorage) SetItem(context.Context, string, string) error {
	return errors.New("quota exceeded")
}

func TestFailedWriteKeepsState(t *testing.T) {
	ctx := context.Background()
	s, _ := Open(ctx, &failingStorage{Memory: storage.NewMemory()}, nil)
	if err := s.DeletePurchaseLog(ctx, 201); err == nil {
		t.Fatal("expected write error")
	}
	if _, err := s.GetPurchaseLog(201); err != nil {
		t.Error("record should survive a failed write")
	}
}

func TestFilter(t *testing.T) {
	rows := Initial().Stock
	if got := FilterStock(rows, "amox"); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("amox = %+v", got)
	}
	if got := FilterStock(rows, "2026"); len(got) != 2 {
		t.Errorf("2026 = %d rows", len(got))
	}
	if got := FilterStock(rows, "  "); len(got) != 3 {
		t.Errorf("blank = %d rows", len(got))
	}
	if got := FilterIssueLog(Initial().IssueLog, "opd"); len(got) != 1 {
		t.Errorf("opd = %d rows", len(got))
	}
	if got := FilterPurchaseLog(Initial().PurchaseLog, "pharmaco"); len(got) != 1 {
		t.Errorf("pharmaco = %d rows", len(got))
	}
}
