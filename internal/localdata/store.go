// Package localdata is the legacy stock ledger: stock batches, a purchase
// log and an issue log kept as one JSON document in browser storage.
package localdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"medadmin/m/domain"
	"medadmin/m/internal/storage"
)

// StorageKey holds the whole dataset.
const StorageKey = "admin_app_data"

var ErrNotFound = errors.New("record not found")

// Dataset is the persisted document.
type Dataset struct {
	Stock       []domain.StockRecord `json:"stock"`
	IssueLog    []domain.IssueLog    `json:"issueLog"`
	PurchaseLog []domain.PurchaseLog `json:"purchaseLog"`
}

// Initial is the dataset a browser starts with.
func Initial() Dataset {
	return Dataset{
		Stock: []domain.StockRecord{
			{ID: 1, Name: "Paracetamol 500mg", Batch: "P500-2025", Quantity: 1500, Expiry: "2026-04-01", Unit: "mg", CreatedDate: "2024-01-15"},
			{ID: 2, Name: "Amoxicillin 250mg", Batch: "A250-2024", Quantity: 500, Expiry: "2025-11-15", CreatedDate: "2023-12-01"},
			{ID: 3, Name: "Ibuprofen 400mg", Batch: "I400-2025", Quantity: 2000, Expiry: "2026-08-20", CreatedDate: "2024-02-10"},
		},
		IssueLog: []domain.IssueLog{
			{ID: 101, MedicineName: "Paracetamol 500mg", Quantity: 50, IssuedTo: "Ward A", IssueDate: "2024-05-10"},
			{ID: 102, MedicineName: "Amoxicillin 250mg", Quantity: 10, IssuedTo: "OPD", IssueDate: "2024-05-12"},
		},
		PurchaseLog: []domain.PurchaseLog{
			{ID: 201, Date: "2023-11-01", ItemName: "Paracetamol 500mg", Quantity: 5000, SupplierName: "PharmaCo", CostPerUnit: 10},
		},
	}
}

// Store is one browser's ledger. Every mutation rewrites the document.
type Store struct {
	st  storage.Storage
	now func() time.Time

	mu   sync.Mutex
	data Dataset
	last int64
}

// Open reads the document, falling back to seed (or Initial when seed is
// nil) if the browser has none yet.
func Open(ctx context.Context, st storage.Storage, seed *Dataset) (*Store, error) {
	s := &Store{st: st, now: time.Now}
	raw, ok, err := st.GetItem(ctx, StorageKey)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &s.data); err != nil {
			return nil, fmt.Errorf("decode %s: %w", StorageKey, err)
		}
		return s, nil
	}
	if seed != nil {
		s.data = *seed
	} else {
		s.data = Initial()
	}
	return s, nil
}

// Snapshot returns a copy of the current dataset.
func (s *Store) Snapshot() Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Dataset{
		Stock:       append([]domain.StockRecord(nil), s.data.Stock...),
		IssueLog:    append([]domain.IssueLog(nil), s.data.IssueLog...),
		PurchaseLog: append([]domain.PurchaseLog(nil), s.data.PurchaseLog...),
	}
}

func (s *Store) Stock() []domain.StockRecord       { return s.Snapshot().Stock }
func (s *Store) PurchaseLog() []domain.PurchaseLog { return s.Snapshot().PurchaseLog }
func (s *Store) IssueLog() []domain.IssueLog       { return s.Snapshot().IssueLog }

// commit persists next and only then makes it current. Callers hold mu.
func (s *Store) commit(ctx context.Context, next Dataset) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode %s: %w", StorageKey, err)
	}
	if err := s.st.SetItem(ctx, StorageKey, string(raw)); err != nil {
		return err
	}
	s.data = next
	return nil
}

// nextID hands out millisecond timestamps, bumped past any collision.
// Callers hold mu.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

func (s *Store) today() string { return s.now().Format("2006-01-02") }

// ParseID accepts the decimal ids used in legacy URLs.
func ParseID(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

func (s *Store) GetStock(id int64) (domain.StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.data.Stock {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.StockRecord{}, ErrNotFound
}

// AddStock assigns an id and today's createdDate.
func (s *Store) AddStock(ctx context.Context, r domain.StockRecord) (domain.StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.nextID()
	r.CreatedDate = s.today()
	next := s.cloneLocked()
	next.Stock = append(next.Stock, r)
	return r, s.commit(ctx, next)
}

// EditStock replaces the record with the same id.
func (s *Store) EditStock(ctx context.Context, r domain.StockRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cloneLocked()
	for i := range next.Stock {
		if next.Stock[i].ID == r.ID {
			if r.CreatedDate == "" {
				r.CreatedDate = next.Stock[i].CreatedDate
			}
			next.Stock[i] = r
			return s.commit(ctx, next)
		}
	}
	return ErrNotFound
}

func (s *Store) DeleteStock(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cloneLocked()
	out := next.Stock[:0]
	for _, r := range next.Stock {
		if r.ID != id {
			out = append(out, r)
		}
	}
	if len(out) == len(s.data.Stock) {
		return ErrNotFound
	}
	next.Stock = out
	return s.commit(ctx, next)
}

func (s *Store) GetPurchaseLog(id int64) (domain.PurchaseLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.data.PurchaseLog {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.PurchaseLog{}, ErrNotFound
}

// AddPurchaseLog assigns an id and defaults the date to today.
func (s *Store) AddPurchaseLog(ctx context.Context, r domain.PurchaseLog) (domain.PurchaseLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.nextID()
	if r.Date == "" {
		r.Date = s.today()
	}
	next := s.cloneLocked()
	next.PurchaseLog = append(next.PurchaseLog, r)
	return r, s.commit(ctx, next)
}

func (s *Store) EditPurchaseLog(ctx context.Context, r domain.PurchaseLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cloneLocked()
	for i := range next.PurchaseLog {
		if next.PurchaseLog[i].ID == r.ID {
			next.PurchaseLog[i] = r
			return s.commit(ctx, next)
		}
	}
	return ErrNotFound
}

func (s *Store) DeletePurchaseLog(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cloneLocked()
	out := next.PurchaseLog[:0]
	for _, r := range next.PurchaseLog {
		if r.ID != id {
			out = append(out, r)
		}
	}
	if len(out) == len(s.data.PurchaseLog) {
		return ErrNotFound
	}
	next.PurchaseLog = out
	return s.commit(ctx, next)
}

func (s *Store) cloneLocked() Dataset {
	return Dataset{
		Stock:       append([]domain.StockRecord(nil), s.data.Stock...),
		IssueLog:    append([]domain.IssueLog(nil), s.data.IssueLog...),
		PurchaseLog: append([]domain.PurchaseLog(nil), s.data.PurchaseLog...),
	}
}
