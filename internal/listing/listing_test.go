package listing

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"medadmin/m/domain"
	"medadmin/m/internal/apiclient"
	"medadmin/m/internal/apitest"
)

var refItems = []domain.InventoryItem{
	{UUID: "i1", Name: "Paracetamol", CurrentStock: 40, ReorderLevel: 50, Status: domain.StatusActive},
	{UUID: "i2", Name: "Bandage", CurrentStock: 90, ReorderLevel: 10, Status: domain.StatusActive},
}

func TestItemSyncOneShot(t *testing.T) {
	s := NewItemSync("i2")
	if _, ok := s.Resolve(nil); ok || !s.Pending() {
		t.Fatal("empty list must leave sync pending")
	}
	item, ok := s.Resolve(refItems)
	if !ok || item.UUID != "i2" {
		t.Fatalf("resolve = %+v %v", item, ok)
	}
	if _, ok := s.Resolve(refItems); ok {
		t.Fatal("sync must not fire twice")
	}

	missing := NewItemSync("nope")
	if _, ok := missing.Resolve(refItems); ok || missing.Pending() {
		t.Fatal("unknown id consumes the sync without a match")
	}
}

func TestPurchaseMountWithCarriedItem(t *testing.T) {
	api := apitest.New().
		On("GET", "/medical/items", refItems).
		On("GET", "/medical/purchases", []domain.PurchaseRecord{{UUID: "p1", ItemID: "i1"}})
	l := NewPurchaseList(api, nil)
	if err := l.Mount(context.Background(), "i1"); err != nil {
		t.Fatalf("mount: %v", err)
	}
	calls := api.CallsTo("GET", "/medical/purchases")
	if len(calls) != 1 {
		t.Fatalf("fetches = %d, want exactly one", len(calls))
	}
	if got := calls[0].Params.Get("itemId"); got != "i1" {
		t.Errorf("itemId = %q", got)
	}
	if l.Filter.ItemID != "i1" {
		t.Error("item should be pre-selected")
	}

	// later reference refreshes do not re-apply the carried item
	l.Filter.ItemID = ""
	if err := l.RefreshItems(context.Background()); err != nil {
		t.Fatal(err)
	}
	if l.Filter.ItemID != "" || len(api.CallsTo("GET", "/medical/purchases")) != 1 {
		t.Error("sync re-triggered on refresh")
	}
}

func TestPurchaseMountWithoutItemIsUnfiltered(t *testing.T) {
	api := apitest.New().
		On("GET", "/medical/items", refItems).
		On("GET", "/medical/purchases", []domain.PurchaseRecord{})
	l := NewPurchaseList(api, nil)
	if err := l.Mount(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	calls := api.CallsTo("GET", "/medical/purchases")
	if len(calls) != 1 || len(calls[0].Params) != 0 {
		t.Fatalf("calls = %+v", calls)
	}
}

func TestIssueSyncAppliesAfterLateItemLoad(t *testing.T) {
	api := apitest.New().
		Fail("GET", "/medical/items", errors.New("down")).
		On("GET", "/medical/issues", []domain.IssueRecord{})
	l := NewIssueList(api, nil)
	err := l.Mount(context.Background(), "i2")
	if err == nil {
		t.Fatal("item failure should be reported to the caller")
	}
	if l.Error != "" {
		t.Errorf("reference failure must not surface, got %q", l.Error)
	}
	if n := len(api.CallsTo("GET", "/medical/issues")); n != 1 {
		t.Fatalf("fetches = %d", n)
	}

	api.On("GET", "/medical/items", refItems)
	if err := l.RefreshItems(context.Background()); err != nil {
		t.Fatal(err)
	}
	calls := api.CallsTo("GET", "/medical/issues")
	if len(calls) != 2 || calls[1].Params.Get("itemId") != "i2" {
		t.Fatalf("calls = %+v", calls)
	}
}

func TestIssueEntitySwitchClearsSelection(t *testing.T) {
	api := apitest.New().On("GET", "/medical/issues", []domain.IssueRecord{})
	l := NewIssueList(api, nil)
	l.SetEntityType(domain.EntityEmployee)
	l.Filter.Entity = EmployeeEntity{Employee: &domain.Employee{UUID: "e9", Name: "Raj"}}

	l.SetEntityType(domain.EntityEmployee)
	if l.Filter.Entity.ID() != "e9" {
		t.Fatal("same type must keep the selection")
	}

	l.SetEntityType(domain.EntityStudent)
	if l.Filter.Entity.ID() != "" || l.Filter.Entity.Type() != domain.EntityStudent {
		t.Fatalf("entity = %#v", l.Filter.Entity)
	}

	l.Filter.Entity = WithTypedID(l.Filter.Entity, "s-typed")
	l.Filter.StartDate = "2025-01-01"
	l.Filter.EndDate = "2025-01-31"
	if err := l.Search(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := api.Calls()[0].Params.Encode()
	if got != "endDate=2025-01-31&entityId=s-typed&entityType=student&startDate=2025-01-01" {
		t.Errorf("params = %q", got)
	}
}

func TestClearResetsAndFetchesUnfiltered(t *testing.T) {
	api := apitest.New().
		On("GET", "/medical/items", refItems).
		On("GET", "/medical/issues", []domain.IssueRecord{})
	l := NewIssueList(api, nil)
	_ = l.Mount(context.Background(), "i1")
	l.SetEntityType(domain.EntityStudent)
	l.Filter.IncludeDeleted = true

	if err := l.Clear(context.Background()); err != nil {
		t.Fatal(err)
	}
	if l.Filter.ItemID != "" || l.Filter.Entity.Type() != "" || l.Filter.IncludeDeleted {
		t.Errorf("filter = %+v", l.Filter)
	}
	calls := api.CallsTo("GET", "/medical/issues")
	if len(calls[len(calls)-1].Params) != 0 {
		t.Errorf("clear fetch params = %v", calls[len(calls)-1].Params)
	}
}

func TestDeletedRowsVisibility(t *testing.T) {
	api := apitest.New().On("GET", "/medical/purchases", []domain.PurchaseRecord{
		{UUID: "p1", Status: domain.StatusActive},
		{UUID: "p2", Status: domain.StatusDeleted},
	})
	l := NewPurchaseList(api, nil)
	_ = l.Search(context.Background())
	if rows := l.Rows(); len(rows) != 1 || rows[0].Record.UUID != "p1" {
		t.Fatalf("rows = %+v", rows)
	}

	l.Filter.IncludeDeleted = true
	rows := l.Rows()
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if !rows[1].Deleted || rows[1].CanDelete {
		t.Errorf("deleted row = %+v", rows[1])
	}
	if rows[0].Deleted || !rows[0].CanDelete {
		t.Errorf("active row = %+v", rows[0])
	}
}

func TestFailuresKeepPriorData(t *testing.T) {
	api := apitest.New().On("GET", "/medical/purchases", []domain.PurchaseRecord{{UUID: "p1"}})
	l := NewPurchaseList(api, nil)
	_ = l.Search(context.Background())

	api.FailStatus("GET", "/medical/purchases", http.StatusInternalServerError, "")
	if err := l.Search(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if l.Error != "Failed to load purchases" || len(l.Records) != 1 {
		t.Errorf("error=%q records=%d", l.Error, len(l.Records))
	}

	api.FailStatus("DELETE", "/medical/purchases/p1", http.StatusUnauthorized, "")
	err := l.Delete(context.Background(), "p1")
	if !errors.Is(err, apiclient.ErrUnauthorized) {
		t.Errorf("err = %v", err)
	}
}

func TestFilterURLRoundTrip(t *testing.T) {
	f := IssueFilter{
		ItemID: "i1",
		Entity: StudentEntity{Student: &domain.Student{UUID: "s1", Name: "Ana", AdmissionNo: "A-1", ClassName: "7B"}},
	}
	back := ParseIssueFilter(f.Values())
	st, ok := back.Entity.(StudentEntity)
	if !ok || st.Student == nil || st.Student.AdmissionNo != "A-1" || back.ItemID != "i1" {
		t.Fatalf("parsed = %#v", back)
	}
	if f.Values().Has("item") {
		t.Error("carried item key must not be written back")
	}

	typed := ParseIssueFilter(IssueFilter{Entity: EmployeeEntity{TypedID: "e5"}}.Values())
	if e, ok := typed.Entity.(EmployeeEntity); !ok || e.TypedID != "e5" || e.Employee != nil {
		t.Fatalf("typed = %#v", typed.Entity)
	}
}

func TestItemRows(t *testing.T) {
	api := apitest.New().On("GET", "/medical/items", append(refItems, domain.InventoryItem{UUID: "i3", Status: domain.StatusDeleted}))
	l := NewItemList(api, nil)
	l.Search = "para"
	if err := l.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := api.Calls()[0].Params.Get("search"); got != "para" {
		t.Errorf("search = %q", got)
	}
	rows := l.Rows()
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if !rows[0].LowStock || rows[1].LowStock {
		t.Errorf("low stock flags = %v %v", rows[0].LowStock, rows[1].LowStock)
	}
	if rows[0].PurchasesURL != "/medical/purchases?item=i1" || rows[0].IssuesURL != "/medical/issues?item=i1" {
		t.Errorf("links = %q %q", rows[0].PurchasesURL, rows[0].IssuesURL)
	}

	if err := l.Clear(context.Background()); err != nil {
		t.Fatal(err)
	}
	if l.Search != "" || len(api.Calls()[1].Params) != 0 {
		t.Error("clear should reload unfiltered")
	}
}
