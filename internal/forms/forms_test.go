package forms

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"medadmin/m/domain"
	"medadmin/m/internal/apitest"
	"medadmin/m/internal/localdata"
	"medadmin/m/internal/service"
	"medadmin/m/internal/storage"
)

var today = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

var stockItems = []domain.InventoryItem{
	{UUID: "i1", Name: "Paracetamol", CurrentStock: 5, ReorderLevel: 2, Status: domain.StatusActive},
}

func TestItemFormLoadsConcurrently(t *testing.T) {
	api := apitest.New().
		On("GET", "/medical/units", domain.Lookups{Units: []domain.Unit{{Value: "tab", Label: "Tablets"}}}).
		On("GET", "/medical/items/i1", domain.InventoryItem{UUID: "i1", Name: "Paracetamol", Unit: "tab", ReorderLevel: 20, Status: domain.StatusActive})
	f, err := LoadItemForm(context.Background(), api, nil, "i1")
	if err != nil {
		t.Fatal(err)
	}
	if f.Name != "Paracetamol" || f.ReorderLevel != "20" || len(f.Units) != 1 {
		t.Errorf("form = %+v", f)
	}
	if f.Title() != "Edit Item" || f.SubmitLabel() != "Save Changes" {
		t.Errorf("labels = %q %q", f.Title(), f.SubmitLabel())
	}
}

func TestItemFormUnitFailureIsQuiet(t *testing.T) {
	api := apitest.New().FailStatus("GET", "/medical/units", http.StatusInternalServerError, "")
	f, err := LoadItemForm(context.Background(), api, nil, "")
	if err == nil {
		t.Fatal("caller should still see the error")
	}
	if f.Error != "" || len(f.Units) != 0 {
		t.Errorf("form = %+v", f)
	}
	if f.Title() != "Add New Item" || f.SubmitLabel() != "Create Item" {
		t.Errorf("labels = %q %q", f.Title(), f.SubmitLabel())
	}
}

func TestItemFormValidation(t *testing.T) {
	api := apitest.New()
	f := &ItemForm{}
	f.Bind(url.Values{"name": {"  "}, "reorderLevel": {"-3"}})
	if err := f.Submit(context.Background(), api); !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v", err)
	}
	if f.Errors["name"] != "Item Name is required" {
		t.Errorf("name error = %q", f.Errors["name"])
	}
	if f.Errors["reorderLevel"] == "" {
		t.Error("negative reorder level accepted")
	}
	if len(api.Calls()) != 0 {
		t.Error("invalid form must not reach the API")
	}

	f.Bind(url.Values{"name": {"Gauze"}, "unit": {"roll"}})
	if err := f.Submit(context.Background(), api); err != nil {
		t.Fatal(err)
	}
	body := api.CallsTo("POST", "/medical/items")[0].Body.(service.ItemInput)
	if body.ReorderLevel != 0 || body.Name != "Gauze" {
		t.Errorf("body = %+v", body)
	}
}

func TestPurchaseFormCost(t *testing.T) {
	api := apitest.New().On("GET", "/medical/items", stockItems)
	f, _ := LoadPurchaseForm(context.Background(), api, nil, "", today)
	if f.PurchaseDate != "2025-06-01" {
		t.Errorf("default date = %q", f.PurchaseDate)
	}

	cases := []struct {
		cost string
		want *float64
	}{
		{"", nil},
		{"0", ptr(0)},
		{"2.50", ptr(2.5)},
	}
	for _, tc := range cases {
		f.Bind(url.Values{"itemId": {"i1"}, "purchaseDate": {"2025-06-01"}, "quantity": {"10"}, "costPerUnit": {tc.cost}})
		if err := f.Submit(context.Background(), api); err != nil {
			t.Fatalf("cost %q: %v", tc.cost, err)
		}
		calls := api.CallsTo("POST", "/medical/purchases")
		got := calls[len(calls)-1].Body.(service.PurchaseInput).CostPerUnit
		if (got == nil) != (tc.want == nil) || (got != nil && *got != *tc.want) {
			t.Errorf("cost %q sent as %v", tc.cost, got)
		}
	}

	f.Bind(url.Values{"itemId": {"i1"}, "purchaseDate": {"01/06/2025"}, "quantity": {"0"}, "costPerUnit": {"-1"}})
	if err := f.Submit(context.Background(), api); !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v", err)
	}
	for _, k := range []string{"purchaseDate", "quantity", "costPerUnit"} {
		if f.Errors[k] == "" {
			t.Errorf("missing error for %s", k)
		}
	}
}

func TestPurchaseFormServerError(t *testing.T) {
	api := apitest.New().
		On("GET", "/medical/items", stockItems).
		On("GET", "/medical/purchases/p1", domain.PurchaseRecord{UUID: "p1", ItemID: "i1", PurchaseDate: "2025-05-01T00:00:00Z", Quantity: 3}).
		FailStatus("PUT", "/medical/purchases/p1", http.StatusBadRequest, "")
	f, err := LoadPurchaseForm(context.Background(), api, nil, "p1", today)
	if err != nil {
		t.Fatal(err)
	}
	if f.PurchaseDate != "2025-05-01" || f.ItemName() != "Paracetamol" {
		t.Errorf("form = %+v", f)
	}
	f.Bind(url.Values{"itemId": {"other"}, "purchaseDate": {"2025-05-01"}, "quantity": {"3"}, "status": {"active"}})
	if f.ItemID != "i1" {
		t.Error("item must stay fixed when editing")
	}
	if err := f.Submit(context.Background(), api); err == nil {
		t.Fatal("expected error")
	}
	if f.Error != "Failed to save purchase" {
		t.Errorf("error = %q", f.Error)
	}
}

func TestIssueFormRecipientRules(t *testing.T) {
	api := apitest.New().
		On("GET", "/medical/items", stockItems).
		On("GET", "/medical/units", domain.Lookups{})
	f, err := LoadIssueForm(context.Background(), api, nil, "", today)
	if err != nil {
		t.Fatal(err)
	}
	if f.Recipient.Kind() != domain.EntityStudent {
		t.Errorf("default recipient = %v", f.Recipient.Kind())
	}
	if len(f.EntityTypes) != 2 || f.EntityTypes[0] != domain.EntityEmployee {
		t.Errorf("entity types = %v", f.EntityTypes)
	}

	f.SetEmployee(domain.Employee{UUID: "e1", Name: "Raj"})
	f.SetEntityType(domain.EntityStudent)
	if f.Recipient.Resolved() {
		t.Fatal("switching type must drop the employee")
	}
	f.SetStudent(domain.Student{UUID: "s1", Name: "Ana"})
	f.SetParentConsent(true)
	f.SetEntityType(domain.EntityEmployee)
	if f.ParentConsent() || f.ShowsConsent() {
		t.Error("consent must not survive a switch to employee")
	}
	f.SetParentConsent(true)
	if f.ParentConsent() {
		t.Error("employees cannot carry consent")
	}
}

func TestIssueFormSubmit(t *testing.T) {
	api := apitest.New().
		On("GET", "/medical/items", stockItems).
		On("GET", "/medical/units", domain.Lookups{EntityTypes: []domain.EntityType{domain.EntityStudent}})
	f, _ := LoadIssueForm(context.Background(), api, nil, "", today)

	draft := StudentValues(domain.Student{UUID: "s1", Name: "Ana", AdmissionNo: "A-1"})
	draft.Set("itemId", "i1")
	draft.Set("issueDate", "2025-06-01")
	draft.Set("quantity", "9")
	draft.Set("parentConsent", "on")
	f.Bind(draft)

	if err := f.Submit(context.Background(), api); !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v", err)
	}
	if f.Errors["quantity"] != "Quantity cannot exceed available stock (5)" {
		t.Errorf("quantity error = %q", f.Errors["quantity"])
	}

	draft.Set("quantity", "5")
	f.Bind(draft)
	if err := f.Submit(context.Background(), api); err != nil {
		t.Fatal(err)
	}
	body := api.CallsTo("POST", "/medical/issues")[0].Body.(service.IssueInput)
	if body.EntityType != domain.EntityStudent || body.EntityID != "s1" || !body.ParentConsent || body.Quantity != 5 {
		t.Errorf("body = %+v", body)
	}

	emp := EmployeeValues(domain.Employee{UUID: "e1", Name: "Raj"})
	emp.Set("itemId", "i1")
	emp.Set("issueDate", "2025-06-01")
	emp.Set("quantity", "1")
	emp.Set("parentConsent", "on")
	f.Bind(emp)
	if err := f.Submit(context.Background(), api); err != nil {
		t.Fatal(err)
	}
	body = api.CallsTo("POST", "/medical/issues")[1].Body.(service.IssueInput)
	if body.ParentConsent {
		t.Error("employee issue sent with consent")
	}
}

func TestIssueFormNeedsRecipient(t *testing.T) {
	f := &IssueForm{Recipient: domain.EmployeeRecipient{}}
	f.Bind(url.Values{"itemId": {"i1"}, "issueDate": {"2025-06-01"}, "quantity": {"1"}, "entity_type": {"employee"}})
	if f.Validate() {
		t.Fatal("validation should fail")
	}
	if f.Errors["entityId"] != "Please select an employee" {
		t.Errorf("entity error = %q", f.Errors["entityId"])
	}
}

func TestIssueFormEditLoadsRecipient(t *testing.T) {
	api := apitest.New().
		On("GET", "/medical/items", stockItems).
		On("GET", "/medical/units", domain.Lookups{}).
		On("GET", "/medical/issues/x1", domain.IssueRecord{UUID: "x1", ItemID: "i1", EntityType: domain.EntityEmployee, EntityID: "e1", Quantity: 50, IssueDate: "2025-01-02T00:00:00Z"})
	f, err := LoadIssueForm(context.Background(), api, nil, "x1", today)
	if err != nil {
		t.Fatal(err)
	}
	if f.Recipient.Display() != "Unknown Employee (e1)" {
		t.Errorf("recipient = %q", f.Recipient.Display())
	}
	if f.IssueDate != "2025-01-02" {
		t.Errorf("date = %q", f.IssueDate)
	}
	// stock ceiling applies only at creation
	f.Validate()
	if _, bad := f.Errors["quantity"]; bad {
		t.Errorf("edit flagged quantity: %v", f.Errors)
	}

	back := ParseRecipient(f.Values(), false)
	if back.EntityID() != "e1" || back.Kind() != domain.EntityEmployee {
		t.Errorf("round trip = %#v", back)
	}
}

func TestTotalCost(t *testing.T) {
	cases := []struct {
		q, c string
		want string
	}{
		{"10", "2.5", "25.00"},
		{"3", "0.333", "1.00"},
		{"7", "1.005", "7.04"},
		{"", "4", "0.00"},
		{"abc", "4", "0.00"},
		{"2", "", "0.00"},
		{"0", "0", "0.00"},
	}
	for _, tc := range cases {
		if got := TotalCost(tc.q, tc.c); got != tc.want {
			t.Errorf("TotalCost(%q, %q) = %q, want %q", tc.q, tc.c, got, tc.want)
		}
	}
	if got := LogTotal(domain.PurchaseLog{Quantity: 5000, CostPerUnit: 10}); got != "50000.00" {
		t.Errorf("LogTotal = %q", got)
	}
}

func TestLegacyForms(t *testing.T) {
	ctx := context.Background()
	store, err := localdata.Open(ctx, storage.NewMemory(), nil)
	if err != nil {
		t.Fatal(err)
	}

	m := NewMedicineForm()
	m.Bind(url.Values{"name": {"Cetirizine"}, "quantity": {"x"}})
	if err := m.Submit(ctx, store); !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v", err)
	}
	if m.Errors["quantity"] == "" || m.Errors["expiry"] == "" {
		t.Errorf("errors = %v", m.Errors)
	}
	m.Bind(url.Values{"name": {"Cetirizine"}, "quantity": {"30"}, "expiry": {"2026-01-01"}})
	if err := m.Submit(ctx, store); err != nil {
		t.Fatal(err)
	}
	if len(store.Stock()) != 4 {
		t.Errorf("stock = %d", len(store.Stock()))
	}

	edit := MedicineFormFor(store.Stock()[0])
	if edit.Title() != "Edit Medicine Item" {
		t.Errorf("title = %q", edit.Title())
	}

	p := NewPurchaseLogForm(store.Stock())
	if p.Unit != "Tablets" || p.TotalCost() != "0.00" {
		t.Errorf("defaults = %+v", p)
	}
	p.Bind(url.Values{"date": {"2025-06-01"}, "itemName": {"Cetirizine"}, "quantity": {"12"}, "unit": {"Strips"}, "costPerUnit": {"1.25"}})
	if p.TotalCost() != "15.00" {
		t.Errorf("total = %q", p.TotalCost())
	}
	if err := p.Submit(ctx, store); err != nil {
		t.Fatal(err)
	}
	logs := store.PurchaseLog()
	if len(logs) != 2 || logs[1].CostPerUnit != 1.25 {
		t.Errorf("logs = %+v", logs)
	}
}

func ptr(f float64) *float64 { return &f }
