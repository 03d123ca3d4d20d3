package service

import (
	"context"
	"testing"

	"medadmin/m/domain"
	"medadmin/m/internal/apitest"
)

func TestQueriesOmitEmptyFilters(t *testing.T) {
	ctx := context.Background()
	api := apitest.New().
		On("GET", "/medical/purchases", []domain.PurchaseRecord{}).
		On("GET", "/medical/issues", []domain.IssueRecord{}).
		On("GET", "/medical/items", []domain.InventoryItem{})

	if _, err := NewPurchases(api).List(ctx, PurchaseQuery{ItemID: "i1", EndDate: "2025-01-31"}); err != nil {
		t.Fatalf("purchases: %v", err)
	}
	if _, err := NewIssues(api).List(ctx, IssueQuery{EntityType: domain.EntityStudent, IncludeDeleted: true}); err != nil {
		t.Fatalf("issues: %v", err)
	}
	if _, err := NewItems(api).List(ctx, ItemQuery{}); err != nil {
		t.Fatalf("items: %v", err)
	}

	calls := api.Calls()
	if got := calls[0].Params.Encode(); got != "endDate=2025-01-31&itemId=i1" {
		t.Errorf("purchase params = %q", got)
	}
	if got := calls[1].Params.Encode(); got != "entityType=student&includeDeleted=true" {
		t.Errorf("issue params = %q", got)
	}
	if got := calls[2].Params.Encode(); got != "" {
		t.Errorf("item params = %q", got)
	}
}

func TestPeopleEndpoints(t *testing.T) {
	ctx := context.Background()
	api := apitest.New().
		On("GET", "/students/search", []domain.Student{{UUID: "s1", Name: "Ana", AdmissionNo: "A-1"}}).
		On("GET", "/employees/search", []domain.Employee{{UUID: "e1", Name: "Raj"}}).
		On("GET", "/classes/c1/sections", []domain.Section{{UUID: "sec", Name: "A"}}).
		On("GET", "/academic-years/current", domain.AcademicYear{UUID: "y1", IsCurrent: true})

	students, err := NewStudents(api).Search(ctx, "an", "c1")
	if err != nil || len(students) != 1 || students[0].AdmissionNo != "A-1" {
		t.Fatalf("students = %v, %v", students, err)
	}
	if _, err := NewEmployees(api).Search(ctx, "", "d1"); err != nil {
		t.Fatalf("employees: %v", err)
	}
	if _, err := NewClasses(api).Sections(ctx, "c1"); err != nil {
		t.Fatalf("sections: %v", err)
	}
	year, err := NewAcademicYears(api).Current(ctx)
	if err != nil || !year.IsCurrent {
		t.Fatalf("year = %v, %v", year, err)
	}

	if got := api.CallsTo("GET", "/students/search")[0].Params.Encode(); got != "classId=c1&name=an" {
		t.Errorf("student params = %q", got)
	}
	if got := api.CallsTo("GET", "/employees/search")[0].Params.Encode(); got != "department_id=d1" {
		t.Errorf("employee params = %q", got)
	}
}
