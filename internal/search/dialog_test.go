package search

import (
	"context"
	"errors"
	"testing"

	"medadmin/m/domain"
	"medadmin/m/internal/apitest"
)

func TestSearchRequiresCriteria(t *testing.T) {
	api := apitest.New().On("GET", "/departments", []domain.Department{{UUID: "d1", Name: "Science"}})
	d := NewEmployeeDialog(api, nil)
	d.Open(context.Background())

	err := d.Search(context.Background())
	if !errors.Is(err, ErrNoCriteria) {
		t.Fatalf("err = %v", err)
	}
	if got := d.View().Error; got != "Please enter a name or select a department" {
		t.Errorf("message = %q", got)
	}
	if n := len(api.CallsTo("GET", "/employees/search")); n != 0 {
		t.Errorf("search calls = %d, want 0", n)
	}

	d.SetName("   ")
	if err := d.KeyPress(context.Background(), "Enter"); !errors.Is(err, ErrNoCriteria) {
		t.Errorf("blank name should not search, err = %v", err)
	}
}

func TestSearchNameOnly(t *testing.T) {
	api := apitest.New().
		On("GET", "/departments", []domain.Department{{UUID: "d1", Name: "Science"}}).
		On("GET", "/employees/search", []domain.Employee{{UUID: "e1", Name: "Raj Patel", EmployeeID: "EMP-1"}})
	d := NewEmployeeDialog(api, nil)
	ctx := context.Background()
	d.Open(ctx)
	d.SetName("Raj")

	if err := d.Search(ctx); err != nil {
		t.Fatalf("search: %v", err)
	}
	calls := api.CallsTo("GET", "/employees/search")
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	if got := calls[0].Params.Encode(); got != "name=Raj" {
		t.Errorf("params = %q, want only the name", got)
	}
}

func TestSearchCombinesNameAndScope(t *testing.T) {
	api := apitest.New().
		On("GET", "/classes/search", []domain.Class{{UUID: "c7", Name: "Grade 7"}}).
		On("GET", "/students/search", []domain.Student{{UUID: "s1", Name: "Ana", AdmissionNo: "A-1"}})
	d := NewStudentDialog(api, nil)
	ctx := context.Background()
	d.Open(ctx)
	d.SetName("Ana")
	d.SetScope("c7")
	d.SetScope("not-loaded")

	if err := d.KeyPress(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if d.View().Phase != Idle {
		t.Fatal("non-Enter key must not search")
	}
	if err := d.KeyPress(ctx, "Enter"); err != nil {
		t.Fatalf("search: %v", err)
	}
	calls := api.CallsTo("GET", "/students/search")
	if len(calls) != 1 {
		t.Fatalf("calls = %d", len(calls))
	}
	if got := calls[0].Params.Encode(); got != "classId=c7&name=Ana" {
		t.Errorf("params = %q", got)
	}
	v := d.View()
	if v.Phase != Results || len(v.Rows) != 1 {
		t.Fatalf("view = %+v", v)
	}

	s, ok := d.Select(0)
	if !ok || s.UUID != "s1" {
		t.Fatalf("select = %+v %v", s, ok)
	}
	if d.IsOpen() || d.View().Name != "" || len(d.View().Rows) != 0 {
		t.Error("select should close and reset the dialog")
	}
	if got, ok := d.Selected(); !ok || got.UUID != "s1" {
		t.Errorf("selected = %+v", got)
	}
}

func TestSearchEmptyAndFailure(t *testing.T) {
	api := apitest.New().
		Fail("GET", "/departments", errors.New("down")).
		On("GET", "/employees/search", []domain.Employee{})
	d := NewEmployeeDialog(api, nil)
	ctx := context.Background()
	d.Open(ctx)
	if len(d.View().Scopes) != 0 || d.View().Error != "" {
		t.Fatalf("scope failure must not surface: %+v", d.View())
	}

	d.SetName("zed")
	if err := d.Search(ctx); err != nil {
		t.Fatal(err)
	}
	if d.View().Phase != Empty {
		t.Fatalf("phase = %v", d.View().Phase)
	}

	api.Fail("GET", "/employees/search", errors.New("boom"))
	if err := d.Search(ctx); err == nil {
		t.Fatal("expected failure")
	}
	if got := d.View().Error; got != "Failed to search employees" {
		t.Errorf("error = %q", got)
	}
}

func TestReopenStartsClean(t *testing.T) {
	api := apitest.New().
		On("GET", "/classes/search", []domain.Class{}).
		On("GET", "/students/search", []domain.Student{{UUID: "s1"}})
	d := NewStudentDialog(api, nil)
	ctx := context.Background()
	d.Open(ctx)
	d.SetName("x")
	_ = d.Search(ctx)
	d.Close()
	d.Open(ctx)

	v := d.View()
	if v.Name != "" || v.Phase != Idle || len(v.Rows) != 0 {
		t.Errorf("reopened view = %+v", v)
	}
	if n := len(api.CallsTo("GET", "/classes/search")); n != 2 {
		t.Errorf("scope loads = %d, want one per opening", n)
	}
}
