package search

import (
	"context"
	"log/slog"

	"medadmin/m/domain"
	"medadmin/m/internal/service"
)

type studentSource struct {
	students service.Students
	classes  service.Classes
}

func (s studentSource) Scopes(ctx context.Context) ([]Scope, error) {
	classes, err := s.classes.Search(ctx, "")
	if err != nil {
		return nil, err
	}
	out := make([]Scope, 0, len(classes))
	for _, c := range classes {
		out = append(out, Scope{ID: c.UUID, Name: c.Name})
	}
	return out, nil
}

func (s studentSource) Find(ctx context.Context, name, classID string) ([]domain.Student, error) {
	return s.students.Search(ctx, name, classID)
}

// NewStudentDialog scopes by class.
func NewStudentDialog(api service.API, log *slog.Logger) *Dialog[domain.Student] {
	return New[domain.Student](studentSource{
		students: service.NewStudents(api),
		classes:  service.NewClasses(api),
	}, Labels{
		Title:     "Search Student",
		NameLabel: "Student Name",
		ScopeName: "class",
		Noun:      "students",
	}, log)
}

type employeeSource struct {
	employees service.Employees
}

func (s employeeSource) Scopes(ctx context.Context) ([]Scope, error) {
	departments, err := s.employees.Departments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Scope, 0, len(departments))
	for _, d := range departments {
		out = append(out, Scope{ID: d.UUID, Name: d.Name})
	}
	return out, nil
}

func (s employeeSource) Find(ctx context.Context, name, departmentID string) ([]domain.Employee, error) {
	return s.employees.Search(ctx, name, departmentID)
}

// NewEmployeeDialog scopes by department.
func NewEmployeeDialog(api service.API, log *slog.Logger) *Dialog[domain.Employee] {
	return New[domain.Employee](employeeSource{employees: service.NewEmployees(api)}, Labels{
		Title:     "Search Employee",
		NameLabel: "Employee Name",
		ScopeName: "department",
		Noun:      "employees",
	}, log)
}
