package service

import (
	"context"
	"net/url"

	"medadmin/m/domain"
)

type Students struct{ api API }

func NewStudents(api API) Students { return Students{api: api} }

func (s Students) Search(ctx context.Context, name, classID string) ([]domain.Student, error) {
	params := url.Values{}
	set(params, "name", name)
	set(params, "classId", classID)
	var out []domain.Student
	err := s.api.Get(ctx, "/students/search", params, &out)
	return out, err
}

func (s Students) Get(ctx context.Context, id string) (domain.Student, error) {
	var out domain.Student
	err := s.api.Get(ctx, "/students/"+url.PathEscape(id), nil, &out)
	return out, err
}

type Employees struct{ api API }

func NewEmployees(api API) Employees { return Employees{api: api} }

func (s Employees) Search(ctx context.Context, name, departmentID string) ([]domain.Employee, error) {
	params := url.Values{}
	set(params, "name", name)
	set(params, "department_id", departmentID)
	var out []domain.Employee
	err := s.api.Get(ctx, "/employees/search", params, &out)
	return out, err
}

func (s Employees) Departments(ctx context.Context) ([]domain.Department, error) {
	var out []domain.Department
	err := s.api.Get(ctx, "/departments", nil, &out)
	return out, err
}

type Classes struct{ api API }

func NewClasses(api API) Classes { return Classes{api: api} }

func (s Classes) Search(ctx context.Context, academicYearID string) ([]domain.Class, error) {
	params := url.Values{}
	set(params, "academic_year_id", academicYearID)
	var out []domain.Class
	err := s.api.Get(ctx, "/classes/search", params, &out)
	return out, err
}

func (s Classes) Get(ctx context.Context, id string) (domain.Class, error) {
	var out domain.Class
	err := s.api.Get(ctx, "/classes/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (s Classes) Sections(ctx context.Context, classID string) ([]domain.Section, error) {
	var out []domain.Section
	err := s.api.Get(ctx, "/classes/"+url.PathEscape(classID)+"/sections", nil, &out)
	return out, err
}

type AcademicYears struct{ api API }

func NewAcademicYears(api API) AcademicYears { return AcademicYears{api: api} }

func (s AcademicYears) List(ctx context.Context) ([]domain.AcademicYear, error) {
	var out []domain.AcademicYear
	err := s.api.Get(ctx, "/academic-years", nil, &out)
	return out, err
}

func (s AcademicYears) Current(ctx context.Context) (domain.AcademicYear, error) {
	var out domain.AcademicYear
	err := s.api.Get(ctx, "/academic-years/current", nil, &out)
	return out, err
}

func (s AcademicYears) Get(ctx context.Context, id string) (domain.AcademicYear, error) {
	var out domain.AcademicYear
	err := s.api.Get(ctx, "/academic-years/"+url.PathEscape(id), nil, &out)
	return out, err
}
