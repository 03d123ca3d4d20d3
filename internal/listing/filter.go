package listing

import (
	"net/url"

	"medadmin/m/domain"
	"medadmin/m/internal/service"
)

// EntityFilter is the "issued to" filter: AnyEntity, StudentEntity or
// EmployeeEntity. A typed id and a resolved selection are alternatives
// within one variant; changing type replaces the variant.
type EntityFilter interface {
	Type() domain.EntityType
	ID() string
	Display() string
	isEntityFilter()
}

type AnyEntity struct{}

func (AnyEntity) Type() domain.EntityType { return "" }
func (AnyEntity) ID() string              { return "" }
func (AnyEntity) Display() string         { return "" }
func (AnyEntity) isEntityFilter()         {}

type StudentEntity struct {
	TypedID string
	Student *domain.Student
}

func (StudentEntity) Type() domain.EntityType { return domain.EntityStudent }
func (StudentEntity) isEntityFilter()         {}

func (f StudentEntity) ID() string {
	if f.Student != nil {
		return f.Student.UUID
	}
	return f.TypedID
}

func (f StudentEntity) Display() string {
	if f.Student != nil {
		return f.Student.Display()
	}
	return ""
}

type EmployeeEntity struct {
	TypedID  string
	Employee *domain.Employee
}

func (EmployeeEntity) Type() domain.EntityType { return domain.EntityEmployee }
func (EmployeeEntity) isEntityFilter()         {}

func (f EmployeeEntity) ID() string {
	if f.Employee != nil {
		return f.Employee.UUID
	}
	return f.TypedID
}

func (f EmployeeEntity) Display() string {
	if f.Employee != nil {
		return f.Employee.Display()
	}
	return ""
}

// SwitchEntityType returns an empty variant for t, or cur unchanged when
// the type does not change.
func SwitchEntityType(cur EntityFilter, t domain.EntityType) EntityFilter {
	if cur != nil && cur.Type() == t {
		return cur
	}
	switch t {
	case domain.EntityStudent:
		return StudentEntity{}
	case domain.EntityEmployee:
		return EmployeeEntity{}
	default:
		return AnyEntity{}
	}
}

// WithTypedID replaces any resolved selection with a free-typed id.
func WithTypedID(cur EntityFilter, id string) EntityFilter {
	switch cur.(type) {
	case StudentEntity:
		return StudentEntity{TypedID: id}
	case EmployeeEntity:
		return EmployeeEntity{TypedID: id}
	}
	return AnyEntity{}
}

// PurchaseFilter is the control state of the purchase list.
type PurchaseFilter struct {
	ItemID         string
	StartDate      string
	EndDate        string
	IncludeDeleted bool
}

func (f PurchaseFilter) Query() service.PurchaseQuery {
	return service.PurchaseQuery{
		ItemID:         f.ItemID,
		StartDate:      f.StartDate,
		EndDate:        f.EndDate,
		IncludeDeleted: f.IncludeDeleted,
	}
}

// Values encodes the filter for the page URL. The carried "item" key is
// never written back so the one-shot sync cannot re-fire.
func (f PurchaseFilter) Values() url.Values {
	v := url.Values{}
	v.Set("filter", "1")
	setIf(v, "itemId", f.ItemID)
	setIf(v, "startDate", f.StartDate)
	setIf(v, "endDate", f.EndDate)
	if f.IncludeDeleted {
		v.Set("includeDeleted", "true")
	}
	return v
}

func ParsePurchaseFilter(q url.Values) PurchaseFilter {
	return PurchaseFilter{
		ItemID:         q.Get("itemId"),
		StartDate:      q.Get("startDate"),
		EndDate:        q.Get("endDate"),
		IncludeDeleted: q.Get("includeDeleted") == "true",
	}
}

// IssueFilter is the control state of the issue list.
type IssueFilter struct {
	ItemID         string
	Entity         EntityFilter
	StartDate      string
	EndDate        string
	IncludeDeleted bool
}

func (f IssueFilter) entity() EntityFilter {
	if f.Entity == nil {
		return AnyEntity{}
	}
	return f.Entity
}

func (f IssueFilter) Query() service.IssueQuery {
	e := f.entity()
	return service.IssueQuery{
		ItemID:         f.ItemID,
		EntityType:     e.Type(),
		EntityID:       e.ID(),
		StartDate:      f.StartDate,
		EndDate:        f.EndDate,
		IncludeDeleted: f.IncludeDeleted,
	}
}

func (f IssueFilter) Values() url.Values {
	v := url.Values{}
	v.Set("filter", "1")
	setIf(v, "itemId", f.ItemID)
	setIf(v, "startDate", f.StartDate)
	setIf(v, "endDate", f.EndDate)
	if f.IncludeDeleted {
		v.Set("includeDeleted", "true")
	}
	switch e := f.entity().(type) {
	case StudentEntity:
		v.Set("entityType", string(domain.EntityStudent))
		if e.Student != nil {
			v.Set("entityId", e.Student.UUID)
			setIf(v, "entityName", e.Student.Name)
			setIf(v, "entityCode", e.Student.AdmissionNo)
			setIf(v, "entityGroup", e.Student.ClassName)
		} else {
			setIf(v, "entityId", e.TypedID)
		}
	case EmployeeEntity:
		v.Set("entityType", string(domain.EntityEmployee))
		if e.Employee != nil {
			v.Set("entityId", e.Employee.UUID)
			setIf(v, "entityName", e.Employee.Name)
			setIf(v, "entityCode", e.Employee.EmployeeID)
			setIf(v, "entityGroup", e.Employee.DepartmentName)
		} else {
			setIf(v, "entityId", e.TypedID)
		}
	}
	return v
}

// ParseIssueFilter rebuilds the filter from the page URL. A named entity
// comes back as a resolved selection, a bare id as a typed one.
func ParseIssueFilter(q url.Values) IssueFilter {
	f := IssueFilter{
		ItemID:         q.Get("itemId"),
		StartDate:      q.Get("startDate"),
		EndDate:        q.Get("endDate"),
		IncludeDeleted: q.Get("includeDeleted") == "true",
		Entity:         AnyEntity{},
	}
	t, _ := domain.ParseEntityType(q.Get("entityType"))
	id, name := q.Get("entityId"), q.Get("entityName")
	switch t {
	case domain.EntityStudent:
		e := StudentEntity{TypedID: id}
		if id != "" && name != "" {
			e = StudentEntity{Student: &domain.Student{UUID: id, Name: name, AdmissionNo: q.Get("entityCode"), ClassName: q.Get("entityGroup")}}
		}
		f.Entity = e
	case domain.EntityEmployee:
		e := EmployeeEntity{TypedID: id}
		if id != "" && name != "" {
			e = EmployeeEntity{Employee: &domain.Employee{UUID: id, Name: name, EmployeeID: q.Get("entityCode"), DepartmentName: q.Get("entityGroup")}}
		}
		f.Entity = e
	}
	return f
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
