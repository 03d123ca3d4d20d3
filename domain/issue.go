package domain

import "strings"

// EntityType names the kind of person an item is issued to. It doubles as
// the actor type of a logged-in user.
type EntityType string

const (
	EntityStudent  EntityType = "student"
	EntityEmployee EntityType = "employee"
)

// ParseEntityType accepts "student" or "employee".
func ParseEntityType(s string) (EntityType, bool) {
	switch EntityType(strings.ToLower(strings.TrimSpace(s))) {
	case EntityStudent:
		return EntityStudent, true
	case EntityEmployee:
		return EntityEmployee, true
	}
	return "", false
}

// Label is the capitalised form shown in selects and chips.
func (t EntityType) Label() string {
	if t == "" {
		return "All"
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

// IssueRecord is one hand-out of an inventory item to a student or employee.
type IssueRecord struct {
	UUID                 string     `json:"uuid"`
	ItemID               string     `json:"itemId"`
	ItemName             string     `json:"itemName"`
	IssueDate            string     `json:"issueDate"`
	EntityType           EntityType `json:"entityType"`
	EntityID             string     `json:"entityId"`
	EntityName           string     `json:"entityName"`
	EntityAdmissionNo    string     `json:"entityAdmissionNo"`
	EntityClassName      string     `json:"entityClassName"`
	EntityEmployeeID     string     `json:"entityEmployeeId"`
	EntityDepartmentName string     `json:"entityDepartmentName"`
	Quantity             int        `json:"quantity"`
	Remarks              string     `json:"remarks"`
	ParentConsent        bool       `json:"parentConsent"`
	Status               Status     `json:"status"`
}

// Recipient rebuilds the typed reference carried by the record.
func (r IssueRecord) Recipient() Recipient {
	switch r.EntityType {
	case EntityEmployee:
		if r.EntityID == "" {
			return EmployeeRecipient{}
		}
		name := r.EntityName
		if name == "" {
			name = "Unknown Employee"
		}
		return EmployeeRecipient{Employee: &Employee{
			UUID:           r.EntityID,
			Name:           name,
			EmployeeID:     r.EntityEmployeeID,
			DepartmentName: r.EntityDepartmentName,
		}}
	default:
		if r.EntityID == "" {
			return StudentRecipient{ParentConsent: r.ParentConsent}
		}
		name := r.EntityName
		if name == "" {
			name = "Unknown Student"
		}
		return StudentRecipient{
			Student: &Student{
				UUID:        r.EntityID,
				Name:        name,
				AdmissionNo: r.EntityAdmissionNo,
				ClassName:   r.EntityClassName,
			},
			ParentConsent: r.ParentConsent,
		}
	}
}

// Recipient is either a StudentRecipient or an EmployeeRecipient. A
// recipient whose person is nil has its kind chosen but nobody picked yet.
type Recipient interface {
	Kind() EntityType
	EntityID() string
	Display() string
	Resolved() bool
	isRecipient()
}

// StudentRecipient carries the parent consent flag, which has no meaning
// for employees.
type StudentRecipient struct {
	Student       *Student
	ParentConsent bool
}

func (StudentRecipient) Kind() EntityType { return EntityStudent }
func (StudentRecipient) isRecipient()     {}

func (r StudentRecipient) Resolved() bool { return r.Student != nil }

func (r StudentRecipient) EntityID() string {
	if r.Student == nil {
		return ""
	}
	return r.Student.UUID
}

func (r StudentRecipient) Display() string {
	if r.Student == nil {
		return ""
	}
	return r.Student.Display()
}

type EmployeeRecipient struct {
	Employee *Employee
}

func (EmployeeRecipient) Kind() EntityType { return EntityEmployee }
func (EmployeeRecipient) isRecipient()     {}

func (r EmployeeRecipient) Resolved() bool { return r.Employee != nil }

func (r EmployeeRecipient) EntityID() string {
	if r.Employee == nil {
		return ""
	}
	return r.Employee.UUID
}

func (r EmployeeRecipient) Display() string {
	if r.Employee == nil {
		return ""
	}
	return r.Employee.Display()
}

// RecipientFor returns an empty recipient of the given kind. Unknown kinds
// fall back to student, the default on the issue form.
func RecipientFor(t EntityType) Recipient {
	if t == EntityEmployee {
		return EmployeeRecipient{}
	}
	return StudentRecipient{}
}

// ParentConsentOf is the consent flag sent to the server; always false for
// employees.
func ParentConsentOf(r Recipient) bool {
	if s, ok := r.(StudentRecipient); ok {
		return s.ParentConsent
	}
	return false
}
