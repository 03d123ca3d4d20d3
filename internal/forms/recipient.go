package forms

import (
	"net/url"

	"medadmin/m/domain"
)

// Keys used to carry a picked recipient through URLs and hidden fields.
const (
	keyEntityType  = "entity_type"
	keyEntityID    = "entity_id"
	keyEntityName  = "entity_name"
	keyEntityCode  = "entity_code"
	keyEntityGroup = "entity_group"
)

// RecipientValues encodes r for a URL or hidden form fields. Consent is
// carried separately as its own checkbox.
func RecipientValues(r domain.Recipient) url.Values {
	v := url.Values{}
	if r == nil {
		return v
	}
	v.Set(keyEntityType, string(r.Kind()))
	switch rr := r.(type) {
	case domain.StudentRecipient:
		if s := rr.Student; s != nil {
			v.Set(keyEntityID, s.UUID)
			v.Set(keyEntityName, s.Name)
			v.Set(keyEntityCode, s.AdmissionNo)
			v.Set(keyEntityGroup, s.ClassName)
		}
	case domain.EmployeeRecipient:
		if e := rr.Employee; e != nil {
			v.Set(keyEntityID, e.UUID)
			v.Set(keyEntityName, e.Name)
			v.Set(keyEntityCode, e.EmployeeID)
			v.Set(keyEntityGroup, e.DepartmentName)
		}
	}
	return v
}

// StudentValues and EmployeeValues encode a dialog selection.
func StudentValues(s domain.Student) url.Values {
	return RecipientValues(domain.StudentRecipient{Student: &s})
}

func EmployeeValues(e domain.Employee) url.Values {
	return RecipientValues(domain.EmployeeRecipient{Employee: &e})
}

// ParseRecipient rebuilds a recipient; consent is applied for students.
// Missing or unknown types yield an empty student recipient.
func ParseRecipient(v url.Values, consent bool) domain.Recipient {
	t, _ := domain.ParseEntityType(v.Get(keyEntityType))
	id := v.Get(keyEntityID)
	switch t {
	case domain.EntityEmployee:
		if id == "" {
			return domain.EmployeeRecipient{}
		}
		return domain.EmployeeRecipient{Employee: &domain.Employee{
			UUID:           id,
			Name:           v.Get(keyEntityName),
			EmployeeID:     v.Get(keyEntityCode),
			DepartmentName: v.Get(keyEntityGroup),
		}}
	default:
		r := domain.StudentRecipient{ParentConsent: consent}
		if id != "" {
			r.Student = &domain.Student{
				UUID:        id,
				Name:        v.Get(keyEntityName),
				AdmissionNo: v.Get(keyEntityCode),
				ClassName:   v.Get(keyEntityGroup),
			}
		}
		return r
	}
}
