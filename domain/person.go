package domain

// Student is owned by the student module and only read here.
type Student struct {
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	AdmissionNo string `json:"admission_no"`
	ClassName   string `json:"class_name"`
}

// Display renders "Name (admission no)", falling back to the uuid.
func (s Student) Display() string {
	code := s.AdmissionNo
	if code == "" {
		code = s.UUID
	}
	return s.Name + " (" + code + ")"
}

type Employee struct {
	UUID           string `json:"uuid"`
	EmployeeID     string `json:"employee_id"`
	Name           string `json:"name"`
	DepartmentName string `json:"department_name"`
}

func (e Employee) Display() string {
	code := e.EmployeeID
	if code == "" {
		code = e.UUID
	}
	return e.Name + " (" + code + ")"
}

type Department struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

type Class struct {
	UUID           string `json:"uuid"`
	Name           string `json:"name"`
	AcademicYearID string `json:"academic_year_id,omitempty"`
}

type Section struct {
	UUID    string `json:"uuid"`
	Name    string `json:"name"`
	ClassID string `json:"class_id,omitempty"`
}

type AcademicYear struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsCurrent bool   `json:"is_current"`
}
