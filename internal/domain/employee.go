package domain

import "strings"

// DateLayout is the wire format for dates of birth.
const DateLayout = "2006-01-02"

// Employee is a single record of the organization chart.
type Employee struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Designation        string  `json:"designation"`
	DateOfBirth        string  `json:"dateOfBirth"`
	YearsOfExperience  int     `json:"yearsOfExperience"`
	ReportingManagerID *string `json:"reportingManagerId"`
	ImagePath          *string `json:"imagePath"`
}

// HasManager reports whether the employee references a manager id.
func (e Employee) HasManager() bool {
	return e.ReportingManagerID != nil
}

// ManagerID returns the referenced manager id or "".
func (e Employee) ManagerID() string {
	if e.ReportingManagerID == nil {
		return ""
	}
	return *e.ReportingManagerID
}

// OrganizationNode is an employee with its direct reports expanded recursively.
// It is derived from the employee set and never stored.
type OrganizationNode struct {
	Employee
	Subordinates []*OrganizationNode `json:"subordinates"`
}

// EmployeeInput carries the fields accepted on creation.
type EmployeeInput struct {
	Name               string
	Designation        string
	DateOfBirth        string
	YearsOfExperience  int
	ReportingManagerID *string
	ImagePath          *string
}

// EmployeePatch describes a partial update. Nil pointers keep the stored value.
// ReportingManagerSet distinguishes "clear the manager" from "leave it alone".
type EmployeePatch struct {
	Name                *string
	Designation         *string
	DateOfBirth         *string
	YearsOfExperience   *int
	ReportingManagerID  *string
	ReportingManagerSet bool
	ImagePath           *string
}

// NormalizeManagerID folds the loose spellings of "no manager" into nil.
func NormalizeManagerID(raw *string) *string {
	if raw == nil {
		return nil
	}
	value := strings.TrimSpace(*raw)
	switch strings.ToLower(value) {
	case "", "none", "null", "undefined":
		return nil
	}
	return &value
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
