// Package stubs builds randomized domain values for tests.
package stubs

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/spec-kit/orgchart-service/internal/domain"
)

type EmployeeStub struct {
	employee domain.Employee
}

func NewEmployeeStub() EmployeeStub {
	return EmployeeStub{employee: domain.Employee{
		ID:                gofakeit.UUID(),
		Name:              gofakeit.Name(),
		Designation:       gofakeit.JobTitle(),
		DateOfBirth:       gofakeit.DateRange(mustDate("1960-01-01"), mustDate("2000-12-31")).Format(domain.DateLayout),
		YearsOfExperience: gofakeit.IntRange(0, 35),
	}}
}

func (s EmployeeStub) WithID(id string) EmployeeStub {
	s.employee.ID = id
	return s
}

func (s EmployeeStub) WithName(name string) EmployeeStub {
	s.employee.Name = name
	return s
}

func (s EmployeeStub) WithManager(managerID string) EmployeeStub {
	s.employee.ReportingManagerID = domain.StringPtr(managerID)
	return s
}

func (s EmployeeStub) WithImage(path string) EmployeeStub {
	s.employee.ImagePath = domain.StringPtr(path)
	return s
}

func (s EmployeeStub) Get() domain.Employee {
	return s.employee
}

// Input returns the stub as a creation payload.
func (s EmployeeStub) Input() domain.EmployeeInput {
	return domain.EmployeeInput{
		Name:               s.employee.Name,
		Designation:        s.employee.Designation,
		DateOfBirth:        s.employee.DateOfBirth,
		YearsOfExperience:  s.employee.YearsOfExperience,
		ReportingManagerID: s.employee.ReportingManagerID,
		ImagePath:          s.employee.ImagePath,
	}
}

// Chain returns n employees where each reports to the previous one.
func Chain(n int) []domain.Employee {
	out := make([]domain.Employee, 0, n)
	for i := 0; i < n; i++ {
		stub := NewEmployeeStub()
		if i > 0 {
			stub = stub.WithManager(out[i-1].ID)
		}
		out = append(out, stub.Get())
	}
	return out
}

func mustDate(value string) time.Time {
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		panic(err)
	}
	return t
}
