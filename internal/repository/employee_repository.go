package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/orgchart-service/internal/domain"
)

// ErrNotFound is returned when the addressed employee does not exist.
var ErrNotFound = errors.New("employee not found")

// EmployeeRepository manages employee persistence.
type EmployeeRepository interface {
	// List returns every employee in insertion order.
	List(ctx context.Context) ([]domain.Employee, error)
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	// Create assigns a fresh ID to emp and stores it.
	Create(ctx context.Context, emp *domain.Employee) error
	Update(ctx context.Context, emp *domain.Employee) error
	Delete(ctx context.Context, id string) error
	// DetachReports clears the manager of every direct report of managerID
	// and returns the ids that were changed.
	DetachReports(ctx context.Context, managerID string) ([]string, error)
	// WithinTx runs fn against a repository whose writes commit together or not at all.
	WithinTx(ctx context.Context, fn func(EmployeeRepository) error) error
	Ping(ctx context.Context) error
}

func cloneEmployee(emp domain.Employee) domain.Employee {
	out := emp
	if emp.ReportingManagerID != nil {
		out.ReportingManagerID = domain.StringPtr(*emp.ReportingManagerID)
	}
	if emp.ImagePath != nil {
		out.ImagePath = domain.StringPtr(*emp.ImagePath)
	}
	return out
}
