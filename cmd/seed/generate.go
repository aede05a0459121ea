package main

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/spec-kit/orgchart-service/internal/domain"
)

type seedOptions struct {
	count int
	roots int
	span  int
	seed  int64
}

type employeeCreator interface {
	CreateEmployee(ctx context.Context, input domain.EmployeeInput) (*domain.Employee, error)
}

// seedOrganization creates opts.count employees breadth first: the first
// opts.roots have no manager and every later one reports to the earliest
// employee that still has fewer than opts.span reports.
func seedOrganization(ctx context.Context, employees employeeCreator, opts seedOptions) ([]domain.Employee, error) {
	if opts.count < 0 || opts.roots < 1 || opts.span < 1 {
		return nil, fmt.Errorf("invalid seed options: count=%d roots=%d span=%d", opts.count, opts.roots, opts.span)
	}

	faker := gofakeit.New(opts.seed)
	oldest := time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)
	youngest := time.Date(2002, 12, 31, 0, 0, 0, 0, time.UTC)

	created := make([]domain.Employee, 0, opts.count)
	for i := 0; i < opts.count; i++ {
		input := domain.EmployeeInput{
			Name:              faker.Name(),
			Designation:       faker.JobTitle(),
			DateOfBirth:       faker.DateRange(oldest, youngest).Format(domain.DateLayout),
			YearsOfExperience: faker.IntRange(0, 35),
		}
		if i >= opts.roots {
			manager := created[(i-opts.roots)/opts.span]
			input.ReportingManagerID = domain.StringPtr(manager.ID)
		}

		emp, err := employees.CreateEmployee(ctx, input)
		if err != nil {
			return created, fmt.Errorf("create employee %d: %w", i, err)
		}
		created = append(created, *emp)
	}
	return created, nil
}
