package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/orgchart-service/internal/domain"
	"github.com/spec-kit/orgchart-service/internal/orgtree"
	"github.com/spec-kit/orgchart-service/internal/repository"
	"github.com/spec-kit/orgchart-service/internal/service"
)

func TestSeedOrganizationShape(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryEmployeeRepository()
	employees := service.NewEmployeeService(service.EmployeeDependencies{EmployeeRepo: repo})

	created, err := seedOrganization(ctx, employees, seedOptions{count: 13, roots: 1, span: 3, seed: 42})
	require.NoError(t, err)
	require.Len(t, created, 13)

	forest, err := employees.BuildOrganizationTree(ctx)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, 13, orgtree.Count(forest))

	orgtree.Walk(forest, func(node *domain.OrganizationNode, depth int) bool {
		assert.LessOrEqual(t, len(node.Subordinates), 3)
		return true
	})
}

func TestSeedOrganizationIsDeterministic(t *testing.T) {
	ctx := context.Background()
	names := func() []string {
		employees := service.NewEmployeeService(service.EmployeeDependencies{EmployeeRepo: repository.NewMemoryEmployeeRepository()})
		created, err := seedOrganization(ctx, employees, seedOptions{count: 5, roots: 2, span: 2, seed: 7})
		require.NoError(t, err)
		out := make([]string, 0, len(created))
		for _, emp := range created {
			out = append(out, emp.Name)
		}
		return out
	}
	assert.Equal(t, names(), names())
}

func TestSeedOrganizationRejectsBadOptions(t *testing.T) {
	employees := service.NewEmployeeService(service.EmployeeDependencies{EmployeeRepo: repository.NewMemoryEmployeeRepository()})
	_, err := seedOrganization(context.Background(), employees, seedOptions{count: 3, roots: 0, span: 2})
	assert.Error(t, err)
}
