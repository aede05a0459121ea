package orgtree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/orgchart-service/internal/domain"
	"github.com/spec-kit/orgchart-service/internal/testutil/stubs"
)

func ids(nodes []*domain.OrganizationNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestBuildEmpty(t *testing.T) {
	forest := Build(nil)
	require.NotNil(t, forest)
	assert.Empty(t, forest)
}

func TestBuildShapes(t *testing.T) {
	ceo := stubs.NewEmployeeStub().WithID("ceo").Get()
	cto := stubs.NewEmployeeStub().WithID("cto").WithManager("ceo").Get()
	cfo := stubs.NewEmployeeStub().WithID("cfo").WithManager("ceo").Get()
	dev := stubs.NewEmployeeStub().WithID("dev").WithManager("cto").Get()
	contractor := stubs.NewEmployeeStub().WithID("contractor").WithManager("gone").Get()
	solo := stubs.NewEmployeeStub().WithID("solo").Get()

	// children listed before their manager still attach to it
	employees := []domain.Employee{dev, ceo, cto, contractor, cfo, solo}
	forest := Build(employees)

	assert.Equal(t, []string{"ceo", "contractor", "solo"}, ids(forest))
	assert.Equal(t, len(employees), Count(forest))

	root := forest[0]
	assert.Equal(t, []string{"cto", "cfo"}, ids(root.Subordinates))
	assert.Equal(t, []string{"dev"}, ids(root.Subordinates[0].Subordinates))
	assert.Empty(t, root.Subordinates[1].Subordinates)
	assert.NotNil(t, root.Subordinates[1].Subordinates)
}

func TestBuildEveryNodeOnce(t *testing.T) {
	employees := stubs.Chain(5)
	employees = append(employees, stubs.NewEmployeeStub().WithManager(employees[1].ID).Get())
	employees = append(employees, stubs.NewEmployeeStub().Get())

	forest := Build(employees)

	seen := map[string]int{}
	Walk(forest, func(node *domain.OrganizationNode, _ int) bool {
		seen[node.ID]++
		return true
	})
	require.Len(t, seen, len(employees))
	for _, emp := range employees {
		assert.Equal(t, 1, seen[emp.ID], "employee %s", emp.ID)
	}
}

func TestBuildResolvedManagerIsParent(t *testing.T) {
	employees := stubs.Chain(4)
	forest := Build(employees)

	parents := map[string]string{}
	Walk(forest, func(node *domain.OrganizationNode, _ int) bool {
		for _, sub := range node.Subordinates {
			parents[sub.ID] = node.ID
		}
		return true
	})

	require.Len(t, forest, 1)
	assert.Equal(t, employees[0].ID, forest[0].ID)
	for _, emp := range employees[1:] {
		assert.Equal(t, emp.ManagerID(), parents[emp.ID])
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	employees := stubs.Chain(3)
	employees = append(employees, stubs.NewEmployeeStub().WithManager(employees[0].ID).Get())

	first := Build(employees)
	second := Build(employees)
	assert.Empty(t, cmp.Diff(first, second))
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	employees := stubs.Chain(3)
	before := append([]domain.Employee(nil), employees...)
	Build(employees)
	assert.Empty(t, cmp.Diff(before, employees))
}

func TestBuildDeepChainUsesNoRecursion(t *testing.T) {
	employees := stubs.Chain(20000)
	forest := Build(employees)
	require.Len(t, forest, 1)
	assert.Equal(t, 20000, Count(forest))

	maxDepth := 0
	Walk(forest, func(_ *domain.OrganizationNode, depth int) bool {
		if depth > maxDepth {
			maxDepth = depth
		}
		return true
	})
	assert.Equal(t, 19999, maxDepth)
}

func TestBuildSkipsUnreachableCycle(t *testing.T) {
	a := stubs.NewEmployeeStub().WithID("a").WithManager("b").Get()
	b := stubs.NewEmployeeStub().WithID("b").WithManager("a").Get()
	root := stubs.NewEmployeeStub().WithID("root").Get()

	forest := Build([]domain.Employee{a, b, root})
	assert.Equal(t, []string{"root"}, ids(forest))
}

func TestFind(t *testing.T) {
	employees := stubs.Chain(3)
	forest := Build(employees)

	sub := Find(forest, employees[1].ID)
	require.NotNil(t, sub)
	assert.Equal(t, []string{employees[2].ID}, ids(sub.Subordinates))
	assert.Nil(t, Find(forest, "missing"))
}

func TestWouldCycle(t *testing.T) {
	chain := stubs.Chain(4) // 0 <- 1 <- 2 <- 3

	assert.True(t, WouldCycle(chain, chain[0].ID, chain[0].ID), "self")
	assert.True(t, WouldCycle(chain, chain[0].ID, chain[3].ID), "descendant")
	assert.True(t, WouldCycle(chain, chain[1].ID, chain[2].ID), "direct report")
	assert.False(t, WouldCycle(chain, chain[3].ID, chain[1].ID), "ancestor")
	assert.False(t, WouldCycle(chain, chain[2].ID, "dangling"))
	assert.False(t, WouldCycle(chain, chain[2].ID, ""))
}

func TestWouldCycleTerminatesOnExistingLoop(t *testing.T) {
	a := stubs.NewEmployeeStub().WithID("a").WithManager("b").Get()
	b := stubs.NewEmployeeStub().WithID("b").WithManager("a").Get()
	c := stubs.NewEmployeeStub().WithID("c").Get()

	assert.False(t, WouldCycle([]domain.Employee{a, b, c}, "c", "a"))
}
