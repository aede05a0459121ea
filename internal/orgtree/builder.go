// Package orgtree turns the flat employee set into the organization forest.
package orgtree

import "github.com/spec-kit/orgchart-service/internal/domain"

// Build converts employees into an ordered forest of organization nodes.
//
// Employees without a manager, or whose manager id does not resolve, become
// roots. Roots and subordinates keep the order of the input slice. The
// reporting graph is assumed acyclic; members of a cycle are unreachable from
// any root and are therefore left out rather than looping.
func Build(employees []domain.Employee) []*domain.OrganizationNode {
	forest := make([]*domain.OrganizationNode, 0)
	if len(employees) == 0 {
		return forest
	}

	nodes := make(map[string]*domain.OrganizationNode, len(employees))
	for _, emp := range employees {
		nodes[emp.ID] = &domain.OrganizationNode{
			Employee:     emp,
			Subordinates: make([]*domain.OrganizationNode, 0),
		}
	}

	children := make(map[string][]*domain.OrganizationNode, len(employees))
	for _, emp := range employees {
		node := nodes[emp.ID]
		if parentID := emp.ManagerID(); parentID != "" {
			if _, ok := nodes[parentID]; ok {
				children[parentID] = append(children[parentID], node)
				continue
			}
		}
		forest = append(forest, node)
	}

	stack := make([]*domain.OrganizationNode, 0, len(forest))
	stack = append(stack, forest...)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		subs := children[node.ID]
		if len(subs) == 0 {
			continue
		}
		node.Subordinates = subs
		stack = append(stack, subs...)
	}

	return forest
}

// Walk visits every node of the forest depth-first, parents before children.
// Returning false from fn stops the walk.
func Walk(forest []*domain.OrganizationNode, fn func(node *domain.OrganizationNode, depth int) bool) {
	type frame struct {
		node  *domain.OrganizationNode
		depth int
	}
	stack := make([]frame, 0, len(forest))
	for i := len(forest) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: forest[i]})
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(top.node, top.depth) {
			return
		}
		for i := len(top.node.Subordinates) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: top.node.Subordinates[i], depth: top.depth + 1})
		}
	}
}

// Count returns the number of nodes in the forest.
func Count(forest []*domain.OrganizationNode) int {
	total := 0
	Walk(forest, func(*domain.OrganizationNode, int) bool {
		total++
		return true
	})
	return total
}

// Find returns the subtree rooted at id, or nil.
func Find(forest []*domain.OrganizationNode, id string) *domain.OrganizationNode {
	var found *domain.OrganizationNode
	Walk(forest, func(node *domain.OrganizationNode, _ int) bool {
		if node.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}
