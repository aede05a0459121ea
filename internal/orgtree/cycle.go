package orgtree

import "github.com/spec-kit/orgchart-service/internal/domain"

// WouldCycle reports whether making managerID the manager of id would put id
// into its own reporting chain. The walk follows managers upward from
// managerID and stops at a missing or unresolved manager.
func WouldCycle(employees []domain.Employee, id, managerID string) bool {
	if managerID == "" {
		return false
	}
	if managerID == id {
		return true
	}

	index := make(map[string]domain.Employee, len(employees))
	for _, emp := range employees {
		index[emp.ID] = emp
	}

	current := managerID
	// bounded so a pre-existing loop elsewhere cannot spin forever
	for steps := 0; steps <= len(employees); steps++ {
		if current == id {
			return true
		}
		emp, ok := index[current]
		if !ok || !emp.HasManager() {
			return false
		}
		current = emp.ManagerID()
	}
	return false
}
