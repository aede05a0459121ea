package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeCreated EventType = "employee_created"
	EventEmployeeUpdated EventType = "employee_updated"
	EventEmployeeDeleted EventType = "employee_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	EmployeeID string      `json:"employee_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// EmployeeUpdatedPayload payload.
type EmployeeUpdatedPayload struct {
	ManagerChanged  bool    `json:"manager_changed"`
	OldManagerID    *string `json:"old_manager_id,omitempty"`
	NewManagerID    *string `json:"new_manager_id,omitempty"`
	PortraitChanged bool    `json:"portrait_changed"`
}

// EmployeeDeletedPayload payload. DetachedReportIDs are the direct reports
// that became roots.
type EmployeeDeletedPayload struct {
	DetachedReportIDs []string `json:"detached_report_ids"`
}
