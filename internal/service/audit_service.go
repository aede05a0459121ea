package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-service/internal/events"
)

// EventSink receives employee events for delivery outside the process.
type EventSink interface {
	Handle(ctx context.Context, event events.Event) error
}

// AuditService records employee changes and forwards them to the change feed.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	feed       EventSink
}

// NewAuditService creates the service. feed may be nil.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, feed EventSink) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		feed:       feed,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventEmployeeCreated, a.handleEmployeeCreated)
	a.dispatcher.Subscribe(events.EventEmployeeUpdated, a.handleEmployeeUpdated)
	a.dispatcher.Subscribe(events.EventEmployeeDeleted, a.handleEmployeeDeleted)
	if a.feed != nil {
		a.dispatcher.SubscribeAll(a.feed.Handle)
	}
}

func (a *AuditService) handleEmployeeCreated(ctx context.Context, event events.Event) error {
	a.logger.Info("EmployeeCreated", zap.String("employee_id", event.EmployeeID), zap.String("event_id", event.ID))
	return nil
}

func (a *AuditService) handleEmployeeUpdated(ctx context.Context, event events.Event) error {
	fields := []zap.Field{zap.String("employee_id", event.EmployeeID), zap.String("event_id", event.ID)}
	if payload, ok := event.Payload.(events.EmployeeUpdatedPayload); ok && payload.ManagerChanged {
		fields = append(fields,
			zap.Stringp("old_manager_id", payload.OldManagerID),
			zap.Stringp("new_manager_id", payload.NewManagerID))
	}
	a.logger.Info("EmployeeUpdated", fields...)
	return nil
}

func (a *AuditService) handleEmployeeDeleted(ctx context.Context, event events.Event) error {
	fields := []zap.Field{zap.String("employee_id", event.EmployeeID), zap.String("event_id", event.ID)}
	if payload, ok := event.Payload.(events.EmployeeDeletedPayload); ok {
		fields = append(fields, zap.Int("reparented_to_root", len(payload.DetachedReportIDs)))
	}
	a.logger.Info("EmployeeDeleted", fields...)
	return nil
}
