package worker

import (
	"github.com/spec-kit/orgchart-service/internal/service"
)

// StartAuditWorker registers audit and change-feed handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
