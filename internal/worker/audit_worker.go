package worker

import (
	"github.com/spec-kit/participant-service/internal/service"
)

// StartAuditWorker registers lifecycle history handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
