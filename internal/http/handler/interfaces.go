package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"salon-service/internal/audit"
)

// AuditLogger records security-relevant events without blocking the
// request. Satisfied by audit.Logger; nil disables auditing.
type AuditLogger interface {
	LogFromContext(c echo.Context, resourceType audit.ResourceType, resourceID *uuid.UUID, action audit.Action, status audit.Status, metadata map[string]any) error
}

func auditEvent(l AuditLogger, c echo.Context, resourceType audit.ResourceType, resourceID *uuid.UUID, action audit.Action, status audit.Status, metadata map[string]any) {
	if l == nil {
		return
	}
	_ = l.LogFromContext(c, resourceType, resourceID, action, status, metadata)
}
