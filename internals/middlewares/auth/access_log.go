// internals/middlewares/auth/access_log.go
package auth

import (
	"strings"

	"gorm.io/gorm"

	auditModel "alshuail_backend/internals/features/audit/model"
	auditService "alshuail_backend/internals/features/audit/service"
)

// logAccessAsync appends an access-audit row off the request path. Failures
// are logged inside LogAction and swallowed here.
func logAccessAsync(db *gorm.DB, actx *AuthContext, method, path, ip, userAgent string) {
	id := actx.ID
	entry := auditService.ActionEntry{
		UserID:    &id,
		UserEmail: actx.Email,
		UserRole:  actx.Role,
		Action:    auditModel.ActionAccessLogged,
		Details:   method + " " + path + " | Module: " + extractModule(path),
		IPAddress: ip,
		UserAgent: userAgent,
	}
	go func() {
		_ = auditService.LogAction(db, entry)
	}()
}

// extractModule pulls the feature segment out of /api/<module>/...
func extractModule(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "api" {
		return parts[1]
	}
	return "unknown"
}
