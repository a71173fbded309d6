package service

import (
	"log"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	auditModel "alshuail_backend/internals/features/audit/model"
)

// ActionEntry describes one administrative action to record.
type ActionEntry struct {
	UserID     *uuid.UUID
	UserEmail  string
	UserRole   string
	Action     auditModel.AuditAction
	Resource   string
	ResourceID *uuid.UUID
	Changes    interface{} // JSON-serializable change payload
	Details    string
	IPAddress  string
	UserAgent  string
}

// LogAction appends one audit row. Failure is returned as a value and logged;
// it never blocks the primary action — callers are free to ignore the error.
func LogAction(db *gorm.DB, e ActionEntry) error {
	row := auditModel.AuditLog{
		AuditLogUserID: e.UserID,
		AuditLogAction: e.Action,
	}
	if e.UserEmail != "" {
		row.AuditLogUserEmail = &e.UserEmail
	}
	if e.UserRole != "" {
		row.AuditLogUserRole = &e.UserRole
	}
	if e.Resource != "" {
		row.AuditLogResource = &e.Resource
	}
	row.AuditLogResourceID = e.ResourceID
	if e.Details != "" {
		row.AuditLogDetails = &e.Details
	}
	if e.IPAddress != "" {
		row.AuditLogIPAddress = &e.IPAddress
	}
	if e.UserAgent != "" {
		row.AuditLogUserAgent = &e.UserAgent
	}
	if e.Changes != nil {
		if b, err := sonic.Marshal(e.Changes); err == nil {
			row.AuditLogChanges = datatypes.JSON(b)
		}
	}

	if err := db.Create(&row).Error; err != nil {
		log.Printf("[ERROR] audit log write failed (action=%s): %v", e.Action, err)
		return err
	}
	return nil
}

// MarshalJSONValue is shared by writers that snapshot before/after state.
func MarshalJSONValue(v interface{}) datatypes.JSON {
	b, err := sonic.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte(`{}`))
	}
	return datatypes.JSON(b)
}
