package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// =========================================================
// ENUM — administrative action tags
// =========================================================

type AuditAction string

const (
	ActionMemberCreated     AuditAction = "member_created"
	ActionMemberUpdated     AuditAction = "member_updated"
	ActionMemberApproved    AuditAction = "member_approved"
	ActionMemberRejected    AuditAction = "member_rejected"
	ActionRoleAssigned      AuditAction = "role_assigned"
	ActionRoleRevoked       AuditAction = "role_revoked"
	ActionBalanceAdjusted   AuditAction = "balance_adjusted"
	ActionTransferApproved  AuditAction = "transfer_approved"
	ActionTransferRejected  AuditAction = "transfer_rejected"
	ActionDiyaCaseUpdated   AuditAction = "diya_case_updated"
	ActionAccessLogged      AuditAction = "access"
)

// =========================================================
// MODEL — audit_logs (append only, never updated or deleted)
// =========================================================

type AuditLog struct {
	AuditLogID        uuid.UUID      `gorm:"column:audit_log_id;type:uuid;primaryKey" json:"audit_log_id"`
	AuditLogUserID    *uuid.UUID     `gorm:"column:audit_log_user_id;type:uuid;index" json:"audit_log_user_id"`
	AuditLogUserEmail *string        `gorm:"column:audit_log_user_email;type:varchar(120)" json:"audit_log_user_email,omitempty"`
	AuditLogUserRole  *string        `gorm:"column:audit_log_user_role;type:varchar(50)" json:"audit_log_user_role,omitempty"`
	AuditLogAction    AuditAction    `gorm:"column:audit_log_action;type:varchar(40);not null;index" json:"audit_log_action"`
	AuditLogDetails   *string        `gorm:"column:audit_log_details;type:text" json:"audit_log_details,omitempty"`
	AuditLogResource  *string        `gorm:"column:audit_log_resource;type:varchar(60)" json:"audit_log_resource,omitempty"`
	AuditLogResourceID *uuid.UUID    `gorm:"column:audit_log_resource_id;type:uuid;index" json:"audit_log_resource_id,omitempty"`
	AuditLogChanges   datatypes.JSON `gorm:"column:audit_log_changes" json:"audit_log_changes,omitempty"`
	AuditLogIPAddress *string        `gorm:"column:audit_log_ip_address;type:varchar(64)" json:"audit_log_ip_address,omitempty"`
	AuditLogUserAgent *string        `gorm:"column:audit_log_user_agent;type:text" json:"audit_log_user_agent,omitempty"`
	AuditLogCreatedAt time.Time      `gorm:"column:audit_log_created_at;not null;index" json:"audit_log_created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

func (m *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if m.AuditLogID == uuid.Nil {
		m.AuditLogID = uuid.New()
	}
	if m.AuditLogCreatedAt.IsZero() {
		m.AuditLogCreatedAt = time.Now()
	}
	return nil
}
