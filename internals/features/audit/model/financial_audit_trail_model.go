package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FinancialAuditTrail keeps before/after snapshots for every financial
// mutation. Rows are written inside the same transaction as the mutation they
// describe.
type FinancialAuditTrail struct {
	FinAuditID            uuid.UUID      `gorm:"column:fin_audit_id;type:uuid;primaryKey" json:"fin_audit_id"`
	FinAuditUserID        uuid.UUID      `gorm:"column:fin_audit_user_id;type:uuid;not null;index" json:"fin_audit_user_id"`
	FinAuditOperation     string         `gorm:"column:fin_audit_operation;type:varchar(40);not null;index" json:"fin_audit_operation"`
	FinAuditResourceType  string         `gorm:"column:fin_audit_resource_type;type:varchar(40);not null" json:"fin_audit_resource_type"`
	FinAuditResourceID    uuid.UUID      `gorm:"column:fin_audit_resource_id;type:uuid;not null;index" json:"fin_audit_resource_id"`
	FinAuditPreviousValue datatypes.JSON `gorm:"column:fin_audit_previous_value" json:"fin_audit_previous_value,omitempty"`
	FinAuditNewValue      datatypes.JSON `gorm:"column:fin_audit_new_value" json:"fin_audit_new_value,omitempty"`
	FinAuditMetadata      datatypes.JSON `gorm:"column:fin_audit_metadata" json:"fin_audit_metadata,omitempty"`
	FinAuditIPAddress     *string        `gorm:"column:fin_audit_ip_address;type:varchar(64)" json:"fin_audit_ip_address,omitempty"`
	FinAuditCreatedAt     time.Time      `gorm:"column:fin_audit_created_at;not null;index" json:"fin_audit_created_at"`
}

func (FinancialAuditTrail) TableName() string {
	return "financial_audit_trail"
}

func (m *FinancialAuditTrail) BeforeCreate(tx *gorm.DB) error {
	if m.FinAuditID == uuid.Nil {
		m.FinAuditID = uuid.New()
	}
	if m.FinAuditCreatedAt.IsZero() {
		m.FinAuditCreatedAt = time.Now()
	}
	return nil
}
