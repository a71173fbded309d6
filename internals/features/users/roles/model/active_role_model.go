package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActiveRole is a time-bounded role grant, additive to the primary role that
// rides in the token. Nil StartDate/EndDate mean open-ended on that side.
type ActiveRole struct {
	ActiveRoleID         uuid.UUID  `gorm:"column:active_role_id;type:uuid;primaryKey" json:"active_role_id"`
	ActiveRoleUserID     uuid.UUID  `gorm:"column:active_role_user_id;type:uuid;not null;index" json:"active_role_user_id"`
	ActiveRoleName       string     `gorm:"column:active_role_name;type:varchar(50);not null" json:"active_role_name"`
	ActiveRoleStartDate  *time.Time `gorm:"column:active_role_start_date" json:"active_role_start_date,omitempty"`
	ActiveRoleEndDate    *time.Time `gorm:"column:active_role_end_date" json:"active_role_end_date,omitempty"`
	ActiveRoleIsActive   bool       `gorm:"column:active_role_is_active;not null;index" json:"active_role_is_active"`
	ActiveRoleNotes      *string    `gorm:"column:active_role_notes;type:varchar(500)" json:"active_role_notes,omitempty"`
	ActiveRoleAssignedBy uuid.UUID  `gorm:"column:active_role_assigned_by;type:uuid;not null" json:"active_role_assigned_by"`
	ActiveRoleCreatedAt  time.Time  `gorm:"column:active_role_created_at;not null" json:"active_role_created_at"`
	ActiveRoleUpdatedAt  time.Time  `gorm:"column:active_role_updated_at;not null" json:"active_role_updated_at"`
}

func (ActiveRole) TableName() string {
	return "active_roles"
}

func (m *ActiveRole) BeforeCreate(tx *gorm.DB) error {
	if m.ActiveRoleID == uuid.Nil {
		m.ActiveRoleID = uuid.New()
	}
	now := time.Now()
	if m.ActiveRoleCreatedAt.IsZero() {
		m.ActiveRoleCreatedAt = now
	}
	m.ActiveRoleUpdatedAt = now
	return nil
}

// ActiveOn reports whether the grant applies on the given day.
func (m *ActiveRole) ActiveOn(day time.Time) bool {
	if !m.ActiveRoleIsActive {
		return false
	}
	if m.ActiveRoleStartDate != nil && day.Before(truncateDay(*m.ActiveRoleStartDate)) {
		return false
	}
	if m.ActiveRoleEndDate != nil && day.After(endOfDay(*m.ActiveRoleEndDate)) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}
