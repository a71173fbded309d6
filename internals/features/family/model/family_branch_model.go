// file: internals/features/family/model/family_branch_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FamilyBranch groups members into the fund's administrative subdivisions.
// Branches themselves can nest one level under a parent branch.
type FamilyBranch struct {
	BranchID       uuid.UUID  `gorm:"column:branch_id;type:uuid;primaryKey" json:"branch_id"`
	BranchName     string     `gorm:"column:branch_name;type:varchar(150);not null;unique" json:"branch_name"`
	BranchParentID *uuid.UUID `gorm:"column:branch_parent_id;type:uuid;index" json:"branch_parent_id,omitempty"`
	BranchNotes    *string    `gorm:"column:branch_notes;type:varchar(500)" json:"branch_notes,omitempty"`
	BranchCreatedAt time.Time `gorm:"column:branch_created_at;not null" json:"branch_created_at"`
	BranchUpdatedAt time.Time `gorm:"column:branch_updated_at;not null" json:"branch_updated_at"`
}

func (FamilyBranch) TableName() string {
	return "family_branches"
}

func (m *FamilyBranch) BeforeCreate(tx *gorm.DB) error {
	if m.BranchID == uuid.Nil {
		m.BranchID = uuid.New()
	}
	now := time.Now()
	if m.BranchCreatedAt.IsZero() {
		m.BranchCreatedAt = now
	}
	m.BranchUpdatedAt = now
	return nil
}
