// file: internals/features/users/roles/dto/active_role_dto.go
package dto

import (
	"github.com/google/uuid"
)

type AssignRoleDTO struct {
	UserID    uuid.UUID `json:"user_id" validate:"required"`
	Role      string    `json:"role" validate:"required"`
	StartDate *string   `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string   `json:"end_date,omitempty"`   // YYYY-MM-DD
	Notes     *string   `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type UpdateRoleDTO struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}
