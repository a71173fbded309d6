// file: internals/features/diyas/dto/diya_dto.go
package dto

import (
	"github.com/google/uuid"

	diyaModel "alshuail_backend/internals/features/diyas/model"
)

type CreateDiyaDTO struct {
	CaseNumber       string  `json:"case_number" validate:"required,min=3,max=30"`
	DeceasedName     string  `json:"deceased_name" validate:"required,min=2,max=150"`
	BeneficiaryName  string  `json:"beneficiary_name" validate:"required,min=2,max=150"`
	BeneficiaryPhone *string `json:"beneficiary_phone,omitempty"`
	AmountRequired   float64 `json:"amount_required" validate:"required,gt=0"`
	Notes            *string `json:"notes,omitempty"`
}

type UpdateDiyaDTO struct {
	DeceasedName     *string               `json:"deceased_name,omitempty" validate:"omitempty,min=2,max=150"`
	BeneficiaryName  *string               `json:"beneficiary_name,omitempty" validate:"omitempty,min=2,max=150"`
	BeneficiaryPhone *string               `json:"beneficiary_phone,omitempty"`
	AmountRequired   *float64              `json:"amount_required,omitempty" validate:"omitempty,gt=0"`
	Status           *diyaModel.DiyaStatus `json:"status,omitempty"`
	Notes            *string               `json:"notes,omitempty"`
}

type ContributeDTO struct {
	MemberID *uuid.UUID `json:"member_id,omitempty"`
	Amount   float64    `json:"amount" validate:"required,gt=0"`
	Notes    *string    `json:"notes,omitempty"`
}
