package dto

import (
	"time"

	"github.com/google/uuid"

	"alshuail_backend/internals/features/members/model"
)

////////////////////////////////////////////////////////////////////////////////
// REQUESTS
////////////////////////////////////////////////////////////////////////////////

type MemberCreateDTO struct {
	MemberFullName       string     `json:"member_full_name" validate:"required,min=3,max=150"`
	MemberPhone          string     `json:"member_phone" validate:"required"`
	MemberEmail          *string    `json:"member_email,omitempty" validate:"omitempty,email"`
	MemberFamilyBranchID *uuid.UUID `json:"member_family_branch_id,omitempty"`
	MemberFatherID       *uuid.UUID `json:"member_father_id,omitempty"`
	InitialBalance       float64    `json:"initial_balance" validate:"omitempty,min=0"`
}

type MemberUpdateDTO struct {
	MemberFullName       *string    `json:"member_full_name,omitempty" validate:"omitempty,min=3,max=150"`
	MemberPhone          *string    `json:"member_phone,omitempty"`
	MemberEmail          *string    `json:"member_email,omitempty" validate:"omitempty,email"`
	MemberFamilyBranchID *uuid.UUID `json:"member_family_branch_id,omitempty"`
	MemberFatherID       *uuid.UUID `json:"member_father_id,omitempty"`
}

type MemberRejectDTO struct {
	Reason string `json:"reason" validate:"required,min=5,max=500"`
}

////////////////////////////////////////////////////////////////////////////////
// RESPONSES
////////////////////////////////////////////////////////////////////////////////

type MemberResponse struct {
	MemberID               uuid.UUID          `json:"member_id"`
	MemberMembershipNumber string             `json:"member_membership_number"`
	MemberFullName         string             `json:"member_full_name"`
	MemberPhone            string             `json:"member_phone"`
	MemberEmail            *string            `json:"member_email,omitempty"`
	MemberStatus           model.MemberStatus `json:"member_status"`
	MemberFamilyBranchID   *uuid.UUID         `json:"member_family_branch_id,omitempty"`
	MemberBalance          float64            `json:"member_balance"`
	YearlyPayments         map[int]float64    `json:"yearly_payments"`
	MemberCreatedAt        time.Time          `json:"member_created_at"`
}

func ToMemberResponse(m *model.Member) MemberResponse {
	return MemberResponse{
		MemberID:               m.MemberID,
		MemberMembershipNumber: m.MemberMembershipNumber,
		MemberFullName:         m.MemberFullName,
		MemberPhone:            m.MemberPhone,
		MemberEmail:            m.MemberEmail,
		MemberStatus:           m.MemberStatus,
		MemberFamilyBranchID:   m.MemberFamilyBranchID,
		MemberBalance:          m.MemberBalance,
		YearlyPayments: map[int]float64{
			2021: m.MemberPayment2021,
			2022: m.MemberPayment2022,
			2023: m.MemberPayment2023,
			2024: m.MemberPayment2024,
			2025: m.MemberPayment2025,
		},
		MemberCreatedAt: m.MemberCreatedAt,
	}
}
