// file: internals/features/finance/transfers/dto/bank_transfer_dto.go
package dto

import (
	"github.com/google/uuid"

	transferModel "alshuail_backend/internals/features/finance/transfers/model"
)

type CreateTransferDTO struct {
	BeneficiaryID      uuid.UUID                     `json:"beneficiary_id" form:"beneficiary_id" validate:"required"`
	Amount             float64                       `json:"amount" form:"amount" validate:"required,gt=0"`
	Purpose            transferModel.TransferPurpose `json:"purpose" form:"purpose" validate:"required"`
	PurposeReferenceID *uuid.UUID                    `json:"purpose_reference_id,omitempty" form:"purpose_reference_id"`
	Notes              *string                       `json:"notes,omitempty" form:"notes"`
}

type ReviewTransferDTO struct {
	Notes  *string `json:"notes,omitempty"`
	Reason string  `json:"reason"`
}

// MemberRef is the identity slice embedded in transfer responses.
type MemberRef struct {
	ID               uuid.UUID `json:"id"`
	FullName         string    `json:"full_name"`
	MembershipNumber string    `json:"membership_number"`
	Phone            string    `json:"phone,omitempty"`
}

type TransferResponse struct {
	transferModel.BankTransferRequest
	Requester   *MemberRef `json:"requester,omitempty"`
	Beneficiary *MemberRef `json:"beneficiary,omitempty"`
}
