// file: internals/features/finance/transfers/model/bank_transfer_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// ENUMS
// =========================================================

type TransferStatus string

const (
	TransferStatusPending  TransferStatus = "pending"
	TransferStatusApproved TransferStatus = "approved"
	TransferStatusRejected TransferStatus = "rejected"
)

type TransferPurpose string

const (
	TransferPurposeSubscription TransferPurpose = "subscription"
	TransferPurposeDiya         TransferPurpose = "diya"
	TransferPurposeDonation     TransferPurpose = "donation"
	TransferPurposeOther        TransferPurpose = "other"
)

func ValidTransferPurpose(p TransferPurpose) bool {
	switch p {
	case TransferPurposeSubscription, TransferPurposeDiya, TransferPurposeDonation, TransferPurposeOther:
		return true
	}
	return false
}

// =========================================================
// MODEL — bank_transfer_requests
// =========================================================

// BankTransferRequest is a member-submitted claim that money was wired to the
// fund's bank account. An admin reviews the receipt and either approves
// (which materializes a Payment) or rejects with a reason.
type BankTransferRequest struct {
	TransferID                 uuid.UUID       `gorm:"column:transfer_id;type:uuid;primaryKey" json:"transfer_id"`
	TransferRequesterID        uuid.UUID       `gorm:"column:transfer_requester_id;type:uuid;not null;index" json:"transfer_requester_id"`
	TransferBeneficiaryID      uuid.UUID       `gorm:"column:transfer_beneficiary_id;type:uuid;not null;index" json:"transfer_beneficiary_id"`
	TransferAmount             float64         `gorm:"column:transfer_amount;not null" json:"transfer_amount"`
	TransferPurpose            TransferPurpose `gorm:"column:transfer_purpose;type:varchar(30);not null" json:"transfer_purpose"`
	TransferPurposeReferenceID *uuid.UUID      `gorm:"column:transfer_purpose_reference_id;type:uuid" json:"transfer_purpose_reference_id,omitempty"`

	TransferReceiptURL      *string `gorm:"column:transfer_receipt_url;type:text" json:"transfer_receipt_url,omitempty"`
	TransferReceiptFilename *string `gorm:"column:transfer_receipt_filename;type:varchar(255)" json:"transfer_receipt_filename,omitempty"`
	TransferNotes           *string `gorm:"column:transfer_notes;type:text" json:"transfer_notes,omitempty"`

	TransferStatus          TransferStatus `gorm:"column:transfer_status;type:varchar(20);not null;default:'pending';index" json:"transfer_status"`
	TransferReviewedBy      *uuid.UUID     `gorm:"column:transfer_reviewed_by;type:uuid" json:"transfer_reviewed_by,omitempty"`
	TransferReviewedAt      *time.Time     `gorm:"column:transfer_reviewed_at" json:"transfer_reviewed_at,omitempty"`
	TransferRejectionReason *string        `gorm:"column:transfer_rejection_reason;type:text" json:"transfer_rejection_reason,omitempty"`

	TransferCreatedAt time.Time `gorm:"column:transfer_created_at;not null;index" json:"transfer_created_at"`
	TransferUpdatedAt time.Time `gorm:"column:transfer_updated_at;not null" json:"transfer_updated_at"`
}

func (BankTransferRequest) TableName() string {
	return "bank_transfer_requests"
}

func (m *BankTransferRequest) BeforeCreate(tx *gorm.DB) error {
	if m.TransferID == uuid.Nil {
		m.TransferID = uuid.New()
	}
	now := time.Now()
	if m.TransferCreatedAt.IsZero() {
		m.TransferCreatedAt = now
	}
	m.TransferUpdatedAt = now
	return nil
}
