// file: internals/features/finance/transfers/model/payment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
)

type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// =========================================================
// MODEL — payments (settled money movements)
// =========================================================

// Payment is a settled money movement. Approving a bank transfer request is
// the only write path in this service; rows are never updated afterwards.
type Payment struct {
	PaymentID            uuid.UUID       `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	PaymentPayerID       uuid.UUID       `gorm:"column:payment_payer_id;type:uuid;not null;index" json:"payment_payer_id"`
	PaymentBeneficiaryID uuid.UUID       `gorm:"column:payment_beneficiary_id;type:uuid;not null;index" json:"payment_beneficiary_id"`
	PaymentAmount        float64         `gorm:"column:payment_amount;not null" json:"payment_amount"`
	PaymentCategory      TransferPurpose `gorm:"column:payment_category;type:varchar(30);not null;index" json:"payment_category"`
	PaymentMethod        PaymentMethod   `gorm:"column:payment_method;type:varchar(30);not null" json:"payment_method"`
	PaymentStatus        PaymentStatus   `gorm:"column:payment_status;type:varchar(20);not null;default:'completed'" json:"payment_status"`
	PaymentIsOnBehalf    bool            `gorm:"column:payment_is_on_behalf;not null;default:false" json:"payment_is_on_behalf"`
	PaymentReferenceID   *uuid.UUID      `gorm:"column:payment_reference_id;type:uuid" json:"payment_reference_id,omitempty"`
	PaymentNotes         *string         `gorm:"column:payment_notes;type:text" json:"payment_notes,omitempty"`
	PaymentCreatedAt     time.Time       `gorm:"column:payment_created_at;not null;index" json:"payment_created_at"`
	PaymentUpdatedAt     time.Time       `gorm:"column:payment_updated_at;not null" json:"payment_updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

func (m *Payment) BeforeCreate(tx *gorm.DB) error {
	if m.PaymentID == uuid.Nil {
		m.PaymentID = uuid.New()
	}
	now := time.Now()
	if m.PaymentCreatedAt.IsZero() {
		m.PaymentCreatedAt = now
	}
	m.PaymentUpdatedAt = now
	return nil
}
