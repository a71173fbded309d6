// file: internals/features/finance/transfers/service/transfer_service.go
package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	auditModel "alshuail_backend/internals/features/audit/model"
	auditService "alshuail_backend/internals/features/audit/service"
	balanceModel "alshuail_backend/internals/features/finance/balance/model"
	balanceService "alshuail_backend/internals/features/finance/balance/service"
	transferModel "alshuail_backend/internals/features/finance/transfers/model"
	memberModel "alshuail_backend/internals/features/members/model"
)

var (
	ErrTransferNotFound    = errors.New("transfer request not found")
	ErrTransferNotPending  = errors.New("transfer request is not pending")
	ErrBeneficiaryNotFound = errors.New("beneficiary member not found")
)

// =======================================================
// SERVICE
// =======================================================

type TransferService struct {
	DB     *gorm.DB
	Ledger *balanceService.LedgerService
}

func NewTransferService(db *gorm.DB) *TransferService {
	return &TransferService{DB: db, Ledger: balanceService.NewLedgerService(db)}
}

type CreateInput struct {
	RequesterID        uuid.UUID
	BeneficiaryID      uuid.UUID
	Amount             float64
	Purpose            transferModel.TransferPurpose
	PurposeReferenceID *uuid.UUID
	ReceiptURL         *string
	ReceiptFilename    *string
	Notes              *string
}

// Create records a pending transfer request after checking the beneficiary
// exists.
func (s *TransferService) Create(in CreateInput) (*transferModel.BankTransferRequest, error) {
	var beneficiary memberModel.Member
	if err := s.DB.First(&beneficiary, "member_id = ?", in.BeneficiaryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBeneficiaryNotFound
		}
		return nil, err
	}

	row := transferModel.BankTransferRequest{
		TransferRequesterID:        in.RequesterID,
		TransferBeneficiaryID:      in.BeneficiaryID,
		TransferAmount:             in.Amount,
		TransferPurpose:            in.Purpose,
		TransferPurposeReferenceID: in.PurposeReferenceID,
		TransferReceiptURL:         in.ReceiptURL,
		TransferReceiptFilename:    in.ReceiptFilename,
		TransferNotes:              in.Notes,
		TransferStatus:             transferModel.TransferStatusPending,
	}
	if err := s.DB.Create(&row).Error; err != nil {
		return nil, err
	}

	log.Printf("[INFO] bank transfer request created: %s (requester=%s beneficiary=%s amount=%.2f purpose=%s)",
		row.TransferID, in.RequesterID, in.BeneficiaryID, in.Amount, in.Purpose)
	return &row, nil
}

type Reviewer struct {
	ID    uuid.UUID
	Email string
	Role  string
}

type ApproveResult struct {
	Transfer *transferModel.BankTransferRequest `json:"transfer"`
	Payment  *transferModel.Payment             `json:"payment"`
}

// Approve flips a pending request to approved and materializes the Payment
// row in one transaction. For subscription-purpose transfers the
// beneficiary's balance is then credited through the ledger, so the credit
// carries its own adjustment and audit rows.
func (s *TransferService) Approve(transferID uuid.UUID, reviewer Reviewer, notes *string, ip, userAgent string) (*ApproveResult, error) {
	var transfer transferModel.BankTransferRequest
	var payment transferModel.Payment

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&transfer, "transfer_id = ?", transferID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransferNotFound
			}
			return err
		}
		if transfer.TransferStatus != transferModel.TransferStatusPending {
			return ErrTransferNotPending
		}

		now := time.Now()
		transfer.TransferStatus = transferModel.TransferStatusApproved
		transfer.TransferReviewedBy = &reviewer.ID
		transfer.TransferReviewedAt = &now
		if notes != nil && strings.TrimSpace(*notes) != "" {
			transfer.TransferNotes = notes
		}
		transfer.TransferUpdatedAt = now
		if err := tx.Save(&transfer).Error; err != nil {
			return err
		}

		paymentNotes := fmt.Sprintf("تحويل بنكي معتمد - رقم الطلب: %s", transferID)
		payment = transferModel.Payment{
			PaymentPayerID:       transfer.TransferRequesterID,
			PaymentBeneficiaryID: transfer.TransferBeneficiaryID,
			PaymentAmount:        transfer.TransferAmount,
			PaymentCategory:      transfer.TransferPurpose,
			PaymentMethod:        transferModel.PaymentMethodBankTransfer,
			PaymentStatus:        transferModel.PaymentStatusCompleted,
			PaymentIsOnBehalf:    transfer.TransferRequesterID != transfer.TransferBeneficiaryID,
			PaymentReferenceID:   transfer.TransferPurposeReferenceID,
			PaymentNotes:         &paymentNotes,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, err
	}

	if transfer.TransferPurpose == transferModel.TransferPurposeSubscription {
		reason := fmt.Sprintf("دفعة اشتراك عبر تحويل بنكي - طلب %s", transferID)
		if _, err := s.Ledger.Adjust(balanceService.AdjustInput{
			MemberID:  transfer.TransferBeneficiaryID,
			Type:      balanceModel.AdjustmentCredit,
			Amount:    transfer.TransferAmount,
			Reason:    reason,
			Actor:     balanceService.Actor{ID: reviewer.ID, Email: reviewer.Email, Role: reviewer.Role},
			IPAddress: ip,
			UserAgent: userAgent,
		}); err != nil {
			// the payment stands; the credit can be replayed manually
			log.Printf("[ERROR] balance credit after transfer approval failed (transfer=%s): %v", transferID, err)
		}
	}

	if err := auditService.LogAction(s.DB, auditService.ActionEntry{
		UserID:     &reviewer.ID,
		UserEmail:  reviewer.Email,
		UserRole:   reviewer.Role,
		Action:     auditModel.ActionTransferApproved,
		Resource:   "bank_transfer_request",
		ResourceID: &transfer.TransferID,
		Changes: map[string]interface{}{
			"amount":         transfer.TransferAmount,
			"purpose":        transfer.TransferPurpose,
			"beneficiary_id": transfer.TransferBeneficiaryID,
			"payment_id":     payment.PaymentID,
		},
		IPAddress: ip,
		UserAgent: userAgent,
	}); err != nil {
		log.Printf("[WARN] transfer approval audit failed: %v", err)
	}

	return &ApproveResult{Transfer: &transfer, Payment: &payment}, nil
}

// Reject marks a pending request rejected. The reason is required and
// validated by the caller.
func (s *TransferService) Reject(transferID uuid.UUID, reviewer Reviewer, reason string, ip, userAgent string) (*transferModel.BankTransferRequest, error) {
	var transfer transferModel.BankTransferRequest

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&transfer, "transfer_id = ?", transferID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransferNotFound
			}
			return err
		}
		if transfer.TransferStatus != transferModel.TransferStatusPending {
			return ErrTransferNotPending
		}

		now := time.Now()
		trimmed := strings.TrimSpace(reason)
		transfer.TransferStatus = transferModel.TransferStatusRejected
		transfer.TransferReviewedBy = &reviewer.ID
		transfer.TransferReviewedAt = &now
		transfer.TransferRejectionReason = &trimmed
		transfer.TransferUpdatedAt = now
		return tx.Save(&transfer).Error
	})
	if err != nil {
		return nil, err
	}

	if err := auditService.LogAction(s.DB, auditService.ActionEntry{
		UserID:     &reviewer.ID,
		UserEmail:  reviewer.Email,
		UserRole:   reviewer.Role,
		Action:     auditModel.ActionTransferRejected,
		Resource:   "bank_transfer_request",
		ResourceID: &transfer.TransferID,
		Changes: map[string]interface{}{
			"reason": strings.TrimSpace(reason),
			"amount": transfer.TransferAmount,
		},
		IPAddress: ip,
		UserAgent: userAgent,
	}); err != nil {
		log.Printf("[WARN] transfer rejection audit failed: %v", err)
	}

	return &transfer, nil
}

// PendingCount reports how many requests await review, for the admin badge.
func (s *TransferService) PendingCount() (int64, error) {
	var n int64
	err := s.DB.Model(&transferModel.BankTransferRequest{}).
		Where("transfer_status = ?", transferModel.TransferStatusPending).
		Count(&n).Error
	return n, err
}
