// file: internals/features/finance/transfers/service/transfer_service_test.go
package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditModel "alshuail_backend/internals/features/audit/model"
	balanceModel "alshuail_backend/internals/features/finance/balance/model"
	subsModel "alshuail_backend/internals/features/finance/subscriptions/model"
	transferModel "alshuail_backend/internals/features/finance/transfers/model"
	memberModel "alshuail_backend/internals/features/members/model"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&memberModel.Member{},
		&subsModel.Subscription{},
		&balanceModel.BalanceAdjustment{},
		&auditModel.FinancialAuditTrail{},
		&auditModel.AuditLog{},
		&transferModel.BankTransferRequest{},
		&transferModel.Payment{},
	))
	return db
}

func seedMember(t *testing.T, db *gorm.DB, balance float64) *memberModel.Member {
	t.Helper()
	m := memberModel.Member{
		MemberMembershipNumber: fmt.Sprintf("2%04d", time.Now().UnixNano()%10000),
		MemberFullName:         "مستفيد التحويل",
		MemberPhone:            fmt.Sprintf("+9665%08d", time.Now().UnixNano()%100000000),
		MemberStatus:           memberModel.MemberStatusActive,
		MemberBalance:          balance,
	}
	require.NoError(t, db.Create(&m).Error)
	sub := subsModel.Subscription{
		SubscriptionMemberID:       m.MemberID,
		SubscriptionCurrentBalance: balance,
		SubscriptionStatus:         subsModel.StatusFor(balance),
	}
	require.NoError(t, db.Create(&sub).Error)
	return &m
}

func testReviewer() Reviewer {
	return Reviewer{ID: uuid.New(), Email: "finance@alshuail.com", Role: "financial_manager"}
}

func TestCreateTransfer(t *testing.T) {
	db := setupDB(t)
	svc := NewTransferService(db)
	beneficiary := seedMember(t, db, 0)
	requester := seedMember(t, db, 0)

	row, err := svc.Create(CreateInput{
		RequesterID:   requester.MemberID,
		BeneficiaryID: beneficiary.MemberID,
		Amount:        150,
		Purpose:       transferModel.TransferPurposeSubscription,
	})
	require.NoError(t, err)
	require.Equal(t, transferModel.TransferStatusPending, row.TransferStatus)
	require.NotEqual(t, uuid.Nil, row.TransferID)
}

func TestCreateTransferUnknownBeneficiary(t *testing.T) {
	db := setupDB(t)
	svc := NewTransferService(db)
	requester := seedMember(t, db, 0)

	_, err := svc.Create(CreateInput{
		RequesterID:   requester.MemberID,
		BeneficiaryID: uuid.New(),
		Amount:        150,
		Purpose:       transferModel.TransferPurposeSubscription,
	})
	require.ErrorIs(t, err, ErrBeneficiaryNotFound)
}

func TestApproveSubscriptionTransfer(t *testing.T) {
	db := setupDB(t)
	svc := NewTransferService(db)
	beneficiary := seedMember(t, db, 100)
	requester := seedMember(t, db, 0)

	row, err := svc.Create(CreateInput{
		RequesterID:   requester.MemberID,
		BeneficiaryID: beneficiary.MemberID,
		Amount:        200,
		Purpose:       transferModel.TransferPurposeSubscription,
	})
	require.NoError(t, err)

	res, err := svc.Approve(row.TransferID, testReviewer(), nil, "10.0.0.1", "test-agent")
	require.NoError(t, err)
	require.Equal(t, transferModel.TransferStatusApproved, res.Transfer.TransferStatus)
	require.NotNil(t, res.Transfer.TransferReviewedBy)

	// payment row materialized, on behalf of someone else
	require.NotEqual(t, uuid.Nil, res.Payment.PaymentID)
	require.Equal(t, transferModel.PaymentMethodBankTransfer, res.Payment.PaymentMethod)
	require.Equal(t, transferModel.PaymentStatusCompleted, res.Payment.PaymentStatus)
	require.True(t, res.Payment.PaymentIsOnBehalf)

	// subscription-purpose approval credits the beneficiary through the ledger
	var stored memberModel.Member
	require.NoError(t, db.First(&stored, "member_id = ?", beneficiary.MemberID).Error)
	require.Equal(t, 300.0, stored.MemberBalance)

	var adj balanceModel.BalanceAdjustment
	require.NoError(t, db.First(&adj, "adjustment_member_id = ?", beneficiary.MemberID).Error)
	require.Equal(t, balanceModel.AdjustmentCredit, adj.AdjustmentType)
	require.Equal(t, 200.0, adj.AdjustmentAmount)

	var sub subsModel.Subscription
	require.NoError(t, db.First(&sub, "subscription_member_id = ?", beneficiary.MemberID).Error)
	require.Equal(t, 6, sub.SubscriptionMonthsPaidAhead)
}

func TestApproveDiyaTransferSkipsBalanceCredit(t *testing.T) {
	db := setupDB(t)
	svc := NewTransferService(db)
	beneficiary := seedMember(t, db, 100)

	row, err := svc.Create(CreateInput{
		RequesterID:   beneficiary.MemberID,
		BeneficiaryID: beneficiary.MemberID,
		Amount:        500,
		Purpose:       transferModel.TransferPurposeDiya,
	})
	require.NoError(t, err)

	res, err := svc.Approve(row.TransferID, testReviewer(), nil, "", "")
	require.NoError(t, err)
	require.False(t, res.Payment.PaymentIsOnBehalf)

	var stored memberModel.Member
	require.NoError(t, db.First(&stored, "member_id = ?", beneficiary.MemberID).Error)
	require.Equal(t, 100.0, stored.MemberBalance)
}

func TestApproveNonPending(t *testing.T) {
	db := setupDB(t)
	svc := NewTransferService(db)
	beneficiary := seedMember(t, db, 0)

	row, err := svc.Create(CreateInput{
		RequesterID:   beneficiary.MemberID,
		BeneficiaryID: beneficiary.MemberID,
		Amount:        50,
		Purpose:       transferModel.TransferPurposeSubscription,
	})
	require.NoError(t, err)

	_, err = svc.Approve(row.TransferID, testReviewer(), nil, "", "")
	require.NoError(t, err)

	// approving twice is a conflict
	_, err = svc.Approve(row.TransferID, testReviewer(), nil, "", "")
	require.ErrorIs(t, err, ErrTransferNotPending)
}

func TestApproveNotFound(t *testing.T) {
	db := setupDB(t)
	svc := NewTransferService(db)

	_, err := svc.Approve(uuid.New(), testReviewer(), nil, "", "")
	require.ErrorIs(t, err, ErrTransferNotFound)
}

func TestRejectTransfer(t *testing.T) {
	db := setupDB(t)
	svc := NewTransferService(db)
	beneficiary := seedMember(t, db, 0)

	row, err := svc.Create(CreateInput{
		RequesterID:   beneficiary.MemberID,
		BeneficiaryID: beneficiary.MemberID,
		Amount:        50,
		Purpose:       transferModel.TransferPurposeSubscription,
	})
	require.NoError(t, err)

	rejected, err := svc.Reject(row.TransferID, testReviewer(), "  إيصال غير واضح  ", "", "")
	require.NoError(t, err)
	require.Equal(t, transferModel.TransferStatusRejected, rejected.TransferStatus)
	require.NotNil(t, rejected.TransferRejectionReason)
	require.Equal(t, "إيصال غير واضح", *rejected.TransferRejectionReason)

	// a rejected request never produces a payment or balance change
	var n int64
	require.NoError(t, db.Model(&transferModel.Payment{}).Count(&n).Error)
	require.Zero(t, n)

	_, err = svc.Reject(row.TransferID, testReviewer(), "سبب آخر بعد الرفض", "", "")
	require.ErrorIs(t, err, ErrTransferNotPending)
}

func TestPendingCount(t *testing.T) {
	db := setupDB(t)
	svc := NewTransferService(db)
	m := seedMember(t, db, 0)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(CreateInput{
			RequesterID:   m.MemberID,
			BeneficiaryID: m.MemberID,
			Amount:        50,
			Purpose:       transferModel.TransferPurposeOther,
		})
		require.NoError(t, err)
	}

	n, err := svc.PendingCount()
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}
