// file: internals/features/finance/balance/service/ledger_service_test.go
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
	memberModel "alshuail_backend/internals/features/members/model"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	// per-test in-memory database to avoid cross-test interference
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
	))
	return db
}

func seedMember(t *testing.T, db *gorm.DB, balance float64) *memberModel.Member {
	t.Helper()
	m := memberModel.Member{
		MemberMembershipNumber: fmt.Sprintf("1%04d", time.Now().UnixNano()%10000),
		MemberFullName:         "عضو تجريبي",
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

func testActor() Actor {
	return Actor{ID: uuid.New(), Email: "admin@alshuail.com", Role: "financial_manager"}
}

func TestAdjustCredit(t *testing.T) {
	db := setupDB(t)
	svc := NewLedgerService(db)
	m := seedMember(t, db, 100)

	res, err := svc.Adjust(AdjustInput{
		MemberID: m.MemberID,
		Type:     balanceModel.AdjustmentCredit,
		Amount:   250,
		Reason:   "دفعة نقدية مستلمة",
		Actor:    testActor(),
	})
	require.NoError(t, err)
	require.Equal(t, 100.0, res.PreviousBalance)
	require.Equal(t, 350.0, res.NewBalance)

	var stored memberModel.Member
	require.NoError(t, db.First(&stored, "member_id = ?", m.MemberID).Error)
	require.Equal(t, 350.0, stored.MemberBalance)

	// adjustment row is written with before/after values
	var row balanceModel.BalanceAdjustment
	require.NoError(t, db.First(&row, "adjustment_member_id = ?", m.MemberID).Error)
	require.Equal(t, balanceModel.AdjustmentCredit, row.AdjustmentType)
	require.Equal(t, 100.0, row.AdjustmentPreviousBalance)
	require.Equal(t, 350.0, row.AdjustmentNewBalance)

	var trail auditModel.FinancialAuditTrail
	require.NoError(t, db.First(&trail, "fin_audit_resource_id = ?", m.MemberID).Error)
	require.Equal(t, "BALANCE_ADJUSTMENT", trail.FinAuditOperation)
}

func TestAdjustDebitCanGoNegative(t *testing.T) {
	db := setupDB(t)
	svc := NewLedgerService(db)
	m := seedMember(t, db, 30)

	res, err := svc.Adjust(AdjustInput{
		MemberID: m.MemberID,
		Type:     balanceModel.AdjustmentDebit,
		Amount:   80,
		Reason:   "تصحيح خصم مستحق",
		Actor:    testActor(),
	})
	require.NoError(t, err)
	require.Equal(t, -50.0, res.NewBalance)

	// negative balance flips the subscription to overdue
	var sub subsModel.Subscription
	require.NoError(t, db.First(&sub, "subscription_member_id = ?", m.MemberID).Error)
	require.Equal(t, subsModel.SubscriptionStatusOverdue, sub.SubscriptionStatus)
	require.Equal(t, 0, sub.SubscriptionMonthsPaidAhead)
}

func TestAdjustCorrectionIsAbsolute(t *testing.T) {
	db := setupDB(t)
	svc := NewLedgerService(db)
	m := seedMember(t, db, 500)

	res, err := svc.Adjust(AdjustInput{
		MemberID: m.MemberID,
		Type:     balanceModel.AdjustmentCorrection,
		Amount:   120,
		Reason:   "تصحيح الرصيد بعد المراجعة",
		Actor:    testActor(),
	})
	require.NoError(t, err)
	require.Equal(t, 120.0, res.NewBalance)

	var sub subsModel.Subscription
	require.NoError(t, db.First(&sub, "subscription_member_id = ?", m.MemberID).Error)
	require.Equal(t, 2, sub.SubscriptionMonthsPaidAhead) // 120 / 50
	require.Equal(t, subsModel.SubscriptionStatusActive, sub.SubscriptionStatus)
}

func TestAdjustCreditClampsAtCap(t *testing.T) {
	db := setupDB(t)
	svc := NewLedgerService(db)
	m := seedMember(t, db, 3500)

	res, err := svc.Adjust(AdjustInput{
		MemberID: m.MemberID,
		Type:     balanceModel.AdjustmentCredit,
		Amount:   500,
		Reason:   "دفعة كبيرة تتجاوز الحد",
		Actor:    testActor(),
	})
	require.NoError(t, err)
	require.Equal(t, subsModel.MaxBalance, res.NewBalance)
}

func TestAdjustYearColumn(t *testing.T) {
	db := setupDB(t)
	svc := NewLedgerService(db)
	m := seedMember(t, db, 0)
	year := 2023

	_, err := svc.Adjust(AdjustInput{
		MemberID:   m.MemberID,
		Type:       balanceModel.AdjustmentYearlyPayment,
		Amount:     600,
		TargetYear: &year,
		Reason:     "اشتراك سنة 2023 كامل",
		Actor:      testActor(),
	})
	require.NoError(t, err)

	var stored memberModel.Member
	require.NoError(t, db.First(&stored, "member_id = ?", m.MemberID).Error)
	require.Equal(t, 600.0, stored.MemberPayment2023)
	require.Equal(t, 600.0, stored.MemberBalance)
}

func TestAdjustDebitFloorsYearColumnAtZero(t *testing.T) {
	db := setupDB(t)
	svc := NewLedgerService(db)
	m := seedMember(t, db, 200)
	year := 2024
	require.NoError(t, db.Model(&memberModel.Member{}).
		Where("member_id = ?", m.MemberID).
		Update("member_payment_2024", 50.0).Error)

	_, err := svc.Adjust(AdjustInput{
		MemberID:   m.MemberID,
		Type:       balanceModel.AdjustmentDebit,
		Amount:     80,
		TargetYear: &year,
		Reason:     "استرجاع دفعة مكررة",
		Actor:      testActor(),
	})
	require.NoError(t, err)

	var stored memberModel.Member
	require.NoError(t, db.First(&stored, "member_id = ?", m.MemberID).Error)
	require.Equal(t, 0.0, stored.MemberPayment2024) // floored, not -30
	require.Equal(t, 120.0, stored.MemberBalance)   // balance still takes the full debit
}

func TestAdjustMemberNotFound(t *testing.T) {
	db := setupDB(t)
	svc := NewLedgerService(db)

	_, err := svc.Adjust(AdjustInput{
		MemberID: uuid.New(),
		Type:     balanceModel.AdjustmentCredit,
		Amount:   100,
		Reason:   "عضو غير موجود",
		Actor:    testActor(),
	})
	require.ErrorIs(t, err, ErrMemberNotFound)

	// nothing was written
	var n int64
	require.NoError(t, db.Model(&balanceModel.BalanceAdjustment{}).Count(&n).Error)
	require.Zero(t, n)
}

func TestAdjustRollsBackWhenAuditInsertFails(t *testing.T) {
	db := setupDB(t)
	svc := NewLedgerService(db)
	m := seedMember(t, db, 100)

	// force the trail insert inside the transaction to fail
	require.NoError(t, db.Migrator().DropTable(&auditModel.FinancialAuditTrail{}))

	_, err := svc.Adjust(AdjustInput{
		MemberID: m.MemberID,
		Type:     balanceModel.AdjustmentCredit,
		Amount:   50,
		Reason:   "يجب أن يفشل ويتراجع",
		Actor:    testActor(),
	})
	require.Error(t, err)

	var stored memberModel.Member
	require.NoError(t, db.First(&stored, "member_id = ?", m.MemberID).Error)
	require.Equal(t, 100.0, stored.MemberBalance)

	var n int64
	require.NoError(t, db.Model(&balanceModel.BalanceAdjustment{}).Count(&n).Error)
	require.Zero(t, n)
}

func TestRestoreOneStaleBalance(t *testing.T) {
	db := setupDB(t)
	svc := NewLedgerService(db)
	m := seedMember(t, db, 100)

	// stale snapshot: the precondition no longer matches
	err := svc.restoreOne(m, 999, 400, BulkRestoreInput{
		Reason: "اختبار تعارض الرصيد",
		Actor:  testActor(),
	})
	require.ErrorIs(t, err, ErrStaleBalance)
}

func TestBulkRestoreBuckets(t *testing.T) {
	db := setupDB(t)
	svc := NewLedgerService(db)

	drifted := seedMember(t, db, 10)
	require.NoError(t, db.Model(&memberModel.Member{}).
		Where("member_id = ?", drifted.MemberID).
		Updates(map[string]any{"member_payment_2021": 300.0, "member_payment_2022": 200.0}).Error)

	correct := seedMember(t, db, 250)
	require.NoError(t, db.Model(&memberModel.Member{}).
		Where("member_id = ?", correct.MemberID).
		Update("member_payment_2021", 250.0).Error)

	res, err := svc.BulkRestore(BulkRestoreInput{
		MemberIDs: []uuid.UUID{drifted.MemberID, correct.MemberID},
		Reason:    "استعادة الأرصدة من أعمدة السنوات",
		Actor:     testActor(),
	})
	require.NoError(t, err)
	require.Len(t, res.Success, 1)
	require.Len(t, res.Skipped, 1)
	require.Empty(t, res.Failed)

	require.Equal(t, drifted.MemberID, res.Success[0].MemberID)
	require.Equal(t, 500.0, res.Success[0].NewBalance)

	var stored memberModel.Member
	require.NoError(t, db.First(&stored, "member_id = ?", drifted.MemberID).Error)
	require.Equal(t, 500.0, stored.MemberBalance)

	// restore writes its own immutable adjustment row
	var row balanceModel.BalanceAdjustment
	require.NoError(t, db.First(&row, "adjustment_member_id = ?", drifted.MemberID).Error)
	require.Equal(t, balanceModel.AdjustmentBulkRestore, row.AdjustmentType)
}

func TestBulkRestoreSingleYear(t *testing.T) {
	db := setupDB(t)
	svc := NewLedgerService(db)

	m := seedMember(t, db, 0)
	require.NoError(t, db.Model(&memberModel.Member{}).
		Where("member_id = ?", m.MemberID).
		Updates(map[string]any{"member_payment_2021": 100.0, "member_payment_2025": 450.0}).Error)

	year := 2025
	res, err := svc.BulkRestore(BulkRestoreInput{
		MemberIDs:   []uuid.UUID{m.MemberID},
		RestoreYear: &year,
		Reason:      "استعادة سنة واحدة فقط",
		Actor:       testActor(),
	})
	require.NoError(t, err)
	require.Len(t, res.Success, 1)
	require.Equal(t, 450.0, res.Success[0].NewBalance)
}
