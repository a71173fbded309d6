// file: internals/features/finance/balance/controller/balance_adjustment_controller_test.go
package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alshuail_backend/internals/constants"
	auditModel "alshuail_backend/internals/features/audit/model"
	balanceModel "alshuail_backend/internals/features/finance/balance/model"
	subsModel "alshuail_backend/internals/features/finance/subscriptions/model"
	memberModel "alshuail_backend/internals/features/members/model"
	authMw "alshuail_backend/internals/middlewares/auth"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
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
	))

	h := NewBalanceAdjustmentHandler(db)
	app := fiber.New()

	// inject a resolved admin identity the way the auth middleware would
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("auth_context", &authMw.AuthContext{
			ID:    uuid.New(),
			Email: "finance@alshuail.com",
			Role:  constants.RoleFinancialManager,
		})
		return c.Next()
	})

	app.Post("/api/balance-adjustments", h.Adjust)
	app.Post("/api/balance-adjustments/bulk-restore", h.BulkRestore)
	return app, db
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

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// requireNoMutation asserts the request left no trace: no adjustment
// rows and the member balance untouched.
func requireNoMutation(t *testing.T, db *gorm.DB, memberID uuid.UUID, balance float64) {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&balanceModel.BalanceAdjustment{}).Count(&count).Error)
	require.Zero(t, count)
	var m memberModel.Member
	require.NoError(t, db.First(&m, "member_id = ?", memberID).Error)
	require.Equal(t, balance, m.MemberBalance)
}

func TestAdjustSuccess(t *testing.T) {
	app, db := setupApp(t)
	m := seedMember(t, db, 100)

	resp := doJSON(t, app, http.MethodPost, "/api/balance-adjustments", fiber.Map{
		"member_id":       m.MemberID,
		"adjustment_type": "credit",
		"amount":          200,
		"reason":          "دفعة نقدية مستلمة",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stored memberModel.Member
	require.NoError(t, db.First(&stored, "member_id = ?", m.MemberID).Error)
	require.Equal(t, 300.0, stored.MemberBalance)

	var row balanceModel.BalanceAdjustment
	require.NoError(t, db.First(&row, "adjustment_member_id = ?", m.MemberID).Error)
	require.Equal(t, balanceModel.AdjustmentCredit, row.AdjustmentType)
}

func TestAdjustShortReasonRejectedWithoutMutation(t *testing.T) {
	app, db := setupApp(t)
	m := seedMember(t, db, 100)

	for _, reason := range []string{"", "    ", "سبب", "abcd"} {
		resp := doJSON(t, app, http.MethodPost, "/api/balance-adjustments", fiber.Map{
			"member_id":       m.MemberID,
			"adjustment_type": "credit",
			"amount":          50,
			"reason":          reason,
		})
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "reason %q", reason)
	}
	requireNoMutation(t, db, m.MemberID, 100)
}

func TestAdjustInvalidType(t *testing.T) {
	app, db := setupApp(t)
	m := seedMember(t, db, 100)

	resp := doJSON(t, app, http.MethodPost, "/api/balance-adjustments", fiber.Map{
		"member_id":       m.MemberID,
		"adjustment_type": "refund",
		"amount":          50,
		"reason":          "سبب صالح للاختبار",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	requireNoMutation(t, db, m.MemberID, 100)
}

func TestAdjustNonPositiveAmount(t *testing.T) {
	app, db := setupApp(t)
	m := seedMember(t, db, 100)

	for _, amount := range []float64{0, -50} {
		resp := doJSON(t, app, http.MethodPost, "/api/balance-adjustments", fiber.Map{
			"member_id":       m.MemberID,
			"adjustment_type": "credit",
			"amount":          amount,
			"reason":          "سبب صالح للاختبار",
		})
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "amount %v", amount)
	}
	requireNoMutation(t, db, m.MemberID, 100)
}

func TestAdjustTargetYearOutOfRange(t *testing.T) {
	app, db := setupApp(t)
	m := seedMember(t, db, 100)
	currentYear := time.Now().Year()

	for _, year := range []int{currentYear - 6, currentYear + 1} {
		resp := doJSON(t, app, http.MethodPost, "/api/balance-adjustments", fiber.Map{
			"member_id":       m.MemberID,
			"adjustment_type": "yearly_payment",
			"amount":          50,
			"target_year":     year,
			"reason":          "سبب صالح للاختبار",
		})
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "year %d", year)
	}
	requireNoMutation(t, db, m.MemberID, 100)
}

func TestAdjustTargetMonthOutOfRange(t *testing.T) {
	app, db := setupApp(t)
	m := seedMember(t, db, 100)

	for _, month := range []int{0, 13} {
		resp := doJSON(t, app, http.MethodPost, "/api/balance-adjustments", fiber.Map{
			"member_id":       m.MemberID,
			"adjustment_type": "credit",
			"amount":          50,
			"target_month":    month,
			"reason":          "سبب صالح للاختبار",
		})
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "month %d", month)
	}
	requireNoMutation(t, db, m.MemberID, 100)
}

func TestAdjustMissingMemberID(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/balance-adjustments", fiber.Map{
		"adjustment_type": "credit",
		"amount":          50,
		"reason":          "سبب صالح للاختبار",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdjustUnknownMember(t *testing.T) {
	app, db := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/balance-adjustments", fiber.Map{
		"member_id":       uuid.New(),
		"adjustment_type": "credit",
		"amount":          50,
		"reason":          "سبب صالح للاختبار",
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&balanceModel.BalanceAdjustment{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestBulkRestoreShortReason(t *testing.T) {
	app, db := setupApp(t)
	m := seedMember(t, db, 100)

	resp := doJSON(t, app, http.MethodPost, "/api/balance-adjustments/bulk-restore", fiber.Map{
		"member_ids": []uuid.UUID{m.MemberID},
		"reason":     "لا",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	requireNoMutation(t, db, m.MemberID, 100)
}

func TestBulkRestoreYearOutOfRange(t *testing.T) {
	app, db := setupApp(t)
	m := seedMember(t, db, 100)

	resp := doJSON(t, app, http.MethodPost, "/api/balance-adjustments/bulk-restore", fiber.Map{
		"member_ids":   []uuid.UUID{m.MemberID},
		"restore_year": memberModel.FirstPaymentYear - 1,
		"reason":       "سبب صالح للاختبار",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	requireNoMutation(t, db, m.MemberID, 100)
}
