// file: internals/features/admin/controller/dashboard_controller_test.go
package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alshuail_backend/internals/constants"
	diyaModel "alshuail_backend/internals/features/diyas/model"
	subsModel "alshuail_backend/internals/features/finance/subscriptions/model"
	transferModel "alshuail_backend/internals/features/finance/transfers/model"
	memberModel "alshuail_backend/internals/features/members/model"
	authMw "alshuail_backend/internals/middlewares/auth"
)

func setupApp(t *testing.T, actx *authMw.AuthContext) (*fiber.App, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&memberModel.Member{},
		&subsModel.Subscription{},
		&transferModel.BankTransferRequest{},
		&diyaModel.DiyaCase{},
	))

	h := NewDashboardHandler(db)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("auth_context", actx)
		return c.Next()
	})
	app.Get("/api/admin/dashboard/stats", h.Stats)
	app.Get("/api/admin/member-monitoring", h.MemberMonitoring)
	return app, db
}

func adminCtx() *authMw.AuthContext {
	return &authMw.AuthContext{ID: uuid.New(), Email: "admin@alshuail.com", Role: constants.RoleSuperAdmin}
}

func viewerCtx() *authMw.AuthContext {
	return &authMw.AuthContext{
		Role:        constants.RoleViewer,
		Permissions: map[string]bool{constants.PermViewDashboard: true},
	}
}

func getJSON(t *testing.T, app *fiber.App, path string) map[string]any {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body["data"].(map[string]any)
}

func seedMember(t *testing.T, db *gorm.DB, n int, status memberModel.MemberStatus, balance float64) *memberModel.Member {
	t.Helper()
	m := memberModel.Member{
		MemberMembershipNumber: fmt.Sprintf("100%02d", n),
		MemberFullName:         fmt.Sprintf("عضو لوحة %d", n),
		MemberPhone:            fmt.Sprintf("+9665010101%02d", n),
		MemberStatus:           status,
		MemberBalance:          balance,
	}
	require.NoError(t, db.Create(&m).Error)
	return &m
}

func TestDashboardStats(t *testing.T) {
	app, db := setupApp(t, adminCtx())

	m1 := seedMember(t, db, 1, memberModel.MemberStatusActive, 300)
	seedMember(t, db, 2, memberModel.MemberStatusActive, 150)
	seedMember(t, db, 3, memberModel.MemberStatusPendingApproval, 0)

	require.NoError(t, db.Create(&subsModel.Subscription{
		SubscriptionMemberID:       m1.MemberID,
		SubscriptionCurrentBalance: -100,
		SubscriptionStatus:         subsModel.SubscriptionStatusOverdue,
	}).Error)

	require.NoError(t, db.Create(&transferModel.BankTransferRequest{
		TransferRequesterID:   m1.MemberID,
		TransferBeneficiaryID: m1.MemberID,
		TransferAmount:        50,
		TransferPurpose:       transferModel.TransferPurposeSubscription,
		TransferStatus:        transferModel.TransferStatusPending,
	}).Error)

	for i, st := range []diyaModel.DiyaStatus{
		diyaModel.DiyaStatusOpen,
		diyaModel.DiyaStatusCollecting,
		diyaModel.DiyaStatusClosed,
	} {
		require.NoError(t, db.Create(&diyaModel.DiyaCase{
			DiyaCaseNumber:      fmt.Sprintf("DY-STAT-%d", i),
			DiyaDeceasedName:    "متوفى",
			DiyaBeneficiaryName: "ورثة",
			DiyaAmountRequired:  1000,
			DiyaStatus:          st,
			DiyaCreatedBy:       uuid.New(),
		}).Error)
	}

	data := getJSON(t, app, "/api/admin/dashboard/stats")

	members := data["members"].(map[string]any)
	require.Equal(t, float64(3), members["total"])
	require.Equal(t, float64(2), members["active"])
	require.Equal(t, float64(1), members["pending_approval"])

	require.Equal(t, float64(450), data["total_balance"])
	require.Equal(t, float64(1), data["overdue_subscriptions"])
	require.Equal(t, float64(1), data["pending_transfers"])
	require.Equal(t, float64(2), data["open_diya_cases"]) // closed excluded
	require.Equal(t, false, data["viewer_mode"])
}

func TestDashboardStatsViewerMode(t *testing.T) {
	app, _ := setupApp(t, viewerCtx())

	data := getJSON(t, app, "/api/admin/dashboard/stats")
	require.Equal(t, true, data["viewer_mode"])
}

func TestMemberMonitoringDiscrepancy(t *testing.T) {
	app, db := setupApp(t, adminCtx())

	clean := seedMember(t, db, 1, memberModel.MemberStatusActive, 600)
	require.NoError(t, db.Model(&memberModel.Member{}).
		Where("member_id = ?", clean.MemberID).
		Update("member_payment_2024", 600.0).Error)

	drifted := seedMember(t, db, 2, memberModel.MemberStatusActive, 100)
	require.NoError(t, db.Model(&memberModel.Member{}).
		Where("member_id = ?", drifted.MemberID).
		Update("member_payment_2024", 250.0).Error)

	data := getJSON(t, app, "/api/admin/member-monitoring")
	rows := data["members"].([]any)
	require.Len(t, rows, 2)

	// ordered by membership number: clean first, drifted second
	first := rows[0].(map[string]any)
	require.Equal(t, false, first["has_discrepancy"])
	require.Equal(t, float64(12), first["months_paid_ahead"])

	second := rows[1].(map[string]any)
	require.Equal(t, true, second["has_discrepancy"])
	require.Equal(t, float64(150), second["discrepancy"])
}
