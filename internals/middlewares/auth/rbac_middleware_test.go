// internals/middlewares/auth/rbac_middleware_test.go
package auth

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alshuail_backend/internals/configs"
	"alshuail_backend/internals/constants"
	auditModel "alshuail_backend/internals/features/audit/model"
	tokenModel "alshuail_backend/internals/features/users/auth/model"
	rolesModel "alshuail_backend/internals/features/users/roles/model"
)

const testSecret = "unit-test-secret"

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	configs.JWTSecret = testSecret
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&tokenModel.TokenBlacklist{},
		&rolesModel.ActiveRole{},
		&auditModel.AuditLog{},
	))
	return db
}

func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func adminToken(t *testing.T, id uuid.UUID, role string) string {
	return signTestToken(t, jwt.MapClaims{
		"id":    id.String(),
		"email": "admin@alshuail.com",
		"role":  role,
	})
}

func memberToken(t *testing.T, id uuid.UUID) string {
	return signTestToken(t, jwt.MapClaims{
		"id":                id.String(),
		"phone":             "+966501234567",
		"membership_number": "10001",
		"role":              constants.RoleMember,
	})
}

// okHandler echoes the resolved identity so assertions can inspect it.
func okHandler(c *fiber.Ctx) error {
	actx := MustFromCtx(c)
	return c.JSON(fiber.Map{"role": actx.Role, "degraded": actx.Degraded, "viewer": actx.IsViewer()})
}

func doRequest(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRequireRoleNoToken(t *testing.T) {
	db := setupDB(t)
	app := fiber.New()
	app.Get("/api/protected", RequireRole(db, constants.AllAdminRoles...), okHandler)

	resp := doRequest(t, app, "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRoleExpiredToken(t *testing.T) {
	db := setupDB(t)
	app := fiber.New()
	app.Get("/api/protected", RequireRole(db, constants.AllAdminRoles...), okHandler)

	tok := signTestToken(t, jwt.MapClaims{
		"id":   uuid.New().String(),
		"role": constants.RoleAdmin,
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})
	resp := doRequest(t, app, tok)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRoleWrongSecret(t *testing.T) {
	db := setupDB(t)
	app := fiber.New()
	app.Get("/api/protected", RequireRole(db, constants.AllAdminRoles...), okHandler)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   uuid.New().String(),
		"role": constants.RoleSuperAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	resp := doRequest(t, app, forged)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRoleBlacklistedToken(t *testing.T) {
	db := setupDB(t)
	app := fiber.New()
	app.Get("/api/protected", RequireRole(db, constants.AllAdminRoles...), okHandler)

	tok := adminToken(t, uuid.New(), constants.RoleAdmin)
	require.NoError(t, db.Create(&tokenModel.TokenBlacklist{
		Token:     tok,
		ExpiredAt: time.Now().Add(time.Hour),
	}).Error)

	resp := doRequest(t, app, tok)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRoleMemberBlockedFromAdminRoute(t *testing.T) {
	db := setupDB(t)
	app := fiber.New()
	app.Get("/api/protected", RequireRole(db, constants.AllAdminRoles...), okHandler)

	resp := doRequest(t, app, memberToken(t, uuid.New()))
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleMemberAllowedWhenListed(t *testing.T) {
	db := setupDB(t)
	app := fiber.New()
	app.Get("/api/protected", RequireRole(db, constants.RoleMember), okHandler)

	resp := doRequest(t, app, memberToken(t, uuid.New()))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleSuperAdminBypass(t *testing.T) {
	db := setupDB(t)
	app := fiber.New()
	// super_admin is not in the list but passes every gate
	app.Get("/api/protected", RequireRole(db, constants.RoleFinancialManager), okHandler)

	resp := doRequest(t, app, adminToken(t, uuid.New(), constants.RoleSuperAdmin))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleUnlistedAdminBlocked(t *testing.T) {
	db := setupDB(t)
	app := fiber.New()
	app.Get("/api/protected", RequireRole(db, constants.RoleFinancialManager), okHandler)

	resp := doRequest(t, app, adminToken(t, uuid.New(), constants.RoleFamilyTreeAdmin))
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequirePermission(t *testing.T) {
	db := setupDB(t)
	app := fiber.New()
	app.Get("/api/protected", RequirePermission(db, constants.PermManageFinances), okHandler)

	// financial_manager has manage_finances in the static map
	resp := doRequest(t, app, adminToken(t, uuid.New(), constants.RoleFinancialManager))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequirePermissionAdminRole(t *testing.T) {
	db := setupDB(t)
	app := fiber.New()
	app.Get("/api/protected", RequirePermission(db, constants.PermManageFinances), okHandler)

	// a plain admin token with no permissions claim resolves through the
	// static role map, which grants finance management to admin
	resp := doRequest(t, app, adminToken(t, uuid.New(), constants.RoleAdmin))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleMemberAndAdminList(t *testing.T) {
	db := setupDB(t)
	app := fiber.New()

	// the submit gates on bank transfers list member plus every admin role
	allowed := append([]string{constants.RoleMember}, constants.AllAdminRoles...)
	app.Get("/api/protected", RequireRole(db, allowed...), okHandler)

	for _, tok := range []string{
		memberToken(t, uuid.New()),
		adminToken(t, uuid.New(), constants.RoleFinancialManager),
		adminToken(t, uuid.New(), constants.RoleAdmin),
	} {
		resp := doRequest(t, app, tok)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}

func TestRequirePermissionMissing(t *testing.T) {
	db := setupDB(t)
	app := fiber.New()
	app.Get("/api/protected", RequirePermission(db, constants.PermManageDiyas), okHandler)

	resp := doRequest(t, app, adminToken(t, uuid.New(), constants.RoleFinancialManager))
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestTimeBoundedGrantMergesPermissions(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()

	// base role carries no finance permission; the active grant adds it
	require.NoError(t, db.Create(&rolesModel.ActiveRole{
		ActiveRoleUserID:     userID,
		ActiveRoleName:       constants.RoleFinancialManager,
		ActiveRoleIsActive:   true,
		ActiveRoleAssignedBy: uuid.New(),
	}).Error)

	app := fiber.New()
	app.Get("/api/protected", RequirePermission(db, constants.PermManageFinances), okHandler)

	resp := doRequest(t, app, adminToken(t, userID, constants.RoleUserMember))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestTimeBoundedGrantOutsideWindowIgnored(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()

	ended := time.Now().AddDate(0, 0, -10)
	started := time.Now().AddDate(0, 0, -30)
	require.NoError(t, db.Create(&rolesModel.ActiveRole{
		ActiveRoleUserID:     userID,
		ActiveRoleName:       constants.RoleFinancialManager,
		ActiveRoleStartDate:  &started,
		ActiveRoleEndDate:    &ended,
		ActiveRoleIsActive:   true,
		ActiveRoleAssignedBy: uuid.New(),
	}).Error)

	app := fiber.New()
	app.Get("/api/protected", RequirePermission(db, constants.PermManageFinances), okHandler)

	resp := doRequest(t, app, adminToken(t, userID, constants.RoleUserMember))
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestDegradedWhenRoleLookupFails(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Migrator().DropTable(&rolesModel.ActiveRole{}))

	app := fiber.New()
	app.Get("/api/protected", RequireRole(db, constants.RoleFinancialManager), func(c *fiber.Ctx) error {
		actx := MustFromCtx(c)
		require.True(t, actx.Degraded)
		return c.SendStatus(fiber.StatusOK)
	})

	// request proceeds on token-derived permissions
	resp := doRequest(t, app, adminToken(t, uuid.New(), constants.RoleFinancialManager))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAllowPublicViewerFallback(t *testing.T) {
	db := setupDB(t)
	app := fiber.New()
	app.Get("/api/protected", AllowPublicViewer(db), func(c *fiber.Ctx) error {
		actx := MustFromCtx(c)
		require.True(t, actx.IsViewer())
		require.True(t, actx.HasPermission(constants.PermViewDashboard))
		require.False(t, actx.HasPermission(constants.PermManageFinances))
		return c.SendStatus(fiber.StatusOK)
	})

	resp := doRequest(t, app, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAllowPublicViewerKeepsRealIdentity(t *testing.T) {
	db := setupDB(t)
	app := fiber.New()
	app.Get("/api/protected", AllowPublicViewer(db), func(c *fiber.Ctx) error {
		actx := MustFromCtx(c)
		require.False(t, actx.IsViewer())
		require.Equal(t, constants.RoleSuperAdmin, actx.Role)
		return c.SendStatus(fiber.StatusOK)
	})

	resp := doRequest(t, app, adminToken(t, uuid.New(), constants.RoleSuperAdmin))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestTokenFromCookie(t *testing.T) {
	db := setupDB(t)
	app := fiber.New()
	app.Get("/api/protected", RequireRole(db, constants.RoleAdmin), okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: adminToken(t, uuid.New(), constants.RoleAdmin)})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
