// file: internals/features/users/roles/controller/active_role_controller_test.go
package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
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
	auditModel "alshuail_backend/internals/features/audit/model"
	authModel "alshuail_backend/internals/features/users/auth/model"
	rolesModel "alshuail_backend/internals/features/users/roles/model"
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
		&authModel.UserModel{},
		&rolesModel.ActiveRole{},
		&auditModel.AuditLog{},
	))

	h := NewActiveRoleHandler(db)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("auth_context", &authMw.AuthContext{
			ID:    uuid.New(),
			Email: "admin@alshuail.com",
			Role:  constants.RoleSuperAdmin,
		})
		return c.Next()
	})
	app.Post("/api/roles/assignments", h.Assign)
	app.Get("/api/roles/assignments", h.List)
	app.Put("/api/roles/assignments/:id", h.Update)
	app.Delete("/api/roles/assignments/:id", h.Revoke)
	return app, db
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

func seedUser(t *testing.T, db *gorm.DB) *authModel.UserModel {
	t.Helper()
	u := authModel.UserModel{
		Email:    fmt.Sprintf("user-%s@alshuail.com", uuid.New().String()[:8]),
		FullName: "مستخدم إداري",
		Password: "hash",
		Role:     constants.RoleUserMember,
		IsActive: true,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func TestAssignRole(t *testing.T) {
	app, db := setupApp(t)
	u := seedUser(t, db)

	resp := doJSON(t, app, http.MethodPost, "/api/roles/assignments", fiber.Map{
		"user_id":    u.ID,
		"role":       constants.RoleFinancialManager,
		"start_date": "2026-09-01",
		"end_date":   "2026-12-31",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var grant rolesModel.ActiveRole
	require.NoError(t, db.First(&grant, "active_role_user_id = ?", u.ID).Error)
	require.Equal(t, constants.RoleFinancialManager, grant.ActiveRoleName)
	require.True(t, grant.ActiveRoleIsActive)
	require.NotNil(t, grant.ActiveRoleStartDate)
	require.NotNil(t, grant.ActiveRoleEndDate)
}

func TestAssignRoleNotAssignable(t *testing.T) {
	app, db := setupApp(t)
	u := seedUser(t, db)

	// member is a mobile identity, never an assignable grant
	resp := doJSON(t, app, http.MethodPost, "/api/roles/assignments", fiber.Map{
		"user_id": u.ID,
		"role":    constants.RoleMember,
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAssignRoleEndBeforeStart(t *testing.T) {
	app, db := setupApp(t)
	u := seedUser(t, db)

	resp := doJSON(t, app, http.MethodPost, "/api/roles/assignments", fiber.Map{
		"user_id":    u.ID,
		"role":       constants.RoleFinancialManager,
		"start_date": "2026-12-01",
		"end_date":   "2026-01-01",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAssignRoleUnknownUser(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/roles/assignments", fiber.Map{
		"user_id": uuid.New(),
		"role":    constants.RoleFinancialManager,
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRevokeKeepsRow(t *testing.T) {
	app, db := setupApp(t)
	u := seedUser(t, db)

	grant := rolesModel.ActiveRole{
		ActiveRoleUserID:     u.ID,
		ActiveRoleName:       constants.RoleFamilyTreeAdmin,
		ActiveRoleIsActive:   true,
		ActiveRoleAssignedBy: uuid.New(),
	}
	require.NoError(t, db.Create(&grant).Error)

	resp := doJSON(t, app, http.MethodDelete,
		"/api/roles/assignments/"+grant.ActiveRoleID.String(), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// the row survives for the audit trail, only deactivated
	var stored rolesModel.ActiveRole
	require.NoError(t, db.First(&stored, "active_role_id = ?", grant.ActiveRoleID).Error)
	require.False(t, stored.ActiveRoleIsActive)
}

func TestListAssignmentsActiveOnly(t *testing.T) {
	app, db := setupApp(t)
	u := seedUser(t, db)

	for _, active := range []bool{true, false} {
		require.NoError(t, db.Create(&rolesModel.ActiveRole{
			ActiveRoleUserID:     u.ID,
			ActiveRoleName:       constants.RoleFinancialManager,
			ActiveRoleIsActive:   active,
			ActiveRoleAssignedBy: uuid.New(),
		}).Error)
	}

	resp := doJSON(t, app, http.MethodGet, "/api/roles/assignments?active_only=true", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data := body["data"].(map[string]any)
	require.Len(t, data["assignments"], 1)
}
