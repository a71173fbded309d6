// internals/middlewares/auth/auth_context.go
package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alshuail_backend/internals/constants"
)

// localsKey is the single Locals slot the resolver writes. Handlers read the
// context through FromCtx; nothing else mutates it after construction.
const localsKey = "auth_context"

// AuthContext is the normalized caller identity, built once per request.
type AuthContext struct {
	ID               uuid.UUID
	Email            string
	Phone            string
	FullName         string
	MembershipNumber string
	Role             string
	RoleAr           string
	Permissions      map[string]bool

	// Degraded is set when the time-bounded role lookup failed and the
	// request proceeded on token-derived permissions only.
	Degraded bool
}

// HasPermission checks a single permission. super_admin and all_access always
// pass.
func (a *AuthContext) HasPermission(name string) bool {
	if a.Role == constants.RoleSuperAdmin {
		return true
	}
	if a.Permissions == nil {
		return false
	}
	return a.Permissions[name] || a.Permissions[constants.PermAllAccess]
}

// IsViewer reports the synthetic public-read identity.
func (a *AuthContext) IsViewer() bool {
	return a.Role == constants.RoleViewer
}

// FromCtx returns the resolved identity for this request.
func FromCtx(c *fiber.Ctx) (*AuthContext, bool) {
	actx, ok := c.Locals(localsKey).(*AuthContext)
	return actx, ok
}

// MustFromCtx is for handlers behind RequireRole where absence is a bug.
func MustFromCtx(c *fiber.Ctx) *AuthContext {
	actx, ok := FromCtx(c)
	if !ok {
		panic("auth: AuthContext missing; handler mounted without RequireRole?")
	}
	return actx
}

func storeCtx(c *fiber.Ctx, actx *AuthContext) {
	c.Locals(localsKey, actx)
}

// viewerContext is the documented public fallback for the two read-only
// dashboard endpoints.
func viewerContext() *AuthContext {
	return &AuthContext{
		Role:        constants.RoleViewer,
		RoleAr:      constants.ArabicRoleName(constants.RoleViewer),
		Permissions: map[string]bool{constants.PermViewDashboard: true},
	}
}
