// internals/middlewares/auth/rbac_middleware.go
package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"alshuail_backend/internals/constants"
	helper "alshuail_backend/internals/helpers"
)

// RequireRole is the single authorization entry point. It verifies the bearer
// token, resolves the caller's role and merged permission set, stores an
// immutable AuthContext, and gates on allowedRoles. super_admin passes every
// gate regardless of the declared list.
func RequireRole(db *gorm.DB, allowedRoles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		actx, status, err := resolveContext(db, c)
		if err != nil {
			return authFailure(c, status)
		}

		if actx.Role == constants.RoleMember {
			if _, ok := allowed[constants.RoleMember]; !ok {
				return authFailure(c, fiber.StatusForbidden)
			}
			storeCtx(c, actx)
			return c.Next()
		}

		_, roleAllowed := allowed[actx.Role]
		if !roleAllowed && actx.Role != constants.RoleSuperAdmin {
			return authFailure(c, fiber.StatusForbidden)
		}

		storeCtx(c, actx)
		logAccessAsync(db, actx, c.Method(), c.Path(), c.IP(), c.Get(fiber.HeaderUserAgent))
		return c.Next()
	}
}

// RequirePermission gates on one permission instead of a role list.
func RequirePermission(db *gorm.DB, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actx, status, err := resolveContext(db, c)
		if err != nil {
			return authFailure(c, status)
		}

		if !actx.HasPermission(permission) {
			return helper.ErrorWithDetails(c, fiber.StatusForbidden,
				"ليس لديك الصلاحية لتنفيذ هذا الإجراء",
				"You do not have permission to perform this action",
				fiber.Map{"required_permission": permission})
		}

		storeCtx(c, actx)
		logAccessAsync(db, actx, c.Method(), c.Path(), c.IP(), c.Get(fiber.HeaderUserAgent))
		return c.Next()
	}
}

// AllowPublicViewer resolves a full context when a valid token is present but
// falls back to the synthetic read-only viewer identity otherwise. Only the
// two public dashboard endpoints mount this.
func AllowPublicViewer(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actx, _, err := resolveContext(db, c)
		if err != nil {
			storeCtx(c, viewerContext())
			return c.Next()
		}
		storeCtx(c, actx)
		if actx.Role != constants.RoleMember {
			logAccessAsync(db, actx, c.Method(), c.Path(), c.IP(), c.Get(fiber.HeaderUserAgent))
		}
		return c.Next()
	}
}

// resolveContext is the canonical token→identity resolution. Returns the
// HTTP status to emit when err != nil.
func resolveContext(db *gorm.DB, c *fiber.Ctx) (*AuthContext, int, error) {
	tokenString, err := extractBearerToken(c)
	if err != nil {
		return nil, fiber.StatusUnauthorized, err
	}

	if blacklisted, err := isTokenBlacklisted(db, tokenString); err != nil {
		log.Printf("[ERROR] blacklist check failed: %v", err)
		return nil, fiber.StatusInternalServerError, err
	} else if blacklisted {
		return nil, fiber.StatusUnauthorized, errTokenRevoked
	}

	claims, err := parseClaims(tokenString)
	if err != nil {
		log.Printf("[ERROR] token rejected: %v", err)
		return nil, fiber.StatusUnauthorized, err
	}

	userID, err := claimUserID(claims)
	if err != nil {
		return nil, fiber.StatusUnauthorized, err
	}

	role := claimString(claims, "role")
	if role == "" {
		role = constants.RoleUserMember
	}

	// Member tokens come from the mobile login and carry no permissions.
	if role == constants.RoleMember {
		return &AuthContext{
			ID:               userID,
			Phone:            claimString(claims, "phone"),
			FullName:         claimString(claims, "full_name"),
			MembershipNumber: claimString(claims, "membership_number"),
			Role:             role,
			RoleAr:           constants.ArabicRoleName(role),
			Permissions:      map[string]bool{},
		}, 0, nil
	}

	// Admin-class: token payload wins, static map is the fallback.
	perms, fromToken := claimPermissions(claims)
	if !fromToken {
		perms = clonePerms(constants.RolePermissions(role))
	}
	degraded := mergeTimeBoundedRoles(db, userID, perms)

	return &AuthContext{
		ID:          userID,
		Email:       claimString(claims, "email"),
		Phone:       claimString(claims, "phone"),
		FullName:    claimString(claims, "full_name"),
		Role:        role,
		RoleAr:      constants.ArabicRoleName(role),
		Permissions: perms,
		Degraded:    degraded,
	}, 0, nil
}

var errTokenRevoked = fiber.NewError(fiber.StatusUnauthorized, "token revoked")

func clonePerms(src map[string]bool) map[string]bool {
	out := make(map[string]bool, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func authFailure(c *fiber.Ctx, status int) error {
	switch status {
	case fiber.StatusUnauthorized:
		return helper.Error(c, fiber.StatusUnauthorized,
			"الرجاء تسجيل الدخول للمتابعة",
			"Please log in to continue")
	case fiber.StatusForbidden:
		return helper.Error(c, fiber.StatusForbidden,
			"ليس لديك الصلاحية للوصول إلى هذا المورد",
			"You are not authorized to access this resource")
	default:
		return helper.Error(c, fiber.StatusInternalServerError,
			"خطأ في التحقق من الصلاحيات",
			"Authorization check failed")
	}
}
