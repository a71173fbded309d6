// internals/middlewares/auth/active_roles.go
package auth

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alshuail_backend/internals/constants"
	rolesModel "alshuail_backend/internals/features/users/roles/model"
)

// mergeTimeBoundedRoles folds permissions from every grant active today into
// perms. The lookup is best effort: a failing permission table must not take
// the API down, so errors only mark the context degraded and the request
// proceeds on token-derived permissions.
func mergeTimeBoundedRoles(db *gorm.DB, userID uuid.UUID, perms map[string]bool) (degraded bool) {
	var grants []rolesModel.ActiveRole
	err := db.
		Where("active_role_user_id = ? AND active_role_is_active = ?", userID, true).
		Find(&grants).Error
	if err != nil {
		log.Printf("[WARN] active_roles lookup failed for %s, proceeding degraded: %v", userID, err)
		return true
	}

	today := time.Now()
	for _, g := range grants {
		if !g.ActiveOn(today) {
			continue
		}
		for name, allowed := range constants.RolePermissions(g.ActiveRoleName) {
			if allowed {
				perms[name] = true
			}
		}
	}
	return false
}
