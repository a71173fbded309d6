// file: internals/features/users/auth/scheduler/blacklist_cleanup.go
package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	authService "alshuail_backend/internals/features/users/auth/service"
)

// StartBlacklistCleanupScheduler prunes expired token_blacklist rows in the
// background. Interval is hours, configurable via TOKEN_CLEANUP_HOURS.
func StartBlacklistCleanupScheduler(db *gorm.DB) {
	go func() {
		intervalHours := 24
		if val := os.Getenv("TOKEN_CLEANUP_HOURS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
				intervalHours = parsed
			}
		}

		for {
			log.Println("[CLEANUP] Pruning expired token_blacklist rows...")

			removed, err := authService.CleanupExpiredTokens(db)
			switch {
			case err != nil:
				log.Printf("[CLEANUP ERROR] blacklist prune failed: %v", err)
			case removed > 0:
				log.Printf("[CLEANUP] %d expired tokens removed", removed)
			default:
				log.Println("[CLEANUP] No expired tokens to remove")
			}

			time.Sleep(time.Duration(intervalHours) * time.Hour)
		}
	}()
}
