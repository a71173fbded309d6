// file: internals/seeds/runner.go
package seeds

import (
	"gorm.io/gorm"

	users "alshuail_backend/internals/seeds/users"
)

// RunAllSeeds loads the bootstrap data. Invoked manually (SEED=true env)
// against a fresh database; every seeder skips rows that already exist.
func RunAllSeeds(db *gorm.DB) {
	users.SeedUsersFromJSON(db, "internals/seeds/users/data_users.json")
}
