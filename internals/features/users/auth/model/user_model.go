package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel is an administrative account (the member-facing identity lives in
// the members table). Password is a bcrypt hash; Role is the primary role,
// time-bounded extra roles live in active_roles.
type UserModel struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email     string         `gorm:"column:email;type:varchar(120);not null;unique" json:"email"`
	FullName  string         `gorm:"column:full_name;type:varchar(120);not null" json:"full_name"`
	Phone     *string        `gorm:"column:phone;type:varchar(20)" json:"phone,omitempty"`
	Password  string         `gorm:"column:password;type:text;not null" json:"-"`
	Role      string         `gorm:"column:role;type:varchar(50);not null;default:'user_member'" json:"role"`
	// no column default: GORM drops zero-valued fields that carry one, which
	// would silently store a deactivated account as active
	IsActive  bool           `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	return nil
}
