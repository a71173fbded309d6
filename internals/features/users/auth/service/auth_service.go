// file: internals/features/users/auth/service/auth_service.go
package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"alshuail_backend/internals/configs"
	"alshuail_backend/internals/constants"
	authModel "alshuail_backend/internals/features/users/auth/model"
	memberModel "alshuail_backend/internals/features/members/model"
	helper "alshuail_backend/internals/helpers"
)

const (
	AdminTokenTTL  = 24 * time.Hour
	MemberTokenTTL = 30 * 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account inactive")
	ErrMemberNotActive    = errors.New("membership not active")
)

// =======================================================
// ADMIN LOGIN (email + password, users table)
// =======================================================

type AdminSession struct {
	Token string                 `json:"token"`
	User  map[string]interface{} `json:"user"`
}

func AuthenticateAdmin(db *gorm.DB, email, password string) (*AdminSession, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	var user authModel.UserModel
	if err := db.First(&user, "email = ?", normalized).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	perms := constants.RolePermissions(user.Role)
	token, err := signToken(jwt.MapClaims{
		"id":          user.ID.String(),
		"email":       user.Email,
		"full_name":   user.FullName,
		"role":        user.Role,
		"permissions": perms,
		"iat":         time.Now().Unix(),
		"exp":         time.Now().Add(AdminTokenTTL).Unix(),
	})
	if err != nil {
		return nil, err
	}

	return &AdminSession{
		Token: token,
		User: map[string]interface{}{
			"id":          user.ID,
			"email":       user.Email,
			"full_name":   user.FullName,
			"role":        user.Role,
			"role_ar":     constants.ArabicRoleName(user.Role),
			"permissions": perms,
		},
	}, nil
}

// =======================================================
// MEMBER LOGIN (phone + membership number, members table)
// =======================================================

type MemberSession struct {
	Token  string                 `json:"token"`
	Member map[string]interface{} `json:"member"`
}

func AuthenticateMember(db *gorm.DB, phone, membershipNumber string) (*MemberSession, error) {
	normalized, ok := helper.NormalizePhone(phone)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	var member memberModel.Member
	err := db.First(&member,
		"member_phone = ? AND member_membership_number = ?",
		normalized, strings.TrimSpace(membershipNumber)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if member.MemberStatus != memberModel.MemberStatusActive {
		return nil, ErrMemberNotActive
	}

	token, err := signToken(jwt.MapClaims{
		"id":                member.MemberID.String(),
		"phone":             member.MemberPhone,
		"full_name":         member.MemberFullName,
		"membership_number": member.MemberMembershipNumber,
		"role":              constants.RoleMember,
		"iat":               time.Now().Unix(),
		"exp":               time.Now().Add(MemberTokenTTL).Unix(),
	})
	if err != nil {
		return nil, err
	}

	return &MemberSession{
		Token: token,
		Member: map[string]interface{}{
			"id":                member.MemberID,
			"full_name":         member.MemberFullName,
			"phone":             member.MemberPhone,
			"membership_number": member.MemberMembershipNumber,
			"balance":           member.MemberBalance,
		},
	}, nil
}

// =======================================================
// LOGOUT (token → blacklist until its natural expiry)
// =======================================================

func BlacklistToken(db *gorm.DB, tokenString string) error {
	expiredAt := time.Now().Add(AdminTokenTTL)

	// best effort: read the token's own exp so the row can be pruned on time
	parser := jwt.Parser{SkipClaimsValidation: true}
	if tok, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{}); err == nil {
		if claims, ok := tok.Claims.(jwt.MapClaims); ok {
			if exp, ok := claims["exp"].(float64); ok {
				expiredAt = time.Unix(int64(exp), 0)
			}
		}
	}

	row := authModel.TokenBlacklist{Token: tokenString, ExpiredAt: expiredAt}
	return db.Create(&row).Error
}

// CleanupExpiredTokens prunes blacklist rows whose tokens have expired on
// their own. Returns the number of rows removed.
func CleanupExpiredTokens(db *gorm.DB) (int64, error) {
	res := db.Unscoped().
		Where("expired_at < ?", time.Now()).
		Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}

func signToken(claims jwt.MapClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(configs.JWTSecret))
}
