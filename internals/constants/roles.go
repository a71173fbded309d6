package constants

// ==========================
// Role names
// ==========================
const (
	RoleSuperAdmin       = "super_admin"
	RoleAdmin            = "admin"
	RoleFinancialManager = "financial_manager"
	RoleFamilyTreeAdmin  = "family_tree_admin"
	RoleOccasionsAdmin   = "occasions_initiatives_diyas_admin"
	RoleUserMember       = "user_member"
	RoleMember           = "member"
	RoleViewer           = "viewer" // synthetic, public dashboard reads only
)

// ==========================
// Permission names
// ==========================
const (
	PermAllAccess            = "all_access"
	PermManageUsers          = "manage_users"
	PermManageMembers        = "manage_members"
	PermApproveMembers       = "approve_members"
	PermManageFinances       = "manage_finances"
	PermManageSubscriptions  = "manage_subscriptions"
	PermManagePayments       = "manage_payments"
	PermManageFamilyTree     = "manage_family_tree"
	PermManageRelationships  = "manage_relationships"
	PermManageOccasions      = "manage_occasions"
	PermManageInitiatives    = "manage_initiatives"
	PermManageDiyas          = "manage_diyas"
	PermViewDashboard        = "view_dashboard"
	PermViewReports          = "view_reports"
	PermViewFinancialReports = "view_financial_reports"
	PermViewTreeManagement   = "view_tree_management"
	PermViewEventsCalendar   = "view_events_calendar"
	PermSystemSettings       = "system_settings"
	PermViewMyProfile        = "view_my_profile"
	PermViewMyPayments       = "view_my_payments"
	PermViewFamilyEvents     = "view_family_events"
)

// ==========================
// Grouped role slices
// ==========================
var (
	AllAdminRoles = []string{
		RoleSuperAdmin,
		RoleAdmin,
		RoleFinancialManager,
		RoleFamilyTreeAdmin,
		RoleOccasionsAdmin,
	}

	AnyAuthenticated = []string{
		RoleSuperAdmin,
		RoleAdmin,
		RoleFinancialManager,
		RoleFamilyTreeAdmin,
		RoleOccasionsAdmin,
		RoleUserMember,
		RoleMember,
	}

	// Roles a super_admin may hand out as a time-bounded grant.
	AssignableRoles = []string{
		RoleSuperAdmin,
		RoleFinancialManager,
		RoleFamilyTreeAdmin,
		RoleOccasionsAdmin,
		RoleUserMember,
	}
)

// ArabicRoleName maps a role to the display name shown in admin screens.
func ArabicRoleName(role string) string {
	names := map[string]string{
		RoleSuperAdmin:       "المدير الأعلى",
		RoleAdmin:            "مدير",
		RoleFinancialManager: "المدير المالي",
		RoleFamilyTreeAdmin:  "مدير شجرة العائلة",
		RoleOccasionsAdmin:   "مدير المناسبات والمبادرات والديات",
		RoleUserMember:       "عضو عادي",
		RoleMember:           "عضو",
		RoleViewer:           "زائر",
	}
	if n, ok := names[role]; ok {
		return n
	}
	return role
}

// RolePermissions is the static fallback used when a token carries no
// permissions claim. Unknown roles only get the dashboard.
func RolePermissions(role string) map[string]bool {
	perms := map[string]map[string]bool{
		RoleSuperAdmin: {
			PermAllAccess:         true,
			PermManageUsers:       true,
			PermManageMembers:     true,
			PermManageFinances:    true,
			PermManageFamilyTree:  true,
			PermManageOccasions:   true,
			PermManageInitiatives: true,
			PermManageDiyas:       true,
			PermViewReports:       true,
			PermSystemSettings:    true,
		},
		RoleAdmin: {
			PermViewDashboard:        true,
			PermManageMembers:        true,
			PermApproveMembers:       true,
			PermManageFinances:       true,
			PermViewFinancialReports: true,
			PermManageSubscriptions:  true,
			PermManagePayments:       true,
			PermViewReports:          true,
		},
		RoleFinancialManager: {
			PermViewDashboard:        true,
			PermManageFinances:       true,
			PermViewFinancialReports: true,
			PermManageSubscriptions:  true,
			PermManagePayments:       true,
		},
		RoleFamilyTreeAdmin: {
			PermViewDashboard:       true,
			PermManageFamilyTree:    true,
			PermViewTreeManagement:  true,
			PermManageRelationships: true,
		},
		RoleOccasionsAdmin: {
			PermViewDashboard:      true,
			PermManageOccasions:    true,
			PermManageInitiatives:  true,
			PermManageDiyas:        true,
			PermViewEventsCalendar: true,
		},
		RoleUserMember: {
			PermViewDashboard:    true,
			PermViewMyProfile:    true,
			PermViewMyPayments:   true,
			PermViewFamilyEvents: true,
		},
	}
	if p, ok := perms[role]; ok {
		return p
	}
	return map[string]bool{PermViewDashboard: true}
}
