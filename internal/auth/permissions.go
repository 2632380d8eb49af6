package auth

const (
	RoleEmployee    = "EMPLOYEE"
	RoleHR          = "HR"
	RoleSystemAdmin = "SYSTEM_ADMIN"
)

const (
	PermOnboardingRead   = "onboarding.read"
	PermOnboardingWrite  = "onboarding.write"
	PermOnboardingManage = "onboarding.manage"
	PermRecordsVerify    = "records.verify"
	PermSystemAdmin      = "admin.system"
)

// RolePermissions is the static grant table. EMPLOYEE grants are further
// limited to the caller's own employee record by the handlers.
var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermOnboardingRead,
		PermOnboardingWrite,
	},
	RoleHR: {
		PermOnboardingRead,
		PermOnboardingWrite,
		PermOnboardingManage,
		PermRecordsVerify,
	},
	RoleSystemAdmin: {
		PermSystemAdmin,
	},
}

func HasPermission(role, permission string) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
