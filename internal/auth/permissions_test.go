package auth

import "testing"

func TestRoleGrantsNonEmptyAndUnique(t *testing.T) {
	for role, perms := range RolePermissions {
		if len(perms) == 0 {
			t.Fatalf("role %s has no permissions", role)
		}
		seen := map[string]struct{}{}
		for _, perm := range perms {
			if _, ok := seen[perm]; ok {
				t.Fatalf("role %s lists %s twice", role, perm)
			}
			seen[perm] = struct{}{}
		}
	}
}

func TestOnlyHRVerifies(t *testing.T) {
	if HasPermission(RoleEmployee, PermRecordsVerify) {
		t.Fatal("employees must not verify their own records")
	}
	if !HasPermission(RoleHR, PermRecordsVerify) {
		t.Fatal("HR verifies records")
	}
	if HasPermission("UNKNOWN", PermOnboardingRead) {
		t.Fatal("unknown roles have no grants")
	}
}

func TestSystemAdminHasNoOnboardingAccess(t *testing.T) {
	for _, perm := range []string{PermOnboardingRead, PermOnboardingWrite, PermOnboardingManage, PermRecordsVerify} {
		if HasPermission(RoleSystemAdmin, perm) {
			t.Fatalf("system admin must not hold %s", perm)
		}
	}
	if !HasPermission(RoleSystemAdmin, PermSystemAdmin) {
		t.Fatal("system admin holds admin.system")
	}
}
