package services

import "testing"

func perm(name, access string) HeldPermission {
	return HeldPermission{Name: name, Access: access}
}

func TestMissingPermissionsAllSatisfied(t *testing.T) {
	held := []HeldPermission{
		perm("LIST_PROPERTY", "SELLER"),
		perm("BOOK_PROPERTY", "USER"),
	}
	required := []RequiredPermission{
		{Name: "LIST_PROPERTY", Access: []string{"SELLER", "ADMIN"}},
		{Name: "BOOK_PROPERTY", Access: []string{"USER"}},
	}

	if missing := MissingPermissions(held, required); len(missing) != 0 {
		t.Fatalf("expected no missing permissions, got %v", missing)
	}
}

func TestMissingPermissionsAndAcrossEntries(t *testing.T) {
	held := []HeldPermission{perm("LIST_PROPERTY", "SELLER")}
	required := []RequiredPermission{
		{Name: "LIST_PROPERTY", Access: []string{"SELLER"}},
		{Name: "MANAGE_USERS", Access: []string{"ADMIN"}},
	}

	missing := MissingPermissions(held, required)
	if len(missing) != 1 {
		t.Fatalf("expected 1 missing permission, got %d", len(missing))
	}
	if missing[0].Name != "MANAGE_USERS" {
		t.Fatalf("expected MANAGE_USERS missing, got %s", missing[0].Name)
	}
}

func TestMissingPermissionsOrWithinAccessList(t *testing.T) {
	held := []HeldPermission{perm("BOOK_PROPERTY", "BUYER")}
	required := []RequiredPermission{
		{Name: "BOOK_PROPERTY", Access: []string{"USER", "BUYER", "ADMIN"}},
	}

	if missing := MissingPermissions(held, required); len(missing) != 0 {
		t.Fatalf("any listed access level should satisfy the entry, got %v", missing)
	}
}

func TestMissingPermissionsAccessMismatch(t *testing.T) {
	held := []HeldPermission{perm("MODERATE_LISTINGS", "SUPPORT_STAFF")}
	required := []RequiredPermission{
		{Name: "MODERATE_LISTINGS", Access: []string{"ADMIN"}},
	}

	missing := MissingPermissions(held, required)
	if len(missing) != 1 {
		t.Fatalf("same name under wrong access must not satisfy, got %v", missing)
	}
}

func TestMissingPermissionsWildcardBypassesAccess(t *testing.T) {
	held := []HeldPermission{
		{Name: "MANAGE_ROLES", Access: "SUPER_ADMIN", Wildcard: true},
	}
	required := []RequiredPermission{
		{Name: "MANAGE_ROLES", Access: []string{"ADMIN"}},
	}

	if missing := MissingPermissions(held, required); len(missing) != 0 {
		t.Fatalf("wildcard grant should satisfy any access list, got %v", missing)
	}
}

func TestMissingPermissionsEmptyRequirement(t *testing.T) {
	if missing := MissingPermissions(nil, nil); len(missing) != 0 {
		t.Fatalf("empty requirement list must be a vacuous allow, got %v", missing)
	}
}

func TestMissingPermissionsEmptyHeld(t *testing.T) {
	required := []RequiredPermission{
		{Name: "MAKE_OFFER", Access: []string{"BUYER"}},
		{Name: "BOOK_PROPERTY", Access: []string{"USER"}},
	}

	missing := MissingPermissions(nil, required)
	if len(missing) != 2 {
		t.Fatalf("expected every entry missing for empty held set, got %d", len(missing))
	}
}
