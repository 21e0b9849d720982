package storage

import (
	"log"

	"gorm.io/gorm"

	"github.com/techemperorhousings/emp-housing-backend-sub000/models"
)

// Permission names used across the route annotations.
const (
	PermManageUsers     = "MANAGE_USERS"
	PermManageRoles     = "MANAGE_ROLES"
	PermModerateListing = "MODERATE_LISTINGS"
	PermReviewKYC       = "REVIEW_KYC"
	PermManageTickets   = "MANAGE_TICKETS"
	PermListProperty    = "LIST_PROPERTY"
	PermBookProperty    = "BOOK_PROPERTY"
	PermMakeOffer       = "MAKE_OFFER"
	PermDecideBooking   = "DECIDE_BOOKING"
	PermManageRentals   = "MANAGE_RENTALS"
	PermManagePurchases = "MANAGE_PURCHASES"
)

type seedGrant struct {
	name   string
	access string
}

var roleGrants = map[string][]seedGrant{
	"ADMIN": {
		{PermManageUsers, models.AccessAdmin},
		{PermModerateListing, models.AccessAdmin},
		{PermReviewKYC, models.AccessAdmin},
		{PermManageTickets, models.AccessAdmin},
		{PermDecideBooking, models.AccessAdmin},
		{PermManageRentals, models.AccessAdmin},
		{PermManagePurchases, models.AccessAdmin},
	},
	"SUPPORT_STAFF": {
		{PermReviewKYC, models.AccessSupportStaff},
		{PermManageTickets, models.AccessSupportStaff},
	},
	"SELLER": {
		{PermListProperty, models.AccessSeller},
		{PermDecideBooking, models.AccessSeller},
	},
	"BUYER": {
		{PermBookProperty, models.AccessBuyer},
		{PermMakeOffer, models.AccessBuyer},
	},
	"USER": {
		{PermBookProperty, models.AccessUser},
		{PermMakeOffer, models.AccessUser},
	},
}

// seedRBAC creates the fixed role set and permission catalogue. It is
// idempotent: existing rows are left alone, so re-running migrations
// never duplicates grants. IsSuperAdmin is resolved here, once.
func seedRBAC(db *gorm.DB) {
	superAdmin := models.Role{Name: models.SuperAdminRoleName}
	if err := db.Where(models.Role{Name: models.SuperAdminRoleName}).
		Attrs(models.Role{IsSuperAdmin: true, Description: "Full access to every permission"}).
		FirstOrCreate(&superAdmin).Error; err != nil {
		log.Printf("seed: super admin role: %v", err)
	}

	for roleName, grants := range roleGrants {
		var role models.Role
		if err := db.Where(models.Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
			log.Printf("seed: role %s: %v", roleName, err)
			continue
		}

		for _, grant := range grants {
			var permission models.Permission
			if err := db.Where(models.Permission{Name: grant.name, Access: grant.access}).
				FirstOrCreate(&permission).Error; err != nil {
				log.Printf("seed: permission %s/%s: %v", grant.name, grant.access, err)
				continue
			}

			var link models.RolePermission
			if err := db.Where(models.RolePermission{RoleID: role.ID, PermissionID: permission.ID}).
				FirstOrCreate(&link).Error; err != nil {
				log.Printf("seed: link %s -> %s: %v", roleName, grant.name, err)
			}
		}
	}
}

// DefaultRoleID resolves the role new registrations get.
func DefaultRoleID(db *gorm.DB) uint {
	var role models.Role
	if err := db.Where("name = ?", "USER").First(&role).Error; err != nil {
		log.Printf("seed: default role missing: %v", err)
		return 0
	}
	return role.ID
}
