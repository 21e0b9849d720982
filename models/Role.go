package models

import (
	"time"
)

// Access levels a permission can be tagged with.
const (
	AccessAll          = "ALL"
	AccessAdmin        = "ADMIN"
	AccessUser         = "USER"
	AccessSeller       = "SELLER"
	AccessBuyer        = "BUYER"
	AccessSupportStaff = "SUPPORT_STAFF"
)

// SuperAdminRoleName is the distinguished role that bypasses permission
// checks. IsSuperAdmin is resolved from it once at seed time so the
// evaluator never compares role names per request.
const SuperAdminRoleName = "SUPER_ADMIN"

type Role struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"size:64;uniqueIndex;not null"`
	Description  string `json:"description" gorm:"size:255"`
	IsSuperAdmin bool   `json:"isSuperAdmin" gorm:"default:false"`

	Permissions []RolePermission `json:"permissions" gorm:"foreignKey:RoleID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Permission struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Name   string `json:"name" gorm:"size:100;index:idx_permission_name_access,unique;not null"`
	Access string `json:"access" gorm:"size:20;index:idx_permission_name_access,unique;not null"`

	CreatedAt time.Time `json:"createdAt"`
}

// RolePermission links a role to a permission. The unique index on the
// pair guarantees a role cannot hold the same grant twice.
type RolePermission struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	RoleID       uint       `json:"roleID" gorm:"index:idx_role_permission,unique;not null"`
	PermissionID uint       `json:"permissionID" gorm:"index:idx_role_permission,unique;not null"`
	Permission   Permission `json:"permission" gorm:"foreignKey:PermissionID"`

	CreatedAt time.Time `json:"createdAt"`
}
