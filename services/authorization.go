package services

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"

	"github.com/techemperorhousings/emp-housing-backend-sub000/models"
)

// RequiredPermission is one entry of a route's permission annotation.
// Access uses any-of semantics: the caller satisfies the entry when it
// holds the named permission under at least one of the listed levels.
type RequiredPermission struct {
	Name   string
	Access []string
}

// HeldPermission is a (name, access) pair a role actually carries.
// Wildcard marks super-admin synthesized grants, which satisfy any
// access-level check by construction.
type HeldPermission struct {
	Name     string
	Access   string
	Wildcard bool
}

// AuthorizationService evaluates permission requirements against the
// role -> permission-link -> permission graph. It holds no state beyond
// the injected database handle and performs read-only queries.
type AuthorizationService struct {
	db *gorm.DB
}

func NewAuthorizationService(db *gorm.DB) *AuthorizationService {
	return &AuthorizationService{db: db}
}

// Evaluate decides whether the user may perform an action annotated with
// the given requirements. An empty requirement list is a vacuous allow.
// Returns nil on allow, a NotFound error when the user record is missing
// (callers usually treat that as an authentication failure), and a
// Forbidden error naming the missing grants on deny.
func (s *AuthorizationService) Evaluate(userID uint, required []RequiredPermission) error {
	if len(required) == 0 {
		return nil
	}

	var user models.User
	if err := s.db.Preload("Role").First(&user, userID).Error; err != nil {
		return NotFoundError("user %d not found", userID)
	}

	held, err := s.heldPermissions(&user.Role)
	if err != nil {
		return err
	}

	missing := MissingPermissions(held, required)
	if len(missing) == 0 {
		return nil
	}

	parts := make([]string, 0, len(missing))
	for _, m := range missing {
		parts = append(parts, fmt.Sprintf("%s (%s)", m.Name, strings.Join(m.Access, "|")))
	}
	return ForbiddenError("missing required permission(s): %s", strings.Join(parts, ", "))
}

// HoldsGrant reports whether the user's role carries the named permission
// at one of the given access levels. Super-admin wildcard grants satisfy
// any level by construction.
func (s *AuthorizationService) HoldsGrant(userID uint, name string, access ...string) bool {
	var user models.User
	if err := s.db.Preload("Role").First(&user, userID).Error; err != nil {
		return false
	}
	held, err := s.heldPermissions(&user.Role)
	if err != nil {
		return false
	}
	missing := MissingPermissions(held, []RequiredPermission{
		{Name: name, Access: access},
	})
	return len(missing) == 0
}

// HoldsAdminGrant is the ownership override used by the decision flows:
// the named permission held at ADMIN access. A custom role granted the
// permission gets the override without any role-name comparison.
func (s *AuthorizationService) HoldsAdminGrant(userID uint, name string) bool {
	return s.HoldsGrant(userID, name, models.AccessAdmin)
}

// heldPermissions loads the role's grants. A super-admin role synthesizes
// the full permission catalogue with wildcard access instead of walking
// its own links.
func (s *AuthorizationService) heldPermissions(role *models.Role) ([]HeldPermission, error) {
	if role.IsSuperAdmin {
		var all []models.Permission
		if err := s.db.Find(&all).Error; err != nil {
			return nil, err
		}
		held := make([]HeldPermission, 0, len(all))
		for _, p := range all {
			held = append(held, HeldPermission{Name: p.Name, Access: role.Name, Wildcard: true})
		}
		return held, nil
	}

	var links []models.RolePermission
	if err := s.db.Preload("Permission").Where("role_id = ?", role.ID).Find(&links).Error; err != nil {
		return nil, err
	}
	held := make([]HeldPermission, 0, len(links))
	for _, link := range links {
		held = append(held, HeldPermission{Name: link.Permission.Name, Access: link.Permission.Access})
	}
	return held, nil
}

// MissingPermissions returns the required entries not satisfied by the
// held set. Every entry must be satisfied (AND across entries); within an
// entry any listed access level suffices (OR across the access list).
func MissingPermissions(held []HeldPermission, required []RequiredPermission) []RequiredPermission {
	var missing []RequiredPermission
	for _, req := range required {
		if !satisfies(held, req) {
			missing = append(missing, req)
		}
	}
	return missing
}

func satisfies(held []HeldPermission, req RequiredPermission) bool {
	for _, h := range held {
		if h.Name != req.Name {
			continue
		}
		if h.Wildcard {
			return true
		}
		if slices.Contains(req.Access, h.Access) {
			return true
		}
	}
	return false
}
