package policies

import "context"

// RoleAuthorizer grants staff and admin everything, and lets owners act on
// their own bookings for the actions listed in OwnerActions.
type RoleAuthorizer struct {
	// OwnerActions are permitted for the resource owner regardless of role.
	OwnerActions map[string]struct{}
}

// NewRoleAuthorizer configures the default policy: owners may request and
// cancel their own bookings, everything else needs staff or admin.
func NewRoleAuthorizer() RoleAuthorizer {
	return RoleAuthorizer{
		OwnerActions: map[string]struct{}{
			"booking.request": {},
			"booking.cancel":  {},
			"booking.view":    {},
		},
	}
}

func (a RoleAuthorizer) Check(ctx context.Context, actor Actor, action string, resource Resource) bool {
	if actor.ID == "" {
		return false
	}
	if actor.HasRole("admin") || actor.HasRole("staff") {
		return true
	}
	if _, ok := a.OwnerActions[action]; ok {
		return resource.OwnerID == "" || resource.OwnerID == actor.ID
	}
	return false
}

var _ Authorizer = RoleAuthorizer{}
