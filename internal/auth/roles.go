package auth

import "github.com/storefront/admin-console/internal/domain"

// RoleSet is the set of roles allowed to reach a page. Membership is exact;
// there is no hierarchy between roles.
type RoleSet map[domain.Role]struct{}

// NewRoleSet builds a set from the allowed roles.
func NewRoleSet(allowed ...domain.Role) RoleSet {
	set := make(RoleSet, len(allowed))
	for _, role := range allowed {
		if role == "" {
			continue
		}
		set[role] = struct{}{}
	}
	return set
}

// Contains reports whether role is a member. The empty role never is.
func (s RoleSet) Contains(role domain.Role) bool {
	if role == "" {
		return false
	}
	_, ok := s[role]
	return ok
}

// Empty reports whether the set restricts nothing.
func (s RoleSet) Empty() bool {
	return len(s) == 0
}

// Roles returns the members, order unspecified.
func (s RoleSet) Roles() []domain.Role {
	out := make([]domain.Role, 0, len(s))
	for role := range s {
		out = append(out, role)
	}
	return out
}

// HasAnyRole reports whether role is one of allowed.
func HasAnyRole(role domain.Role, allowed ...domain.Role) bool {
	return NewRoleSet(allowed...).Contains(role)
}
