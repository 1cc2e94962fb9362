// Package authz derives view capabilities from the current identity. Views
// consume capability predicates, never raw role strings.
package authz

import "github.com/wardroomhq/wardroom/internal/domain"

// Policy is a pure capability set over one identity snapshot. Build a fresh
// Policy from the session's current identity on every evaluation; never hold
// one across a role mutation.
type Policy struct {
	identity *domain.Identity
}

// For returns the policy for identity. A nil identity grants nothing.
func For(identity *domain.Identity) Policy {
	return Policy{identity: identity}
}

func (p Policy) role() domain.Role {
	if p.identity == nil {
		return ""
	}
	return p.identity.Role
}

// IsAdmin reports whether the identity holds the ADMIN role.
func (p Policy) IsAdmin() bool { return p.role() == domain.RoleAdmin }

// IsManager reports whether the identity holds the MANAGER role.
func (p Policy) IsManager() bool { return p.role() == domain.RoleManager }

// IsStaff reports whether the identity holds the STAFF role.
func (p Policy) IsStaff() bool { return p.role() == domain.RoleStaff }

// CanManageUsers gates role and status mutation.
func (p Policy) CanManageUsers() bool { return p.IsAdmin() }

// CanCreateInvite gates invitation issuance.
func (p Policy) CanCreateInvite() bool { return p.IsAdmin() }

// CanViewUsers gates the user directory view.
func (p Policy) CanViewUsers() bool { return p.IsAdmin() }

// CanCreateProject is granted to any authenticated identity.
func (p Policy) CanCreateProject() bool { return p.identity != nil }

// CanEditProject gates project mutation. The project argument is part of the
// contract even though the current policy ignores it.
func (p Policy) CanEditProject(_ domain.Project) bool { return p.IsAdmin() }

// CanDeleteProject gates project soft deletion.
func (p Policy) CanDeleteProject(_ domain.Project) bool { return p.IsAdmin() }
