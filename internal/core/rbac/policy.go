// Package rbac answers which console actions a role may perform.
//
// The policy is a fixed table of explicit role sets, not a privilege
// comparison: a role not named in a cell is denied, and so is any value
// outside the closed role enumeration, including the empty role of an
// unauthenticated session.
package rbac

import (
	"github.com/cdportal/admin-console/internal/core/domain"
)

type Resource string

const (
	ResourceCompany Resource = "company"
	ResourceDriver  Resource = "driver"
	ResourceUser    Resource = "user"
)

type Operation string

const (
	OpView       Operation = "view"
	OpSearch     Operation = "search"
	OpCreate     Operation = "create"
	OpUpdate     Operation = "update"
	OpUpdateRole Operation = "update_role"
	OpDelete     Operation = "delete"
)

var (
	anyRole    = roleSet(domain.RoleUser, domain.RoleAdmin, domain.RoleSuperAdmin)
	adminPlus  = roleSet(domain.RoleAdmin, domain.RoleSuperAdmin)
	superAdmin = roleSet(domain.RoleSuperAdmin)
)

// matrix is the permission table. Missing cells deny.
var matrix = map[Resource]map[Operation]map[domain.Role]struct{}{
	ResourceCompany: {
		OpView:   anyRole,
		OpSearch: anyRole,
		OpCreate: adminPlus,
		OpUpdate: adminPlus,
		OpDelete: superAdmin,
	},
	ResourceDriver: {
		OpView:   anyRole,
		OpSearch: anyRole,
		OpCreate: adminPlus,
		OpUpdate: adminPlus,
		OpDelete: superAdmin,
	},
	ResourceUser: {
		OpView:       anyRole,
		OpSearch:     anyRole,
		OpCreate:     superAdmin,
		OpUpdateRole: superAdmin,
		OpDelete:     superAdmin,
	},
}

func roleSet(roles ...domain.Role) map[domain.Role]struct{} {
	set := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// IsAllowed reports whether role may perform op on res.
func IsAllowed(role domain.Role, res Resource, op Operation) bool {
	ops, ok := matrix[res]
	if !ok {
		return false
	}
	_, ok = ops[op][role]
	return ok
}

// IsSelf reports whether candidate is the account the session acts as. The
// identity is compared against id, username and email in that order using
// exact, case-sensitive matching. Empty values never match.
func IsSelf(identity domain.Identity, candidate domain.User) bool {
	if identity.IsZero() {
		return false
	}
	for _, v := range []string{candidate.ID.String(), candidate.Username, candidate.Email} {
		if v != "" && v == identity.Subject {
			return true
		}
	}
	return false
}

// selfVetoed lists the user operations that can never target one's own account.
var selfVetoed = map[Operation]struct{}{
	OpDelete:     {},
	OpUpdateRole: {},
}

// AuthorizeUser combines the role check with the self-veto for actions on a
// specific user account.
func AuthorizeUser(role domain.Role, identity domain.Identity, op Operation, target domain.User) error {
	if !IsAllowed(role, ResourceUser, op) {
		return domain.ErrForbidden
	}
	if _, vetoed := selfVetoed[op]; vetoed && IsSelf(identity, target) {
		return domain.ErrSelfAction
	}
	return nil
}

// Authorize is the error-returning form of IsAllowed.
func Authorize(role domain.Role, res Resource, op Operation) error {
	if !IsAllowed(role, res, op) {
		return domain.ErrForbidden
	}
	return nil
}

// Grants lists, per resource, the operations role may perform. Resources with
// no allowed operation are omitted.
func Grants(role domain.Role) map[Resource][]Operation {
	order := []Operation{OpView, OpSearch, OpCreate, OpUpdate, OpUpdateRole, OpDelete}
	out := make(map[Resource][]Operation)
	for _, res := range []Resource{ResourceCompany, ResourceDriver, ResourceUser} {
		for _, op := range order {
			if IsAllowed(role, res, op) {
				out[res] = append(out[res], op)
			}
		}
	}
	return out
}
