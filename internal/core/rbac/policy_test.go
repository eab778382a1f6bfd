package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdportal/admin-console/internal/core/domain"
)

var allRoles = []domain.Role{"", "GUEST", "admin", domain.RoleUser, domain.RoleAdmin, domain.RoleSuperAdmin}

func TestIsAllowed_CreateAndUpdateRecords(t *testing.T) {
	for _, res := range []Resource{ResourceCompany, ResourceDriver} {
		for _, op := range []Operation{OpCreate, OpUpdate} {
			for _, role := range allRoles {
				want := role == domain.RoleAdmin || role == domain.RoleSuperAdmin
				assert.Equal(t, want, IsAllowed(role, res, op), "%s %s %q", res, op, role)
			}
		}
	}
}

func TestIsAllowed_DeleteRecordsSuperAdminOnly(t *testing.T) {
	for _, res := range []Resource{ResourceCompany, ResourceDriver} {
		for _, role := range allRoles {
			assert.Equal(t, role == domain.RoleSuperAdmin, IsAllowed(role, res, OpDelete), "%s %q", res, role)
		}
	}
}

func TestIsAllowed_UserManagementSuperAdminOnly(t *testing.T) {
	for _, op := range []Operation{OpCreate, OpUpdateRole, OpDelete} {
		for _, role := range allRoles {
			assert.Equal(t, role == domain.RoleSuperAdmin, IsAllowed(role, ResourceUser, op), "%s %q", op, role)
		}
	}
	// Users have no general update, only role changes.
	assert.False(t, IsAllowed(domain.RoleSuperAdmin, ResourceUser, OpUpdate))
}

func TestIsAllowed_ViewAndSearchNeedKnownRole(t *testing.T) {
	for _, res := range []Resource{ResourceCompany, ResourceDriver, ResourceUser} {
		for _, op := range []Operation{OpView, OpSearch} {
			for _, role := range allRoles {
				assert.Equal(t, role.Valid(), IsAllowed(role, res, op), "%s %s %q", res, op, role)
			}
		}
	}
}

func TestIsAllowed_UnknownResourceOrOperation(t *testing.T) {
	assert.False(t, IsAllowed(domain.RoleSuperAdmin, Resource("invoice"), OpView))
	assert.False(t, IsAllowed(domain.RoleSuperAdmin, ResourceCompany, Operation("export")))
}

func TestIsSelf(t *testing.T) {
	target := domain.User{ID: "7", Username: "alice", Email: "alice@example.com"}

	tests := []struct {
		name    string
		subject string
		want    bool
	}{
		{"by id", "7", true},
		{"by username", "alice", true},
		{"by email", "alice@example.com", true},
		{"case sensitive", "Alice", false},
		{"other user", "bob", false},
		{"no identity", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSelf(domain.Identity{Subject: tt.subject}, target))
		})
	}
}

func TestIsSelf_EmptyFieldsNeverMatch(t *testing.T) {
	assert.False(t, IsSelf(domain.Identity{Subject: "x"}, domain.User{}))
}

func TestAuthorizeUser_SelfVetoOverridesRole(t *testing.T) {
	me := domain.Identity{Subject: "root"}
	self := domain.User{ID: "1", Username: "root"}
	other := domain.User{ID: "2", Username: "ops"}

	require.ErrorIs(t, AuthorizeUser(domain.RoleSuperAdmin, me, OpDelete, self), domain.ErrSelfAction)
	require.ErrorIs(t, AuthorizeUser(domain.RoleSuperAdmin, me, OpUpdateRole, self), domain.ErrSelfAction)
	require.NoError(t, AuthorizeUser(domain.RoleSuperAdmin, me, OpDelete, other))
	require.NoError(t, AuthorizeUser(domain.RoleSuperAdmin, me, OpView, self))
	require.ErrorIs(t, AuthorizeUser(domain.RoleAdmin, me, OpDelete, other), domain.ErrForbidden)
}

func TestGrants(t *testing.T) {
	g := Grants(domain.RoleAdmin)
	assert.Equal(t, []Operation{OpView, OpSearch, OpCreate, OpUpdate}, g[ResourceCompany])
	assert.Equal(t, []Operation{OpView, OpSearch}, g[ResourceUser])

	assert.Empty(t, Grants(""))
}
