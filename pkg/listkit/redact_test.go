package listkit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func userPolicy() *VisibilityPolicy {
	return NewVisibilityPolicy().
		Allow(RoleSystemAdmin, "nickname", "postalCode", "address", "birthDate", "gender", "rank").
		Allow(RoleFacilityAdmin, "nickname", "postalCode", "address", "birthDate", "gender", "rank").
		Allow(RoleOperator, "nickname", "rank")
}

func TestRedact_OperatorNeverSeesSensitiveFields(t *testing.T) {
	t.Parallel()

	policy := userPolicy()
	row := Row{"nickname": "Taro", "postalCode": "123-4567", "rank": 2}

	got := policy.Redact(RoleOperator, row)
	require.Equal(t, Row{"nickname": "Taro", "rank": 2}, got)
}

func TestRedact_UnknownRoleFailsClosed(t *testing.T) {
	t.Parallel()

	policy := userPolicy()
	row := Row{"nickname": "Taro", "postalCode": "123-4567"}

	require.Empty(t, policy.Redact(RoleUnknown, row))
	require.Empty(t, policy.Redact(Role(99), row))
}

func TestRedact_OutputKeysSubsetOfAllowList(t *testing.T) {
	t.Parallel()

	policy := userPolicy()
	// A backend response that erroneously includes an attribute no role
	// was ever granted must still never surface.
	row := Row{"nickname": "Taro", "passwordHash": "x", "postalCode": "123-4567"}

	for _, role := range Roles() {
		allowed := make(map[string]struct{})
		for _, k := range policy.AllowList(role) {
			allowed[k] = struct{}{}
		}
		for k := range policy.Redact(role, row) {
			_, ok := allowed[k]
			require.True(t, ok, "role %s leaked key %q", role, k)
		}
	}
}

func TestVisibleColumns_SuppressesRedactedHeaders(t *testing.T) {
	t.Parallel()

	policy := userPolicy()
	cols := []Column{
		{Key: "nickname", Label: "Nickname", Sortable: true},
		{Key: "postalCode", Label: "Postal Code"},
		{Key: "rank", Label: "Rank", Sortable: true},
	}

	got := policy.VisibleColumns(RoleOperator, cols)
	require.Len(t, got, 2)
	for _, col := range got {
		require.NotEqual(t, "postalCode", col.Key)
	}
}

func TestVisibleColumns_UnknownRoleGetsNoHeaders(t *testing.T) {
	t.Parallel()

	policy := userPolicy()
	cols := []Column{{Key: "nickname", Label: "Nickname"}}
	require.Empty(t, policy.VisibleColumns(RoleUnknown, cols))
}

func TestParseRole_ClosedEnumeration(t *testing.T) {
	t.Parallel()

	require.Equal(t, RoleSystemAdmin, ParseRole("system_admin"))
	require.Equal(t, RoleOperator, ParseRole("  Operator "))
	require.Equal(t, RoleShopStaff, ParseRole("shop_staff"))
	require.Equal(t, RoleUnknown, ParseRole("superuser"))
	require.Equal(t, RoleUnknown, ParseRole(""))
}

func TestAllow_IgnoresUnknownRole(t *testing.T) {
	t.Parallel()

	policy := NewVisibilityPolicy().Allow(RoleUnknown, "nickname")
	require.Empty(t, policy.AllowList(RoleUnknown))
	require.Empty(t, policy.Redact(RoleUnknown, Row{"nickname": "x"}))
}
