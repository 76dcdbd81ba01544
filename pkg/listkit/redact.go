package listkit

import (
	"sort"
	"strings"
)

// Role is the closed set of console account roles. Adding a role means
// extending ParseRole and every visibility policy; an unrecognized
// string parses to RoleUnknown, which maps to an empty allow-list.
type Role int

const (
	RoleUnknown Role = iota
	RoleSystemAdmin
	RoleFacilityAdmin
	RoleOperator
	RoleMerchantAdmin
	RoleShopStaff
)

var roleNames = map[Role]string{
	RoleSystemAdmin:   "system_admin",
	RoleFacilityAdmin: "facility_admin",
	RoleOperator:      "operator",
	RoleMerchantAdmin: "merchant_admin",
	RoleShopStaff:     "shop_staff",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// ParseRole maps a wire-level role string to a Role. Unknown strings
// yield RoleUnknown, never an error, so callers fail closed.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "system_admin":
		return RoleSystemAdmin
	case "facility_admin":
		return RoleFacilityAdmin
	case "operator":
		return RoleOperator
	case "merchant_admin":
		return RoleMerchantAdmin
	case "shop_staff":
		return RoleShopStaff
	default:
		return RoleUnknown
	}
}

// Roles lists every recognized role.
func Roles() []Role {
	return []Role{RoleSystemAdmin, RoleFacilityAdmin, RoleOperator, RoleMerchantAdmin, RoleShopStaff}
}

// Row is the attribute map a presenter produces for one entity row.
type Row map[string]any

// Column describes one table column the presentation layer may render.
type Column struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Sortable bool   `json:"sortable,omitempty"`
}

// VisibilityPolicy is a declarative per-role attribute allow-list. It
// is built once at startup and read-only afterwards; a role's visible
// set never changes mid-session. Roles absent from the policy see
// nothing.
type VisibilityPolicy struct {
	allow map[Role]map[string]struct{}
}

func NewVisibilityPolicy() *VisibilityPolicy {
	return &VisibilityPolicy{allow: make(map[Role]map[string]struct{})}
}

// Allow extends the allow-list for role. Intended for construction
// only; policies must not be mutated once shared.
func (p *VisibilityPolicy) Allow(role Role, keys ...string) *VisibilityPolicy {
	if role == RoleUnknown {
		return p
	}
	set, ok := p.allow[role]
	if !ok {
		set = make(map[string]struct{}, len(keys))
		p.allow[role] = set
	}
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return p
}

// AllowList returns the sorted allow-list for role.
func (p *VisibilityPolicy) AllowList(role Role) []string {
	set, ok := p.allow[role]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Visible reports whether role may see the attribute key.
func (p *VisibilityPolicy) Visible(role Role, key string) bool {
	set, ok := p.allow[role]
	if !ok {
		return false
	}
	_, ok = set[key]
	return ok
}

// Redact returns a copy of row containing only attributes role may
// see. A role without an allow-list gets an empty row. This is one of
// two enforcement points; VisibleColumns is the other, and both must
// hold independently.
func (p *VisibilityPolicy) Redact(role Role, row Row) Row {
	out := make(Row)
	set, ok := p.allow[role]
	if !ok {
		return out
	}
	for k, v := range row {
		if _, allowed := set[k]; allowed {
			out[k] = v
		}
	}
	return out
}

// RedactAll redacts a slice of rows.
func (p *VisibilityPolicy) RedactAll(role Role, rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, p.Redact(role, row))
	}
	return out
}

// VisibleColumns filters column descriptors so redacted attributes
// never even surface as headers.
func (p *VisibilityPolicy) VisibleColumns(role Role, cols []Column) []Column {
	out := make([]Column, 0, len(cols))
	set, ok := p.allow[role]
	if !ok {
		return out
	}
	for _, col := range cols {
		if _, allowed := set[col.Key]; allowed {
			out = append(out, col)
		}
	}
	return out
}
