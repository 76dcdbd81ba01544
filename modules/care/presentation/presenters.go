package presentation

import (
	"time"

	"github.com/hanamiya/console/modules/care/domain"
	"github.com/hanamiya/console/pkg/listkit"
)

func stamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

// --- Office ---

func OfficeColumns() []listkit.Column {
	return []listkit.Column{
		{Key: "id", Label: "ID"},
		{Key: "name", Label: "Name", Sortable: true},
		{Key: "postalCode", Label: "Postal code"},
		{Key: "address", Label: "Address"},
		{Key: "phone", Label: "Phone"},
		{Key: "status", Label: "Status", Sortable: true},
		{Key: "createdAt", Label: "Created", Sortable: true},
	}
}

func OfficePolicy() *listkit.VisibilityPolicy {
	return listkit.NewVisibilityPolicy().
		Allow(listkit.RoleSystemAdmin, "id", "name", "postalCode", "address", "phone", "status", "createdAt").
		Allow(listkit.RoleFacilityAdmin, "id", "name", "postalCode", "address", "phone", "status", "createdAt").
		Allow(listkit.RoleOperator, "id", "name", "status", "createdAt")
}

func PresentOffice(o domain.Office) listkit.Row {
	return listkit.Row{
		"id":         o.ID.String(),
		"name":       o.Name,
		"postalCode": o.PostalCode,
		"address":    o.Address,
		"phone":      o.Phone,
		"status":     string(o.Status),
		"createdAt":  stamp(o.CreatedAt),
	}
}

// --- Group ---

func GroupColumns() []listkit.Column {
	return []listkit.Column{
		{Key: "id", Label: "ID"},
		{Key: "officeId", Label: "Office"},
		{Key: "name", Label: "Name", Sortable: true},
		{Key: "description", Label: "Description"},
		{Key: "status", Label: "Status", Sortable: true},
		{Key: "createdAt", Label: "Created", Sortable: true},
	}
}

func GroupPolicy() *listkit.VisibilityPolicy {
	return listkit.NewVisibilityPolicy().
		Allow(listkit.RoleSystemAdmin, "id", "officeId", "name", "description", "status", "createdAt").
		Allow(listkit.RoleFacilityAdmin, "id", "officeId", "name", "description", "status", "createdAt").
		Allow(listkit.RoleOperator, "id", "name", "description", "status")
}

func PresentGroup(g domain.Group) listkit.Row {
	return listkit.Row{
		"id":          g.ID.String(),
		"officeId":    g.OfficeID.String(),
		"name":        g.Name,
		"description": g.Description,
		"status":      string(g.Status),
		"createdAt":   stamp(g.CreatedAt),
	}
}

// --- Team ---

func TeamColumns() []listkit.Column {
	return []listkit.Column{
		{Key: "id", Label: "ID"},
		{Key: "groupId", Label: "Group"},
		{Key: "name", Label: "Name", Sortable: true},
		{Key: "status", Label: "Status", Sortable: true},
		{Key: "createdAt", Label: "Created", Sortable: true},
	}
}

func TeamPolicy() *listkit.VisibilityPolicy {
	return listkit.NewVisibilityPolicy().
		Allow(listkit.RoleSystemAdmin, "id", "groupId", "name", "status", "createdAt").
		Allow(listkit.RoleFacilityAdmin, "id", "groupId", "name", "status", "createdAt").
		Allow(listkit.RoleOperator, "id", "name", "status")
}

func PresentTeam(t domain.Team) listkit.Row {
	return listkit.Row{
		"id":        t.ID.String(),
		"groupId":   t.GroupID.String(),
		"name":      t.Name,
		"status":    string(t.Status),
		"createdAt": stamp(t.CreatedAt),
	}
}

// --- Staff ---

func StaffColumns() []listkit.Column {
	return []listkit.Column{
		{Key: "id", Label: "ID"},
		{Key: "officeId", Label: "Office"},
		{Key: "name", Label: "Name", Sortable: true},
		{Key: "email", Label: "Email", Sortable: true},
		{Key: "phone", Label: "Phone"},
		{Key: "status", Label: "Status", Sortable: true},
		{Key: "createdAt", Label: "Created", Sortable: true},
	}
}

func StaffPolicy() *listkit.VisibilityPolicy {
	return listkit.NewVisibilityPolicy().
		Allow(listkit.RoleSystemAdmin, "id", "officeId", "name", "email", "phone", "status", "createdAt").
		Allow(listkit.RoleFacilityAdmin, "id", "officeId", "name", "email", "phone", "status", "createdAt").
		Allow(listkit.RoleOperator, "id", "name", "status")
}

func PresentStaff(s domain.Staff) listkit.Row {
	return listkit.Row{
		"id":        s.ID.String(),
		"officeId":  s.OfficeID.String(),
		"name":      s.Name,
		"email":     s.Email,
		"phone":     s.Phone,
		"status":    string(s.Status),
		"createdAt": stamp(s.CreatedAt),
	}
}

// --- User ---

func UserColumns() []listkit.Column {
	return []listkit.Column{
		{Key: "id", Label: "ID"},
		{Key: "officeId", Label: "Office"},
		{Key: "groupId", Label: "Group"},
		{Key: "teamId", Label: "Team"},
		{Key: "nickname", Label: "Nickname", Sortable: true},
		{Key: "postalCode", Label: "Postal code"},
		{Key: "address", Label: "Address"},
		{Key: "birthDate", Label: "Birth date"},
		{Key: "gender", Label: "Gender"},
		{Key: "rank", Label: "Rank", Sortable: true},
		{Key: "status", Label: "Status", Sortable: true},
		{Key: "createdAt", Label: "Created", Sortable: true},
	}
}

// UserPolicy withholds the personally identifying attributes from
// operators: they work from nickname and rank alone.
func UserPolicy() *listkit.VisibilityPolicy {
	return listkit.NewVisibilityPolicy().
		Allow(listkit.RoleSystemAdmin,
			"id", "officeId", "groupId", "teamId", "nickname", "postalCode",
			"address", "birthDate", "gender", "rank", "status", "createdAt").
		Allow(listkit.RoleFacilityAdmin,
			"id", "officeId", "groupId", "teamId", "nickname", "postalCode",
			"address", "birthDate", "gender", "rank", "status", "createdAt").
		Allow(listkit.RoleOperator, "id", "nickname", "rank", "status")
}

func PresentUser(u domain.User) listkit.Row {
	return listkit.Row{
		"id":         u.ID.String(),
		"officeId":   u.OfficeID.String(),
		"groupId":    u.GroupID.String(),
		"teamId":     u.TeamID.String(),
		"nickname":   u.Nickname,
		"postalCode": u.PostalCode,
		"address":    u.Address,
		"birthDate":  u.BirthDate,
		"gender":     u.Gender,
		"rank":       u.Rank,
		"status":     string(u.Status),
		"createdAt":  stamp(u.CreatedAt),
	}
}

// --- Admin ---

func AdminColumns() []listkit.Column {
	return []listkit.Column{
		{Key: "id", Label: "ID"},
		{Key: "name", Label: "Name", Sortable: true},
		{Key: "email", Label: "Email", Sortable: true},
		{Key: "role", Label: "Role"},
		{Key: "status", Label: "Status", Sortable: true},
		{Key: "createdAt", Label: "Created", Sortable: true},
	}
}

func AdminPolicy() *listkit.VisibilityPolicy {
	return listkit.NewVisibilityPolicy().
		Allow(listkit.RoleSystemAdmin, "id", "name", "email", "role", "status", "createdAt")
}

func PresentAdmin(a domain.Admin) listkit.Row {
	return listkit.Row{
		"id":        a.ID.String(),
		"name":      a.Name,
		"email":     a.Email,
		"role":      a.Role,
		"status":    string(a.Status),
		"createdAt": stamp(a.CreatedAt),
	}
}
