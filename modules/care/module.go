package care

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hanamiya/console/modules/care/domain"
	"github.com/hanamiya/console/modules/care/infrastructure/persistence"
	"github.com/hanamiya/console/modules/care/presentation"
	"github.com/hanamiya/console/modules/care/services"
	"github.com/hanamiya/console/pkg/authz"
	"github.com/hanamiya/console/pkg/crudhttp"
	"github.com/hanamiya/console/pkg/eventbus"
	"github.com/hanamiya/console/pkg/listkit"
	"github.com/hanamiya/console/pkg/server"
)

// Options wires the care module into the application's shared
// infrastructure.
type Options struct {
	DBEnabled   bool
	Authz       *authz.Service
	Bus         eventbus.EventBus
	Logger      *logrus.Logger
	Redis       *redis.Client
	StatsTTL    time.Duration
	PageSize    int
	MaxPageSize int
}

// Module bundles the care-console services and their HTTP controllers.
type Module struct {
	Offices *services.OfficeService
	Groups  *services.GroupService
	Teams   *services.TeamService
	Staff   *services.StaffService
	Users   *services.UserService
	Admins  *services.AdminService
	Stats   *services.CareStatsService

	controllers []server.Controller
}

func NewModule(opts Options) *Module {
	var (
		officeRepo domain.OfficeRepository
		groupRepo  domain.GroupRepository
		teamRepo   domain.TeamRepository
		staffRepo  domain.StaffRepository
		userRepo   domain.UserRepository
	)
	if opts.DBEnabled {
		officeRepo = persistence.NewPgOfficeRepository()
		groupRepo = persistence.NewPgGroupRepository()
		teamRepo = persistence.NewPgTeamRepository()
		staffRepo = persistence.NewPgStaffRepository()
		userRepo = persistence.NewPgUserRepository()
	} else {
		officeRepo = persistence.NewMemoryOfficeRepository()
		groupRepo = persistence.NewMemoryGroupRepository()
		teamRepo = persistence.NewMemoryTeamRepository()
		staffRepo = persistence.NewMemoryStaffRepository()
		userRepo = persistence.NewMemoryUserRepository()
	}
	// Console accounts are few and seeded at startup; they stay
	// memory-backed in both modes.
	adminRepo := persistence.NewMemoryAdminRepository()

	m := &Module{
		Offices: services.NewOfficeService(officeRepo, userRepo, staffRepo, opts.Authz, opts.Bus, opts.Logger),
		Groups:  services.NewGroupService(groupRepo, teamRepo, userRepo, opts.Authz, opts.Bus, opts.Logger),
		Teams:   services.NewTeamService(teamRepo, userRepo, opts.Authz, opts.Bus, opts.Logger),
		Staff:   services.NewStaffService(staffRepo, opts.Authz, opts.Bus, opts.Logger),
		Users:   services.NewUserService(userRepo, opts.Authz, opts.Bus, opts.Logger),
		Admins:  services.NewAdminService(adminRepo, opts.Authz, opts.Bus, opts.Logger),
	}
	m.Stats = services.NewCareStatsService(
		officeRepo, groupRepo, teamRepo, staffRepo, userRepo, adminRepo,
		opts.Redis, opts.StatsTTL, opts.Logger,
	)

	log := opts.Logger

	// Every care mutation invalidates the dashboard aggregates, so a
	// write is visible on the next stats read even between cron
	// refreshes.
	opts.Bus.Subscribe(func(e domain.MutationEvent) {
		log.WithField("event", fmt.Sprintf("%T", e)).Debug("care mutation")
		m.Stats.Invalidate(context.Background())
	})

	m.controllers = []server.Controller{
		crudhttp.NewEntityController(
			"/care/offices",
			listkit.NewController("office", m.Offices,
				listkit.WithDeleteGuard[domain.Office](m.Offices.DeleteGuard()),
				listkit.WithLogger[domain.Office](log.WithField("controller", "office")),
			),
			presentation.OfficeColumns(),
			presentation.OfficePolicy(),
			presentation.PresentOffice,
			crudhttp.WithPageLimits[domain.Office](opts.PageSize, opts.MaxPageSize),
			crudhttp.WithStats[domain.Office](m.Stats),
		),
		crudhttp.NewEntityController(
			"/care/groups",
			listkit.NewController("group", m.Groups,
				listkit.WithDeleteGuard[domain.Group](m.Groups.DeleteGuard()),
				listkit.WithLogger[domain.Group](log.WithField("controller", "group")),
			),
			presentation.GroupColumns(),
			presentation.GroupPolicy(),
			presentation.PresentGroup,
			crudhttp.WithPageLimits[domain.Group](opts.PageSize, opts.MaxPageSize),
		),
		crudhttp.NewEntityController(
			"/care/teams",
			listkit.NewController("team", m.Teams,
				listkit.WithDeleteGuard[domain.Team](m.Teams.DeleteGuard()),
				listkit.WithLogger[domain.Team](log.WithField("controller", "team")),
			),
			presentation.TeamColumns(),
			presentation.TeamPolicy(),
			presentation.PresentTeam,
			crudhttp.WithPageLimits[domain.Team](opts.PageSize, opts.MaxPageSize),
		),
		crudhttp.NewEntityController(
			"/care/staff",
			listkit.NewController("staff", m.Staff,
				listkit.WithDeleteGuard[domain.Staff](m.Staff.DeleteGuard()),
				listkit.WithLogger[domain.Staff](log.WithField("controller", "staff")),
			),
			presentation.StaffColumns(),
			presentation.StaffPolicy(),
			presentation.PresentStaff,
			crudhttp.WithPageLimits[domain.Staff](opts.PageSize, opts.MaxPageSize),
		),
		crudhttp.NewEntityController(
			"/care/users",
			listkit.NewController("user", m.Users,
				listkit.WithDeleteGuard[domain.User](m.Users.DeleteGuard()),
				listkit.WithLogger[domain.User](log.WithField("controller", "user")),
				listkit.WithInitialParams[domain.User](listkit.SearchParams{
					listkit.KeySortBy:    "nickname",
					listkit.KeySortOrder: "asc",
				}),
			),
			presentation.UserColumns(),
			presentation.UserPolicy(),
			presentation.PresentUser,
			crudhttp.WithPageLimits[domain.User](opts.PageSize, opts.MaxPageSize),
		),
		crudhttp.NewEntityController(
			"/care/admins",
			listkit.NewController("admin", m.Admins,
				listkit.WithDeleteGuard[domain.Admin](m.Admins.DeleteGuard()),
				listkit.WithLogger[domain.Admin](log.WithField("controller", "admin")),
			),
			presentation.AdminColumns(),
			presentation.AdminPolicy(),
			presentation.PresentAdmin,
			crudhttp.WithPageLimits[domain.Admin](opts.PageSize, opts.MaxPageSize),
		),
	}
	return m
}

// Controllers returns the module's HTTP controllers in registration
// order.
func (m *Module) Controllers() []server.Controller {
	return m.controllers
}
