package authz

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/sirupsen/logrus"

	"github.com/hanamiya/console/pkg/composables"
	"github.com/hanamiya/console/pkg/listkit"
)

// Enforcement modes. Shadow logs denials without blocking; enforce
// returns ErrForbidden on a deny.
const (
	ModeDisabled = "disabled"
	ModeShadow   = "shadow"
	ModeEnforce  = "enforce"
)

// Canonical actions used in policy rules.
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

type Config struct {
	ModelPath  string
	PolicyPath string
	Mode       string
	Logger     *logrus.Logger
}

func (c Config) validate() error {
	if strings.TrimSpace(c.ModelPath) == "" {
		return fmt.Errorf("authz: model path is required")
	}
	if strings.TrimSpace(c.PolicyPath) == "" {
		return fmt.Errorf("authz: policy path is required")
	}
	switch c.Mode {
	case ModeDisabled, ModeShadow, ModeEnforce:
		return nil
	default:
		return fmt.Errorf("authz: invalid mode %q", c.Mode)
	}
}

// ForbiddenError carries the denied object/action pair.
type ForbiddenError struct {
	Subject string
	Object  string
	Action  string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s may not %s %s", e.Subject, e.Action, e.Object)
}

// Service enforces role-based action authorization via casbin.
type Service struct {
	cfg      Config
	enforcer *casbin.Enforcer
	logger   *logrus.Entry
	mu       sync.RWMutex
}

func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var logger *logrus.Entry
	if cfg.Logger != nil {
		logger = cfg.Logger.WithField("component", "authz")
	} else {
		logger = logrus.WithField("component", "authz")
	}

	enf, err := casbin.NewEnforcer(cfg.ModelPath, fileadapter.NewAdapter(cfg.PolicyPath))
	if err != nil {
		return nil, fmt.Errorf("authz: failed to initialize enforcer: %w", err)
	}
	if err := enf.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz: failed to load policies: %w", err)
	}

	return &Service{cfg: cfg, enforcer: enf, logger: logger}, nil
}

// ObjectName returns the canonical module.resource string, lowercased.
func ObjectName(module, resource string) string {
	module = strings.ToLower(strings.TrimSpace(module))
	resource = strings.ToLower(strings.TrimSpace(resource))
	if module == "" {
		module = "global"
	}
	if resource == "" {
		resource = "resource"
	}
	return module + "." + resource
}

// SubjectForRole returns the canonical identifier for a role subject.
func SubjectForRole(role listkit.Role) string {
	return "role:" + role.String()
}

// Authorize checks whether the role in ctx may perform action on
// object. The caller's role comes from the request context, never from
// ambient state.
func (s *Service) Authorize(ctx context.Context, object, action string) error {
	role := composables.UseRole(ctx)
	subject := SubjectForRole(role)

	switch s.cfg.Mode {
	case ModeDisabled:
		return nil
	case ModeShadow:
		allowed, err := s.check(subject, object, action)
		if err != nil {
			return err
		}
		if !allowed {
			s.logger.WithFields(logrus.Fields{
				"subject": subject,
				"object":  object,
				"action":  action,
				"mode":    ModeShadow,
			}).Warn("authz shadow deny")
		}
		return nil
	default:
		allowed, err := s.check(subject, object, action)
		if err != nil {
			return err
		}
		if !allowed {
			s.logger.WithFields(logrus.Fields{
				"subject": subject,
				"object":  object,
				"action":  action,
				"mode":    ModeEnforce,
			}).Warn("authz denied request")
			return &ForbiddenError{Subject: subject, Object: object, Action: action}
		}
		return nil
	}
}

func (s *Service) check(subject, object, action string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return false, fmt.Errorf("authz: enforce failed: %w", err)
	}
	return res, nil
}
