package composables

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/hanamiya/console/pkg/constants"
	"github.com/hanamiya/console/pkg/listkit"
)

// WithRole returns a new context carrying the caller's console role.
// Role is always threaded explicitly through context; redaction and
// authorization never read ambient globals.
func WithRole(ctx context.Context, role listkit.Role) context.Context {
	return context.WithValue(ctx, constants.RoleKey, role)
}

// UseRole returns the caller's role. A context without a role yields
// RoleUnknown, which every policy treats as deny-all.
func UseRole(ctx context.Context) listkit.Role {
	role, ok := ctx.Value(constants.RoleKey).(listkit.Role)
	if !ok {
		return listkit.RoleUnknown
	}
	return role
}

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// UseLogger returns the request logger, or a discard-level default
// entry when none was installed.
func UseLogger(ctx context.Context) *logrus.Entry {
	logger, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry)
	if !ok {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logger
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.RequestIDKey, id)
}

func UseRequestID(ctx context.Context) string {
	id, _ := ctx.Value(constants.RequestIDKey).(string)
	return id
}
