// Package authztest provides authorization fixtures for service tests.
package authztest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/hanamiya/console/pkg/authz"
)

const modelConf = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (r.obj == p.obj || p.obj == "*") && (r.act == p.act || p.act == "*")
`

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newService(t *testing.T, mode, policyCSV string) *authz.Service {
	t.Helper()
	dir := t.TempDir()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.ErrorLevel)

	svc, err := authz.NewService(authz.Config{
		ModelPath:  write(t, dir, "model.conf", modelConf),
		PolicyPath: write(t, dir, "policy.csv", policyCSV),
		Mode:       mode,
		Logger:     logger,
	})
	require.NoError(t, err)
	return svc
}

// NewDisabled returns a service that allows everything.
func NewDisabled(t *testing.T) *authz.Service {
	return newService(t, authz.ModeDisabled, "p, role:system_admin, *, *\n")
}

// NewEnforce returns an enforcing service loaded with policyCSV.
func NewEnforce(t *testing.T, policyCSV string) *authz.Service {
	return newService(t, authz.ModeEnforce, policyCSV)
}
