package authz

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, mode Mode) *Service {
	t.Helper()
	root := filepath.Join("testdata")
	svc, err := NewService(Config{
		ModelPath:    filepath.Join(root, "model.conf"),
		PolicyPath:   filepath.Join(root, "policy.csv"),
		FlagProvider: staticFlagProvider{mode: mode},
	})
	require.NoError(t, err)
	return svc
}

func TestServiceAuthorizeViaRole(t *testing.T) {
	svc := newTestService(t, ModeEnforce)
	req := NewRequest(SubjectForUser(42), "hrm.employee", NormalizeAction("manage"))
	require.NoError(t, svc.Authorize(context.Background(), req))
}

func TestServiceAuthorizeDirectGrant(t *testing.T) {
	svc := newTestService(t, ModeEnforce)
	req := NewRequest(SubjectForUser(7), "hrm.leave", "approve")
	require.NoError(t, svc.Authorize(context.Background(), req))
}

func TestServiceAuthorizeDenied(t *testing.T) {
	svc := newTestService(t, ModeEnforce)
	req := NewRequest(SubjectForUser(99), "hrm.employee", "manage")
	require.Error(t, svc.Authorize(context.Background(), req))
}

func TestServiceAuthorizeShadowMode(t *testing.T) {
	svc := newTestService(t, ModeShadow)
	req := NewRequest(SubjectForUser(99), "hrm.employee", "manage")
	require.NoError(t, svc.Authorize(context.Background(), req))
}

func TestServiceMode(t *testing.T) {
	svc := newTestService(t, ModeDisabled)
	require.Equal(t, ModeDisabled, svc.Mode())
}

func TestSplitPermissionKey(t *testing.T) {
	resource, action := SplitPermissionKey("employee.manage")
	require.Equal(t, "employee", resource)
	require.Equal(t, "manage", action)

	resource, action = SplitPermissionKey("holiday")
	require.Equal(t, "holiday", resource)
	require.Equal(t, "*", action)
}
