package authz_test

import (
	"context"
	"testing"

	"github.com/leapstack-labs/appshell/internal/authz"
	"github.com/leapstack-labs/appshell/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_GrantsEveryRole(t *testing.T) {
	svc := authz.NewService(testutil.NewTestLogger(t))

	for _, name := range []string{"Home", "Charts", "Layout", "anything"} {
		assert.True(t, svc.HasRole(t.Context(), name), name)
	}
}

func TestService_LoadRoles(t *testing.T) {
	svc := authz.NewService(nil)
	require.False(t, svc.Loaded())

	require.NoError(t, svc.LoadRoles(t.Context()))
	assert.True(t, svc.Loaded())

	// Idempotent.
	require.NoError(t, svc.LoadRoles(t.Context()))
}

func TestService_LoadRolesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	svc := authz.NewService(nil)
	assert.ErrorIs(t, svc.LoadRoles(ctx), context.Canceled)
	assert.False(t, svc.Loaded())
}

func TestService_HasRoleLoadsLazily(t *testing.T) {
	svc := authz.NewService(nil)
	assert.True(t, svc.HasRole(t.Context(), "Charts"))
	assert.True(t, svc.Loaded())
}

func TestFunc(t *testing.T) {
	var checker authz.RoleChecker = authz.Func(func(_ context.Context, name string) bool {
		return name == "Charts"
	})

	assert.True(t, checker.HasRole(t.Context(), "Charts"))
	assert.False(t, checker.HasRole(t.Context(), "Layout"))
}
