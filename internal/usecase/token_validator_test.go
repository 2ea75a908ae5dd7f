//go:build unit

package usecase_test

import (
	"testing"
	"time"

	"parkspot/internal/domain/user"
	"parkspot/internal/pkg/jwt"
	"parkspot/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenValidator_Authenticate(t *testing.T) {
	svc := jwt.NewService("secret", "auth.parkspot.test")
	validator := usecase.NewTokenValidator(svc)

	mint := func(t *testing.T, userID string, role user.Role, ttl time.Duration) string {
		t.Helper()
		token, err := svc.GenerateToken(userID, role, ttl)
		require.NoError(t, err)
		return token
	}

	t.Run("operator token", func(t *testing.T) {
		actor, err := validator.Authenticate(mint(t, "op-1", user.RoleOperator, time.Hour))
		require.NoError(t, err)
		assert.Equal(t, user.Actor{UserID: "op-1", Role: user.RoleOperator}, actor)
	})

	t.Run("missing role claim is a viewer", func(t *testing.T) {
		actor, err := validator.Authenticate(mint(t, "u1", "", time.Hour))
		require.NoError(t, err)
		assert.Equal(t, user.RoleViewer, actor.Role)
	})

	cases := []struct {
		name  string
		token func(t *testing.T) string
		errIs error
	}{
		{name: "expired", token: func(t *testing.T) string { return mint(t, "u1", user.RoleViewer, -time.Minute) }},
		{name: "garbage", token: func(*testing.T) string { return "not.a.jwt" }},
		{name: "unknown role", token: func(t *testing.T) string { return mint(t, "u1", user.Role("root"), time.Hour) }, errIs: user.ErrInvalidRole},
		{name: "no user id", token: func(t *testing.T) string { return mint(t, "", user.RoleViewer, time.Hour) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actor, err := validator.Authenticate(tc.token(t))
			require.Error(t, err)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
			}
			assert.Zero(t, actor)
		})
	}
}
