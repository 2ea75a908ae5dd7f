//go:build unit

package user_test

import (
	"strings"
	"testing"

	"parkspot/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRole(t *testing.T) {
	cases := []struct {
		in    string
		want  user.Role
		errIs error
	}{
		{in: "", want: user.RoleViewer},
		{in: "viewer", want: user.RoleViewer},
		{in: "operator", want: user.RoleOperator},
		{in: "admin", want: user.RoleAdmin},
		{in: "root", errIs: user.ErrInvalidRole},
	}
	for _, c := range cases {
		t.Run("role "+c.in, func(t *testing.T) {
			got, err := user.NewRole(c.in)
			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestNewEmail(t *testing.T) {
	t.Run("trims and lower-cases the domain only", func(t *testing.T) {
		e, err := user.NewEmail("  Ann.Lee@Example.COM ")
		require.NoError(t, err)
		assert.Equal(t, "Ann.Lee@example.com", e.Value())
		assert.Equal(t, "example.com", e.Domain())
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, bad := range []string{"", "   ", "a@", "@x.com", "ann", "a..b@x.com", strings.Repeat("a", 250) + "@x.com"} {
			_, err := user.NewEmail(bad)
			assert.ErrorIs(t, err, user.ErrInvalidEmail, "input %q", bad)
		}
	})

	t.Run("zero value is empty", func(t *testing.T) {
		assert.Empty(t, user.Email{}.Value())
	})
}

func TestRole_AtLeast(t *testing.T) {
	assert.True(t, user.RoleAdmin.AtLeast(user.RoleOperator))
	assert.True(t, user.RoleOperator.AtLeast(user.RoleOperator))
	assert.False(t, user.RoleViewer.AtLeast(user.RoleOperator))
	assert.False(t, user.Role("root").AtLeast(user.RoleViewer))
}
