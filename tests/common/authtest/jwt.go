//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"parkspot/internal/domain/user"
	"parkspot/internal/pkg/config"
	"parkspot/internal/pkg/jwt"

	"github.com/stretchr/testify/require"
)

// JWTHelper mints tokens the way the external auth service does.
type JWTHelper struct {
	service *jwt.Service
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{service: jwt.NewService(cfg.Secret, cfg.Issuer)}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID string, role user.Role) string {
	t.Helper()
	token, err := h.service.GenerateToken(userID, role, time.Hour)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID string, role user.Role) string {
	t.Helper()
	token, err := h.service.GenerateToken(userID, role, -time.Minute)
	require.NoError(t, err)
	return token
}
