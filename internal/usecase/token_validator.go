package usecase

import (
	"parkspot/internal/domain/user"
	"parkspot/internal/pkg/errs"
	"parkspot/internal/pkg/jwt"
)

var errNoSubject = errs.New("token carries no user id")

// TokenValidator turns an access token issued by the auth service into the
// caller identity used by handlers and queries.
type TokenValidator interface {
	Authenticate(tokenString string) (user.Actor, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

// Authenticate prefers the user_id claim and falls back to the registered subject.
func (t *tokenValidatorImpl) Authenticate(tokenString string) (user.Actor, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return user.Actor{}, err
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return user.Actor{}, errNoSubject
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return user.Actor{}, errs.Wrapf(err, "role claim %q", claims.Role)
	}

	return user.Actor{UserID: userID, Role: role}, nil
}
