package ports

import (
	"context"

	"github.com/authgate/resource-api/internal/core/domain"
)

// SignUpInput carries a new account request. Role is optional.
type SignUpInput struct {
	Username string
	Password string
	Role     string
}

// SignInResult is returned by a successful sign-in.
type SignInResult struct {
	User  *domain.User
	Token string
}

type AuthService interface {
	SignUp(ctx context.Context, input SignUpInput) (*domain.User, error)
	SignIn(ctx context.Context, username, password string) (*SignInResult, error)
}

// TokenAuthenticator recovers the AuthContext carried by a bearer token.
type TokenAuthenticator interface {
	Authenticate(raw string) (domain.AuthContext, error)
}
