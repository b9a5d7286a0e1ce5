package ports

import (
	"context"

	"github.com/authgate/resource-api/internal/core/domain"
)

// AuthRepository defines the narrow user-store interface the auth core relies on.
// FindByUsername returns domain.ErrUserNotFound when absent; Create returns
// domain.ErrUserExists on a duplicate username. Any other failure wraps
// domain.ErrStoreUnavailable.
type AuthRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
