package ports

import (
	"context"

	"github.com/devconnector/connector-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

// TokenVerifier resolves an access token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}
