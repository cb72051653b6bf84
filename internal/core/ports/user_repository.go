package ports

import (
	"context"

	"github.com/devconnector/connector-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID returns domain.ErrUserNotFound for unknown or malformed ids.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// PostRepository is the slice of the posts store this service needs:
// removing everything a user wrote when the account goes away.
type PostRepository interface {
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
