package ports

import (
	"context"

	"github.com/devconnector/connector-api/internal/core/domain"
)

// SocialPatch carries social links to set. A nil field is left untouched.
type SocialPatch struct {
	YouTube   *string
	Twitter   *string
	Facebook  *string
	LinkedIn  *string
	Instagram *string
}

// ProfilePatch is the write set of a profile upsert. Status and Skills are
// always written; every pointer field is written only when non-nil, so an
// omitted field never clears a stored value.
type ProfilePatch struct {
	Status         string
	Skills         []string
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	GithubUsername *string
	Social         SocialPatch
}

// ProfileRepository defines persistence for the profile aggregate.
// Every mutation is a single-document atomic update.
type ProfileRepository interface {
	// FindByUser returns the profile owned by userID joined with the owner's
	// name and avatar, or domain.ErrProfileNotFound.
	FindByUser(ctx context.Context, userID string) (*domain.Profile, error)
	List(ctx context.Context) ([]*domain.Profile, error)
	// Upsert applies patch to the profile of userID, creating it when absent.
	// created reports whether a new document was inserted.
	Upsert(ctx context.Context, userID string, patch ProfilePatch) (created bool, err error)
	DeleteByUser(ctx context.Context, userID string) error

	// PushExperience prepends exp and assigns its ID.
	PushExperience(ctx context.Context, userID string, exp *domain.Experience) error
	// PullExperience removes the entry with expID. Unknown ids are a no-op.
	PullExperience(ctx context.Context, userID, expID string) error
	PushEducation(ctx context.Context, userID string, edu *domain.Education) error
	PullEducation(ctx context.Context, userID, eduID string) error
}
