package ports

import (
	"context"
	"time"

	"github.com/devconnector/connector-api/internal/core/domain"
)

// ProfileInput is the DTO passed from the transport layer on create/update.
// Skills is the raw comma separated list; pointer fields are optional.
type ProfileInput struct {
	Status         string
	Skills         string
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	GithubUsername *string
	YouTube        *string
	Twitter        *string
	Facebook       *string
	LinkedIn       *string
	Instagram      *string
}

// ExperienceInput carries a new experience entry.
type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        time.Time
	To          *time.Time
	Current     bool
	Description string
}

// EducationInput carries a new education entry.
type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         time.Time
	To           *time.Time
	Current      bool
	Description  string
}

// ProfileService defines use-case operations on the profile aggregate.
type ProfileService interface {
	GetMine(ctx context.Context, userID string) (*domain.Profile, error)
	List(ctx context.Context) ([]*domain.Profile, error)
	GetByUser(ctx context.Context, userID string) (*domain.Profile, error)
	Upsert(ctx context.Context, userID string, in ProfileInput) (*domain.Profile, error)
	// Delete removes the user's posts, profile and account, in that order.
	Delete(ctx context.Context, userID string) error

	AddExperience(ctx context.Context, userID string, in ExperienceInput) (*domain.Profile, error)
	RemoveExperience(ctx context.Context, userID, expID string) (*domain.Profile, error)
	AddEducation(ctx context.Context, userID string, in EducationInput) (*domain.Profile, error)
	RemoveEducation(ctx context.Context, userID, eduID string) (*domain.Profile, error)
}
