package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/devconnector/connector-api/internal/api/metrics"
	"github.com/devconnector/connector-api/internal/core/domain"
	"github.com/devconnector/connector-api/internal/core/ports"
)

type ProfileService struct {
	profiles ports.ProfileRepository
	users    ports.UserRepository
	posts    ports.PostRepository
	logger   zerolog.Logger
}

func NewProfileService(
	profiles ports.ProfileRepository,
	users ports.UserRepository,
	posts ports.PostRepository,
	logger zerolog.Logger,
) *ProfileService {
	return &ProfileService{profiles: profiles, users: users, posts: posts, logger: logger}
}

func (s *ProfileService) GetMine(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.profiles.FindByUser(ctx, userID)
}

func (s *ProfileService) List(ctx context.Context) ([]*domain.Profile, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// GetByUser is the public lookup; malformed ids surface as ErrProfileNotFound.
func (s *ProfileService) GetByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.profiles.FindByUser(ctx, userID)
}

// Upsert creates the caller's profile or merges the provided fields into it.
// Repeating the same input is idempotent.
func (s *ProfileService) Upsert(ctx context.Context, userID string, in ports.ProfileInput) (*domain.Profile, error) {
	verr := &domain.ValidationError{}
	if in.Status == "" {
		verr.Violations = append(verr.Violations, domain.FieldViolation{Msg: "Status is required", Param: "status", Location: "body"})
	}
	if in.Skills == "" {
		verr.Violations = append(verr.Violations, domain.FieldViolation{Msg: "Skills is required", Param: "skills", Location: "body"})
	}
	if len(verr.Violations) > 0 {
		return nil, verr
	}

	patch := ports.ProfilePatch{
		Status:         in.Status,
		Skills:         domain.NormalizeSkills(in.Skills),
		Company:        in.Company,
		Website:        in.Website,
		Location:       in.Location,
		Bio:            in.Bio,
		GithubUsername: in.GithubUsername,
		Social: ports.SocialPatch{
			YouTube:   in.YouTube,
			Twitter:   in.Twitter,
			Facebook:  in.Facebook,
			LinkedIn:  in.LinkedIn,
			Instagram: in.Instagram,
		},
	}

	created, err := s.profiles.Upsert(ctx, userID, patch)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to upsert profile")
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	op := "updated"
	if created {
		op = "created"
	}
	metrics.ProfileUpsertsTotal.WithLabelValues(op).Inc()
	s.logger.Info().Str("user_id", userID).Str("op", op).Msg("profile saved")

	return s.profiles.FindByUser(ctx, userID)
}

// Delete removes the account and everything it owns. Posts and profile go
// first; the user record is removed last. Tokens already issued stay valid
// until they expire.
func (s *ProfileService) Delete(ctx context.Context, userID string) error {
	n, err := s.posts.DeleteByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete account: posts: %w", err)
	}
	if err := s.profiles.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete account: profile: %w", err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete account: user: %w", err)
	}

	metrics.AccountsDeletedTotal.Inc()
	s.logger.Info().Str("user_id", userID).Int64("posts", n).Msg("account deleted")
	return nil
}

func (s *ProfileService) AddExperience(ctx context.Context, userID string, in ports.ExperienceInput) (*domain.Profile, error) {
	verr := &domain.ValidationError{}
	if in.Title == "" {
		verr.Violations = append(verr.Violations, domain.FieldViolation{Msg: "Title is required", Param: "title", Location: "body"})
	}
	if in.Company == "" {
		verr.Violations = append(verr.Violations, domain.FieldViolation{Msg: "Company is required", Param: "company", Location: "body"})
	}
	if in.From.IsZero() {
		verr.Violations = append(verr.Violations, domain.FieldViolation{Msg: "From Date is required", Param: "from", Location: "body"})
	}
	if len(verr.Violations) > 0 {
		return nil, verr
	}

	exp := &domain.Experience{
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        in.From,
		To:          in.To,
		Current:     in.Current,
		Description: in.Description,
	}
	if err := s.profiles.PushExperience(ctx, userID, exp); err != nil {
		return nil, fmt.Errorf("add experience: %w", err)
	}

	metrics.ProfileEntriesTotal.WithLabelValues("experience", "add").Inc()
	return s.profiles.FindByUser(ctx, userID)
}

// RemoveExperience drops the entry with expID. An id that matches nothing
// leaves the profile unchanged and is not an error.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID, expID string) (*domain.Profile, error) {
	if err := s.profiles.PullExperience(ctx, userID, expID); err != nil {
		return nil, fmt.Errorf("remove experience: %w", err)
	}

	metrics.ProfileEntriesTotal.WithLabelValues("experience", "remove").Inc()
	return s.profiles.FindByUser(ctx, userID)
}

func (s *ProfileService) AddEducation(ctx context.Context, userID string, in ports.EducationInput) (*domain.Profile, error) {
	verr := &domain.ValidationError{}
	if in.School == "" {
		verr.Violations = append(verr.Violations, domain.FieldViolation{Msg: "School is required", Param: "school", Location: "body"})
	}
	if in.Degree == "" {
		verr.Violations = append(verr.Violations, domain.FieldViolation{Msg: "Degree is required", Param: "degree", Location: "body"})
	}
	if in.FieldOfStudy == "" {
		verr.Violations = append(verr.Violations, domain.FieldViolation{Msg: "Field of study is required", Param: "fieldofstudy", Location: "body"})
	}
	if in.From.IsZero() {
		verr.Violations = append(verr.Violations, domain.FieldViolation{Msg: "From Date is required", Param: "from", Location: "body"})
	}
	if len(verr.Violations) > 0 {
		return nil, verr
	}

	edu := &domain.Education{
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         in.From,
		To:           in.To,
		Current:      in.Current,
		Description:  in.Description,
	}
	if err := s.profiles.PushEducation(ctx, userID, edu); err != nil {
		return nil, fmt.Errorf("add education: %w", err)
	}

	metrics.ProfileEntriesTotal.WithLabelValues("education", "add").Inc()
	return s.profiles.FindByUser(ctx, userID)
}

func (s *ProfileService) RemoveEducation(ctx context.Context, userID, eduID string) (*domain.Profile, error) {
	if err := s.profiles.PullEducation(ctx, userID, eduID); err != nil {
		return nil, fmt.Errorf("remove education: %w", err)
	}

	metrics.ProfileEntriesTotal.WithLabelValues("education", "remove").Inc()
	return s.profiles.FindByUser(ctx, userID)
}
