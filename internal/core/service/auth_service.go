package service

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/devconnector/connector-api/internal/api/metrics"
	"github.com/devconnector/connector-api/internal/core/domain"
	"github.com/devconnector/connector-api/internal/core/ports"
)

const minPasswordLen = 6

// dummyHash is compared against when the email is unknown so that a miss
// costs the same bcrypt round as a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	return h
})

// AuthService implements registration, login and principal lookup.
type AuthService struct {
	users  ports.UserRepository
	tokens *TokenManager
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens *TokenManager, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	email = normalizeEmail(email)

	verr := &domain.ValidationError{}
	if strings.TrimSpace(name) == "" {
		verr.Violations = append(verr.Violations, domain.FieldViolation{Msg: "Name is required", Param: "name", Location: "body"})
	}
	if email == "" {
		verr.Violations = append(verr.Violations, domain.FieldViolation{Msg: "Please include a valid email", Param: "email", Location: "body"})
	}
	if len(password) < minPasswordLen {
		verr.Violations = append(verr.Violations, domain.FieldViolation{Msg: "Please enter a password with 6 or more characters", Param: "password", Location: "body"})
	}
	if len(verr.Violations) > 0 {
		return "", verr
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("register: hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		Avatar:       gravatarURL(email),
		Date:         time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return "", fmt.Errorf("register: sign token: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return token, nil
}

// Login verifies the credentials and issues a token. Unknown email and wrong
// password both return domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return "", fmt.Errorf("login: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("login: sign token: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return token, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func gravatarURL(email string) string {
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", md5.Sum([]byte(email)))
}
