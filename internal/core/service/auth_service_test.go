package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/devconnector/connector-api/internal/core/domain"
)

type stubUserRepo struct {
	users   map[string]*domain.User // keyed by id
	nextID  int
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[copy.ID] = copy
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func newTestAuthService(repo *stubUserRepo) (*AuthService, *TokenManager) {
	tokens := NewTokenManager("secret", time.Hour)
	return NewAuthService(repo, tokens, zerolog.Nop()), tokens
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo)

	token, err := svc.Register(context.Background(), "Alice", " Alice@Example.com ", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	userID, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	user := repo.users[userID]
	if user == nil {
		t.Fatalf("token bound to unknown user %q", userID)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
	if !strings.HasPrefix(user.Avatar, "https://www.gravatar.com/avatar/") {
		t.Errorf("unexpected avatar: %q", user.Avatar)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	_, err := svc.Register(context.Background(), "", "", "123")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, param := range []string{"name", "email", "password"} {
		if !verr.Has(param) {
			t.Errorf("expected violation for %s, got %+v", param, verr.Violations)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	_, _ = svc.Register(context.Background(), "Bob", "bob@example.com", "secret1")
	if _, err := svc.Register(context.Background(), "Bob", "bob@example.com", "secret2"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), "Carol", "carol@example.com", "s3cret!"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := svc.Login(context.Background(), "carol@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	userID, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	stored, _ := repo.FindByEmail(context.Background(), "carol@example.com")
	if userID != stored.ID {
		t.Fatalf("token bound to %q, want %q", userID, stored.ID)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	_, _ = svc.Register(context.Background(), "Dave", "dave@example.com", "goodpass")

	_, wrongPass := svc.Login(context.Background(), "dave@example.com", "badpass")
	_, unknown := svc.Login(context.Background(), "ghost@example.com", "goodpass")

	if wrongPass != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPass)
	}
	if unknown != wrongPass {
		t.Fatalf("unknown user error %v differs from wrong password error %v", unknown, wrongPass)
	}
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("connection refused")
	svc, _ := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), "dave@example.com", "pass")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo)

	token, _ := svc.Register(context.Background(), "Erin", "erin@example.com", "password")
	id, _ := tokens.Verify(token)

	user, err := svc.CurrentUser(context.Background(), id)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if user.Name != "Erin" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.CurrentUser(context.Background(), "missing"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
