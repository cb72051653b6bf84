package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/devconnector/connector-api/internal/core/domain"
	"github.com/devconnector/connector-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubProfileRepo struct {
	byUser  map[string]*domain.Profile
	nextID  int
	inserts int
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{byUser: make(map[string]*domain.Profile)}
}

func (r *stubProfileRepo) id(prefix string) string {
	r.nextID++
	return fmt.Sprintf("%s-%d", prefix, r.nextID)
}

func cloneProfile(p *domain.Profile) *domain.Profile {
	clone := *p
	clone.Skills = append([]string(nil), p.Skills...)
	clone.Experience = append([]domain.Experience{}, p.Experience...)
	clone.Education = append([]domain.Education{}, p.Education...)
	return &clone
}

func (r *stubProfileRepo) FindByUser(_ context.Context, userID string) (*domain.Profile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return cloneProfile(p), nil
}

func (r *stubProfileRepo) List(_ context.Context) ([]*domain.Profile, error) {
	out := make([]*domain.Profile, 0, len(r.byUser))
	for _, p := range r.byUser {
		out = append(out, cloneProfile(p))
	}
	return out, nil
}

func set(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// Upsert mirrors the $set/$setOnInsert document the Mongo repository sends.
func (r *stubProfileRepo) Upsert(_ context.Context, userID string, patch ports.ProfilePatch) (bool, error) {
	p, ok := r.byUser[userID]
	if !ok {
		r.inserts++
		p = &domain.Profile{
			ID:         r.id("profile"),
			User:       domain.UserSummary{ID: userID},
			Experience: []domain.Experience{},
			Education:  []domain.Education{},
			Date:       time.Unix(1_700_000_000, 0).UTC(),
		}
		r.byUser[userID] = p
	}
	p.Status = patch.Status
	p.Skills = patch.Skills
	set(&p.Company, patch.Company)
	set(&p.Website, patch.Website)
	set(&p.Location, patch.Location)
	set(&p.Bio, patch.Bio)
	set(&p.GithubUsername, patch.GithubUsername)
	set(&p.Social.YouTube, patch.Social.YouTube)
	set(&p.Social.Twitter, patch.Social.Twitter)
	set(&p.Social.Facebook, patch.Social.Facebook)
	set(&p.Social.LinkedIn, patch.Social.LinkedIn)
	set(&p.Social.Instagram, patch.Social.Instagram)
	return !ok, nil
}

func (r *stubProfileRepo) DeleteByUser(_ context.Context, userID string) error {
	delete(r.byUser, userID)
	return nil
}

func (r *stubProfileRepo) PushExperience(_ context.Context, userID string, exp *domain.Experience) error {
	p, ok := r.byUser[userID]
	if !ok {
		return domain.ErrProfileNotFound
	}
	exp.ID = r.id("exp")
	p.Experience = append([]domain.Experience{*exp}, p.Experience...)
	return nil
}

func (r *stubProfileRepo) PullExperience(_ context.Context, userID, expID string) error {
	p, ok := r.byUser[userID]
	if !ok {
		return domain.ErrProfileNotFound
	}
	kept := p.Experience[:0:0]
	for _, e := range p.Experience {
		if e.ID != expID {
			kept = append(kept, e)
		}
	}
	p.Experience = kept
	return nil
}

func (r *stubProfileRepo) PushEducation(_ context.Context, userID string, edu *domain.Education) error {
	p, ok := r.byUser[userID]
	if !ok {
		return domain.ErrProfileNotFound
	}
	edu.ID = r.id("edu")
	p.Education = append([]domain.Education{*edu}, p.Education...)
	return nil
}

func (r *stubProfileRepo) PullEducation(_ context.Context, userID, eduID string) error {
	p, ok := r.byUser[userID]
	if !ok {
		return domain.ErrProfileNotFound
	}
	kept := p.Education[:0:0]
	for _, e := range p.Education {
		if e.ID != eduID {
			kept = append(kept, e)
		}
	}
	p.Education = kept
	return nil
}

type stubPostRepo struct {
	byUser map[string]int
	calls  []string
}

func (r *stubPostRepo) DeleteByUser(_ context.Context, userID string) (int64, error) {
	r.calls = append(r.calls, userID)
	n := r.byUser[userID]
	delete(r.byUser, userID)
	return int64(n), nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type profileFixture struct {
	svc      *ProfileService
	profiles *stubProfileRepo
	users    *stubUserRepo
	posts    *stubPostRepo
}

func newProfileFixture() profileFixture {
	f := profileFixture{
		profiles: newStubProfileRepo(),
		users:    newStubUserRepo(),
		posts:    &stubPostRepo{byUser: map[string]int{}},
	}
	f.svc = NewProfileService(f.profiles, f.users, f.posts, zerolog.Nop())
	return f
}

func strPtr(s string) *string { return &s }

func baseInput() ports.ProfileInput {
	return ports.ProfileInput{
		Status:  "Developer",
		Skills:  "node, react ,  mongo",
		Company: strPtr("Acme"),
		Twitter: strPtr("https://twitter.com/acme"),
	}
}

func experienceInput(title string) ports.ExperienceInput {
	return ports.ExperienceInput{
		Title:   title,
		Company: "Acme",
		From:    time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// ---------------------------------------------------------------------------
// Upsert
// ---------------------------------------------------------------------------

func TestProfileService_Upsert_CreatesWithNormalizedSkills(t *testing.T) {
	f := newProfileFixture()

	p, err := f.svc.Upsert(context.Background(), "u1", baseInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"node", "react", "mongo"}
	if !reflect.DeepEqual(p.Skills, want) {
		t.Errorf("skills = %q, want %q", p.Skills, want)
	}
	if p.Company != "Acme" || p.Social.Twitter != "https://twitter.com/acme" {
		t.Errorf("optional fields not stored: %+v", p)
	}
	if p.User.ID != "u1" {
		t.Errorf("profile owned by %q, want u1", p.User.ID)
	}
}

func TestProfileService_Upsert_Idempotent(t *testing.T) {
	f := newProfileFixture()

	first, err := f.svc.Upsert(context.Background(), "u1", baseInput())
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := f.svc.Upsert(context.Background(), "u1", baseInput())
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("second upsert changed profile:\n first=%+v\nsecond=%+v", first, second)
	}
	if f.profiles.inserts != 1 || len(f.profiles.byUser) != 1 {
		t.Errorf("expected a single profile, got %d inserts", f.profiles.inserts)
	}
}

func TestProfileService_Upsert_LeavesAbsentFieldsUntouched(t *testing.T) {
	f := newProfileFixture()
	_, _ = f.svc.Upsert(context.Background(), "u1", baseInput())

	p, err := f.svc.Upsert(context.Background(), "u1", ports.ProfileInput{
		Status:   "Senior Developer",
		Skills:   "go",
		Location: strPtr("Berlin"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if p.Status != "Senior Developer" || p.Location != "Berlin" {
		t.Errorf("provided fields not applied: %+v", p)
	}
	if p.Company != "Acme" {
		t.Errorf("company cleared by omission: %q", p.Company)
	}
	if p.Social.Twitter != "https://twitter.com/acme" {
		t.Errorf("social link cleared by omission: %q", p.Social.Twitter)
	}
}

func TestProfileService_Upsert_ExplicitEmptyClears(t *testing.T) {
	f := newProfileFixture()
	_, _ = f.svc.Upsert(context.Background(), "u1", baseInput())

	in := baseInput()
	in.Company = strPtr("")
	p, _ := f.svc.Upsert(context.Background(), "u1", in)

	if p.Company != "" {
		t.Errorf("expected explicit empty company to clear it, got %q", p.Company)
	}
}

func TestProfileService_Upsert_ValidationAggregates(t *testing.T) {
	f := newProfileFixture()

	_, err := f.svc.Upsert(context.Background(), "u1", ports.ProfileInput{})

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !verr.Has("status") || !verr.Has("skills") {
		t.Errorf("expected status and skills violations, got %+v", verr.Violations)
	}
	if len(f.profiles.byUser) != 0 {
		t.Error("validation failure must not write")
	}
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

func TestProfileService_GetMine_NotFound(t *testing.T) {
	f := newProfileFixture()

	if _, err := f.svc.GetMine(context.Background(), "nobody"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestProfileService_List(t *testing.T) {
	f := newProfileFixture()
	_, _ = f.svc.Upsert(context.Background(), "u1", baseInput())
	_, _ = f.svc.Upsert(context.Background(), "u2", baseInput())

	all, err := f.svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(all))
	}
}

// ---------------------------------------------------------------------------
// Experience / education
// ---------------------------------------------------------------------------

func TestProfileService_AddExperience_Prepends(t *testing.T) {
	f := newProfileFixture()
	_, _ = f.svc.Upsert(context.Background(), "u1", baseInput())

	_, _ = f.svc.AddExperience(context.Background(), "u1", experienceInput("Junior"))
	p, err := f.svc.AddExperience(context.Background(), "u1", experienceInput("Senior"))
	if err != nil {
		t.Fatalf("AddExperience: %v", err)
	}

	if len(p.Experience) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(p.Experience))
	}
	if p.Experience[0].Title != "Senior" || p.Experience[1].Title != "Junior" {
		t.Errorf("expected newest first, got %q, %q", p.Experience[0].Title, p.Experience[1].Title)
	}
	if p.Experience[0].ID == "" {
		t.Error("new entry must get an id")
	}
}

func TestProfileService_AddThenRemoveExperience_RoundTrip(t *testing.T) {
	f := newProfileFixture()
	_, _ = f.svc.Upsert(context.Background(), "u1", baseInput())
	before, _ := f.svc.AddExperience(context.Background(), "u1", experienceInput("Existing"))

	added, err := f.svc.AddExperience(context.Background(), "u1", experienceInput("Temp"))
	if err != nil {
		t.Fatalf("AddExperience: %v", err)
	}

	after, err := f.svc.RemoveExperience(context.Background(), "u1", added.Experience[0].ID)
	if err != nil {
		t.Fatalf("RemoveExperience: %v", err)
	}

	if !reflect.DeepEqual(before.Experience, after.Experience) {
		t.Errorf("experience changed by add+remove:\nbefore=%+v\n after=%+v", before.Experience, after.Experience)
	}
}

func TestProfileService_RemoveUnknownEntry_IsNoop(t *testing.T) {
	f := newProfileFixture()
	_, _ = f.svc.Upsert(context.Background(), "u1", baseInput())
	_, _ = f.svc.AddExperience(context.Background(), "u1", experienceInput("Only"))
	before, _ := f.svc.AddEducation(context.Background(), "u1", ports.EducationInput{
		School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: time.Date(2010, 9, 1, 0, 0, 0, 0, time.UTC),
	})

	afterExp, err := f.svc.RemoveExperience(context.Background(), "u1", "does-not-exist")
	if err != nil {
		t.Fatalf("RemoveExperience: %v", err)
	}
	afterEdu, err := f.svc.RemoveEducation(context.Background(), "u1", "does-not-exist")
	if err != nil {
		t.Fatalf("RemoveEducation: %v", err)
	}

	if !reflect.DeepEqual(before.Experience, afterExp.Experience) {
		t.Errorf("experience changed: %+v", afterExp.Experience)
	}
	if !reflect.DeepEqual(before.Education, afterEdu.Education) {
		t.Errorf("education changed: %+v", afterEdu.Education)
	}
}

func TestProfileService_AddExperience_Validation(t *testing.T) {
	f := newProfileFixture()
	_, _ = f.svc.Upsert(context.Background(), "u1", baseInput())

	_, err := f.svc.AddExperience(context.Background(), "u1", ports.ExperienceInput{Title: "Dev", Company: "Acme"})

	var verr *domain.ValidationError
	if !errors.As(err, &verr) || !verr.Has("from") {
		t.Fatalf("expected violation on from, got %v", err)
	}
}

func TestProfileService_AddEducation_Validation(t *testing.T) {
	f := newProfileFixture()

	_, err := f.svc.AddEducation(context.Background(), "u1", ports.EducationInput{})

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Violations) != 4 {
		t.Errorf("expected 4 violations, got %+v", verr.Violations)
	}
}

func TestProfileService_AddExperience_NoProfile(t *testing.T) {
	f := newProfileFixture()

	_, err := f.svc.AddExperience(context.Background(), "u1", experienceInput("Dev"))
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestProfileService_Delete_Cascades(t *testing.T) {
	f := newProfileFixture()
	user, _ := f.users.Create(context.Background(), &domain.User{Name: "Zed", Email: "zed@example.com"})
	f.posts.byUser[user.ID] = 3
	f.posts.byUser["someone-else"] = 1
	_, _ = f.svc.Upsert(context.Background(), user.ID, baseInput())

	if err := f.svc.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, ok := f.posts.byUser[user.ID]; ok {
		t.Error("posts not deleted")
	}
	if f.posts.byUser["someone-else"] != 1 {
		t.Error("other users' posts must survive")
	}
	if _, err := f.users.FindByID(context.Background(), user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("user not deleted: %v", err)
	}
	if _, err := f.svc.GetByUser(context.Background(), user.ID); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound after delete, got %v", err)
	}
}
