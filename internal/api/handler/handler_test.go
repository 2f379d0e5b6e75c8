package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/happythoughts/thoughts-api/internal/api/middleware"
	"github.com/happythoughts/thoughts-api/internal/core/domain"
	"github.com/happythoughts/thoughts-api/internal/core/ports"
)

// stubAuthService lets each test plug in just the call it exercises.
type stubAuthService struct {
	signupFn  func(ctx context.Context, email, password, name string) (*domain.User, string, error)
	loginFn   func(ctx context.Context, email, password string) (*domain.User, string, error)
	profileFn func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubAuthService) Signup(ctx context.Context, email, password, name string) (*domain.User, string, error) {
	return s.signupFn(ctx, email, password, name)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.profileFn(ctx, userID)
}

type stubThoughtService struct {
	createFn      func(ctx context.Context, in ports.CreateThoughtInput) (*domain.Thought, error)
	getFn         func(ctx context.Context, id string) (*domain.Thought, error)
	listFn        func(ctx context.Context, in ports.ListThoughtsInput) (*ports.ListThoughtsResult, error)
	updateFn      func(ctx context.Context, id string, caller domain.Identity, message string) (*domain.Thought, error)
	deleteFn      func(ctx context.Context, id string, caller domain.Identity) (*domain.Thought, error)
	toggleLikeFn  func(ctx context.Context, id string, caller domain.Identity) (*domain.Thought, error)
	listByOwnerFn func(ctx context.Context, ownerID string, in ports.ListThoughtsInput) (*ports.ListThoughtsResult, error)
	listLikedByFn func(ctx context.Context, userID string, in ports.ListThoughtsInput) (*ports.ListThoughtsResult, error)
}

func (s *stubThoughtService) Create(ctx context.Context, in ports.CreateThoughtInput) (*domain.Thought, error) {
	return s.createFn(ctx, in)
}

func (s *stubThoughtService) Get(ctx context.Context, id string) (*domain.Thought, error) {
	return s.getFn(ctx, id)
}

func (s *stubThoughtService) List(ctx context.Context, in ports.ListThoughtsInput) (*ports.ListThoughtsResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubThoughtService) UpdateMessage(ctx context.Context, id string, caller domain.Identity, message string) (*domain.Thought, error) {
	return s.updateFn(ctx, id, caller, message)
}

func (s *stubThoughtService) Delete(ctx context.Context, id string, caller domain.Identity) (*domain.Thought, error) {
	return s.deleteFn(ctx, id, caller)
}

func (s *stubThoughtService) ToggleLike(ctx context.Context, id string, caller domain.Identity) (*domain.Thought, error) {
	return s.toggleLikeFn(ctx, id, caller)
}

func (s *stubThoughtService) ListByOwner(ctx context.Context, ownerID string, in ports.ListThoughtsInput) (*ports.ListThoughtsResult, error) {
	return s.listByOwnerFn(ctx, ownerID, in)
}

func (s *stubThoughtService) ListLikedBy(ctx context.Context, userID string, in ports.ListThoughtsInput) (*ports.ListThoughtsResult, error) {
	return s.listLikedByFn(ctx, userID, in)
}

// failingUserRepo satisfies ports.UserRepository for tests that drive the
// auth middleware but never expect a user lookup to succeed.
type failingUserRepo struct{}

func (failingUserRepo) Create(context.Context, *domain.User) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (failingUserRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (failingUserRepo) FindByID(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

// newTestContext builds an echo context with the real validator installed,
// the way the router wires it.
func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(r, rec), rec
}

func authedContext(method, target, body string, identity domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newTestContext(method, target, body)
	middleware.SetIdentity(c, identity)
	return c, rec
}

func testUser() *domain.User {
	return &domain.User{
		ID:        "64f000000000000000000001",
		Email:     "alice@example.com",
		Name:      "Alice",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func testIdentity() domain.Identity {
	return domain.Identity{ID: "64f000000000000000000001", Email: "alice@example.com", Name: "Alice"}
}

func testThought(owner string) *domain.Thought {
	now := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	return &domain.Thought{
		ID:        "64f0000000000000000000aa",
		Message:   "coffee in the sun",
		Category:  domain.CategoryGeneral,
		Hearts:    0,
		OwnerID:   owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func assertHTTPError(t *testing.T, err error, code int, msg string) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d", code, he.Code)
	}
	if msg != "" && he.Message != msg {
		t.Fatalf("expected message %q, got %v", msg, he.Message)
	}
}

func assertValidationError(t *testing.T, err error, wantField string) {
	t.Helper()
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	for _, f := range ve.Fields {
		if strings.Contains(f, wantField) {
			return
		}
	}
	t.Fatalf("expected a message about %q, got %v", wantField, ve.Fields)
}
