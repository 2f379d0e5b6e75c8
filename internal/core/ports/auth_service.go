package ports

import (
	"context"

	"github.com/happythoughts/thoughts-api/internal/core/domain"
)

// AuthService covers account lifecycle and credential verification.
type AuthService interface {
	// Signup creates an account and returns it with a signed access token.
	Signup(ctx context.Context, email, password, name string) (*domain.User, string, error)
	// Login verifies credentials and returns the user with a fresh token.
	// Unknown email and wrong password both yield domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	// Profile returns the public record for the given user id.
	Profile(ctx context.Context, userID string) (*domain.User, error)
}
