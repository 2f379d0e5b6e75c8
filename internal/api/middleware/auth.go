package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/happythoughts/thoughts-api/internal/core/domain"
	"github.com/happythoughts/thoughts-api/internal/core/ports"
)

const (
	identityKey  = "identity"
	authErrorKey = "authError"
)

// Auth validates the bearer token, loads the referenced user, and injects a
// domain.Identity into the context. Requests without a usable token are
// rejected with 401.
func Auth(jwtSecret string, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := authenticate(c, jwtSecret, users)
			if err != nil {
				return err
			}
			SetIdentity(c, identity)
			return next(c)
		}
	}
}

// OptionalAuth attaches an identity when a valid token is present but never
// fails the request. Endpoints behind it can distinguish anonymous callers
// from authenticated ones via IdentityFrom, and retrieve the reason a token
// was unusable via AuthErrorFrom.
func OptionalAuth(jwtSecret string, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := authenticate(c, jwtSecret, users)
			if err != nil {
				c.Set(authErrorKey, err)
				return next(c)
			}
			SetIdentity(c, identity)
			return next(c)
		}
	}
}

// SetIdentity attaches an identity to the request context.
func SetIdentity(c echo.Context, identity domain.Identity) {
	c.Set(identityKey, identity)
}

// IdentityFrom returns the identity attached by Auth or OptionalAuth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(identityKey).(domain.Identity)
	return identity, ok
}

// AuthErrorFrom returns the authentication failure recorded by OptionalAuth,
// or nil when the request authenticated successfully.
func AuthErrorFrom(c echo.Context) error {
	err, _ := c.Get(authErrorKey).(error)
	return err
}

func authenticate(c echo.Context, jwtSecret string, users ports.UserRepository) (domain.Identity, error) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "Access token is required")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "Access token is required")
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "Access token has expired")
		}
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "Invalid access token")
	}
	if !tkn.Valid {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "Invalid access token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "Invalid access token")
	}

	user, err := users.FindByID(c.Request().Context(), sub)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "User not found")
		}
		return domain.Identity{}, err
	}

	return domain.Identity{ID: user.ID, Email: user.Email, Name: user.Name}, nil
}
