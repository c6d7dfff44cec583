package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	identityKey = "identity"
	userKey     = "user"
	actorKey    = "actor"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is what the identity provider vouches for
type Identity struct {
	Subject      string
	Email        string
	Name         string
	Professional bool
}

// IdentityVerifier turns a bearer token into an Identity
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Authenticate verifies the bearer token and stores the Identity in the
// context. Websocket clients cannot set headers, so the token query
// parameter is accepted as well.
func Authenticate(verifier IdentityVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}
			identity, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}
			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		if token := c.QueryParam("token"); token != "" {
			return token, nil
		}
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
	}
	return parts[1], nil
}

// IdentityFrom returns the verified identity, or nil
func IdentityFrom(c echo.Context) *Identity {
	identity, _ := c.Get(identityKey).(*Identity)
	return identity
}
