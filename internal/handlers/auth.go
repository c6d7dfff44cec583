package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/pawprint-social/backend/internal/models"
)

const devTokenTTL = 24 * time.Hour

// TokenIssuer signs development tokens
type TokenIssuer interface {
	Issue(subject, email, name string, accountType models.AccountType, ttl time.Duration) (string, error)
}

// AuthHandler issues tokens when the service verifies its own JWTs instead
// of Firebase ID tokens. Profiles are created on first authenticated request.
type AuthHandler struct {
	issuer TokenIssuer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(issuer TokenIssuer) *AuthHandler {
	return &AuthHandler{issuer: issuer}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/dev-token", h.DevToken)
}

// DevToken signs a token for the requested subject
func (h *AuthHandler) DevToken(c echo.Context) error {
	var req models.DevTokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	accountType := models.AccountUser
	if req.AccountType == string(models.AccountProfessional) {
		accountType = models.AccountProfessional
	}

	token, err := h.issuer.Issue(req.Subject, req.Email, req.DisplayName, accountType, devTokenTTL)
	if err != nil {
		c.Logger().Errorj(log.JSON{"event": "dev_token_failed", "error": err.Error()})
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to sign token")
	}
	return ok(c, echo.Map{
		"token":      token,
		"expires_in": int(devTokenTTL.Seconds()),
	})
}
