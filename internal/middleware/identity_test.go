package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pawprint-social/backend/internal/middleware"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/repositories/memory"
	"github.com/pawprint-social/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestJWTVerifierRoundTrip(t *testing.T) {
	v := middleware.NewJWTVerifier(secret)
	token, err := v.Issue("uid-1", "vet@example.com", "Dr. Vet", models.AccountProfessional, time.Hour)
	require.NoError(t, err)

	identity, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", identity.Subject)
	assert.Equal(t, "vet@example.com", identity.Email)
	assert.Equal(t, "Dr. Vet", identity.Name)
	assert.True(t, identity.Professional)
}

func TestJWTVerifierRejectsBadTokens(t *testing.T) {
	v := middleware.NewJWTVerifier(secret)
	ctx := context.Background()

	other, err := middleware.NewJWTVerifier("other").Issue("uid-1", "", "", models.AccountUser, time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(ctx, other)
	assert.ErrorIs(t, err, middleware.ErrInvalidToken)

	expired, err := v.Issue("uid-1", "", "", models.AccountUser, -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(ctx, expired)
	assert.ErrorIs(t, err, middleware.ErrInvalidToken)

	noSubject, err := v.Issue("", "", "", models.AccountUser, time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(ctx, noSubject)
	assert.ErrorIs(t, err, middleware.ErrInvalidToken)
}

func runAuthenticate(t *testing.T, target, header string) (*httptest.ResponseRecorder, *middleware.Identity) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *middleware.Identity
	h := middleware.Authenticate(middleware.NewJWTVerifier(secret))(func(c echo.Context) error {
		seen = middleware.IdentityFrom(c)
		return c.NoContent(http.StatusOK)
	})
	err := h(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, seen
}

func TestAuthenticate(t *testing.T) {
	token, err := middleware.NewJWTVerifier(secret).Issue("uid-7", "a@example.com", "Ana", models.AccountUser, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		target string
		header string
		status int
	}{
		{"missing header", "/", "", http.StatusUnauthorized},
		{"wrong scheme", "/", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "/", "Bearer nope", http.StatusUnauthorized},
		{"bearer header", "/", "Bearer " + token, http.StatusOK},
		{"query token", "/?token=" + token, "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, identity := runAuthenticate(t, tt.target, tt.header)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				require.NotNil(t, identity)
				assert.Equal(t, "uid-7", identity.Subject)
			} else {
				assert.Nil(t, identity)
			}
		})
	}
}

func TestResolveActorProvisionsProfiles(t *testing.T) {
	store := memory.New()
	repos := memory.NewRepositories(store)
	resolver := services.NewActorResolver(repos.User, repos.Pet)
	e := echo.New()

	call := func(identity *middleware.Identity) (*models.User, error) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		var user *models.User
		var actorErr error
		h := middleware.Authenticate(stubVerifier{identity})(
			middleware.ResolveActor(repos.User, resolver)(func(c echo.Context) error {
				user = middleware.UserFrom(c)
				_, actorErr = middleware.ActorFrom(c)
				return nil
			}))
		req.Header.Set(echo.HeaderAuthorization, "Bearer x")
		require.NoError(t, h(c))
		return user, actorErr
	}

	user, err := call(&middleware.Identity{Subject: "uid-1", Name: "Ana"})
	require.NotNil(t, user)
	assert.Equal(t, models.AccountUser, user.AccountType)
	assert.ErrorIs(t, err, models.ErrNoActor)

	again, _ := call(&middleware.Identity{Subject: "uid-1", Name: "Ana"})
	assert.Equal(t, user.ID, again.ID)

	pro, err := call(&middleware.Identity{Subject: "uid-2", Name: "Dr. Vet", Professional: true})
	require.NoError(t, err)
	assert.True(t, pro.IsProfessional())
}

type stubVerifier struct{ identity *middleware.Identity }

func (s stubVerifier) Verify(context.Context, string) (*middleware.Identity, error) {
	return s.identity, nil
}
