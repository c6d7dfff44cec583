package middleware

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/repositories"
	"github.com/pawprint-social/backend/internal/services"
)

// ResolveActor loads the profile behind the verified identity, creating it
// on first sign-in, and resolves the actor it currently acts as. Guardians
// without pets get a user but no actor.
func ResolveActor(userRepo repositories.UserRepository, actors services.ActorResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := IdentityFrom(c)
			if identity == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}
			ctx := c.Request().Context()

			user, err := userRepo.GetUserByFirebaseUID(ctx, identity.Subject)
			if errors.Is(err, models.ErrNotFound) {
				user, err = provision(c, userRepo, identity)
			}
			if err != nil {
				c.Logger().Errorj(log.JSON{"event": "load_user_failed", "subject": identity.Subject, "error": err.Error()})
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Failed to load user profile")
			}
			c.Set(userKey, user)

			actor, err := actors.Resolve(ctx, user)
			switch {
			case err == nil:
				c.Set(actorKey, actor)
			case errors.Is(err, models.ErrNoActor):
			default:
				c.Logger().Errorj(log.JSON{"event": "resolve_actor_failed", "user_id": user.ID, "error": err.Error()})
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Failed to resolve actor")
			}
			return next(c)
		}
	}
}

func provision(c echo.Context, userRepo repositories.UserRepository, identity *Identity) (*models.User, error) {
	user := &models.User{
		ID:          uuid.New(),
		FirebaseUID: identity.Subject,
		Email:       identity.Email,
		DisplayName: identity.Name,
		AccountType: models.AccountUser,
	}
	if identity.Professional {
		user.AccountType = models.AccountProfessional
	}
	err := userRepo.CreateUser(c.Request().Context(), user)
	if errors.Is(err, models.ErrConflict) {
		// first requests of a new account raced; use the stored profile
		return userRepo.GetUserByFirebaseUID(c.Request().Context(), identity.Subject)
	}
	if err != nil {
		return nil, err
	}
	c.Logger().Infoj(log.JSON{"event": "user_provisioned", "user_id": user.ID, "account_type": user.AccountType})
	return user, nil
}

// UserFrom returns the signed-in profile
func UserFrom(c echo.Context) *models.User {
	user, _ := c.Get(userKey).(*models.User)
	return user
}

// ActorFrom returns the acting identity, or ErrNoActor for a guardian who
// has not registered a pet yet.
func ActorFrom(c echo.Context) (models.Actor, error) {
	actor, ok := c.Get(actorKey).(models.Actor)
	if !ok {
		return models.Actor{}, models.ErrNoActor
	}
	return actor, nil
}

// SetActor replaces the acting identity for the rest of the request
func SetActor(c echo.Context, actor models.Actor) {
	c.Set(actorKey, actor)
}
