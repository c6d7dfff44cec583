package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pawprint-social/backend/internal/middleware"
	"github.com/pawprint-social/backend/internal/models"
)

// httpError maps service errors onto status codes. Unexpected errors are
// logged and hidden from the client.
func httpError(c echo.Context, err error) error {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	case errors.Is(err, models.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNoActor):
		return echo.NewHTTPError(http.StatusForbidden, "Register a pet before interacting")
	case errors.Is(err, models.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed")
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrExpired):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case errors.Is(err, models.ErrDependency):
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Service temporarily unavailable")
	}
	c.Logger().Error(err)
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}

// currentActor returns the acting identity or a 403
func currentActor(c echo.Context) (models.Actor, error) {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return models.Actor{}, httpError(c, err)
	}
	return actor, nil
}

func currentUser(c echo.Context) (*models.User, error) {
	user := middleware.UserFrom(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return user, nil
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// bind decodes and validates the request body into req
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return c.Validate(req)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data})
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": data})
}
