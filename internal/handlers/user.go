package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pawprint-social/backend/internal/middleware"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/services"
)

// UserHandler serves the signed-in profile and the acting-pet switch
type UserHandler struct {
	actors services.ActorResolver
}

func NewUserHandler(actors services.ActorResolver) *UserHandler {
	return &UserHandler{actors: actors}
}

func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/me", h.GetMe)
	g.PUT("/me/selected-pet", h.SelectPet)
}

// GetMe returns the profile and the actor requests currently run as
func (h *UserHandler) GetMe(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	resp := models.MeResponse{User: user}
	if actor, err := middleware.ActorFrom(c); err == nil {
		resp.Actor = &actor
	}
	return ok(c, resp)
}

// SelectPet switches which owned pet the account acts as
func (h *UserHandler) SelectPet(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req models.SelectPetRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	petID, err := uuid.Parse(req.PetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid pet_id")
	}

	actor, err := h.actors.SelectPet(c.Request().Context(), user, petID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Pet not found")
		}
		return httpError(c, err)
	}
	middleware.SetActor(c, actor)
	return ok(c, models.MeResponse{User: user, Actor: &actor})
}
