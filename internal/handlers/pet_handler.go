package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/services"
)

// PetHandler handles the pet directory
type PetHandler struct {
	pets    services.PetService
	follows services.FollowService
}

func NewPetHandler(pets services.PetService, follows services.FollowService) *PetHandler {
	return &PetHandler{pets: pets, follows: follows}
}

func (h *PetHandler) RegisterPetRoutes(g *echo.Group) {
	g.POST("/pets", h.CreatePet)
	g.GET("/pets/mine", h.GetMyPets)
	g.GET("/pets/:id", h.GetPet)
	g.DELETE("/pets/:id", h.DeletePet)
}

func (h *PetHandler) CreatePet(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req models.CreatePetRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	pet, err := h.pets.Create(c.Request().Context(), user, req)
	if err != nil {
		return httpError(c, err)
	}
	return created(c, pet)
}

func (h *PetHandler) GetMyPets(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	pets, err := h.pets.ListMine(c.Request().Context(), user)
	if err != nil {
		return httpError(c, err)
	}
	return ok(c, echo.Map{"pets": pets})
}

// GetPet returns a profile with its follow counts
func (h *PetHandler) GetPet(c echo.Context) error {
	petID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	pet, err := h.pets.Get(ctx, petID)
	if err != nil {
		return httpError(c, err)
	}
	counts, err := h.follows.Counts(ctx, petID)
	if err != nil {
		return httpError(c, err)
	}
	return ok(c, echo.Map{"pet": pet, "counts": counts})
}

// DeletePet removes the pet and everything referencing it
func (h *PetHandler) DeletePet(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	petID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.pets.Delete(c.Request().Context(), user, petID); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
