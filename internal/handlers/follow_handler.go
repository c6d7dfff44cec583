package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/pawprint-social/backend/internal/services"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	follows services.FollowService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(follows services.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/pets/:id/follow", h.FollowPet)
	g.DELETE("/pets/:id/follow", h.UnfollowPet)
	g.GET("/pets/:id/follow/status", h.GetFollowStatus)
	g.GET("/pets/:id/followers", h.GetFollowers)
	g.GET("/following", h.GetFollowing)
}

// FollowPet follows a pet; following twice is not an error
func (h *FollowHandler) FollowPet(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	petID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	created, err := h.follows.Follow(c.Request().Context(), actor, petID)
	if err != nil {
		return httpError(c, err)
	}
	return ok(c, echo.Map{"following": true, "created": created})
}

func (h *FollowHandler) UnfollowPet(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	petID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.follows.Unfollow(c.Request().Context(), actor, petID); err != nil {
		return httpError(c, err)
	}
	return ok(c, echo.Map{"following": false})
}

func (h *FollowHandler) GetFollowStatus(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	petID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	following, err := h.follows.IsFollowing(c.Request().Context(), actor, petID)
	if err != nil {
		return httpError(c, err)
	}
	return ok(c, echo.Map{"following": following})
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	petID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	followers, err := h.follows.Followers(c.Request().Context(), petID)
	if err != nil {
		return httpError(c, err)
	}
	return ok(c, echo.Map{"followers": followers})
}

// GetFollowing lists the pets the current actor follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	petIDs, err := h.follows.Following(c.Request().Context(), actor)
	if err != nil {
		return httpError(c, err)
	}
	return ok(c, echo.Map{"pet_ids": petIDs})
}
