package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/services"
)

// ReactionHandler handles reaction toggles on posts
type ReactionHandler struct {
	ledger services.LedgerService
}

func NewReactionHandler(ledger services.LedgerService) *ReactionHandler {
	return &ReactionHandler{ledger: ledger}
}

func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.POST("/posts/:id/reactions", h.ToggleReaction)
	g.GET("/posts/:id/reactions", h.GetReactions)
}

// ToggleReaction adds, removes or switches the actor's reaction and
// returns the resulting counts
func (h *ReactionHandler) ToggleReaction(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	postID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req models.ToggleReactionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	summary, err := h.ledger.ToggleReaction(c.Request().Context(), actor, postID, models.ReactionType(req.Type))
	if err != nil {
		return httpError(c, err)
	}
	return ok(c, summary)
}

func (h *ReactionHandler) GetReactions(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	postID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	summary, err := h.ledger.Reactions(c.Request().Context(), actor, postID)
	if err != nil {
		return httpError(c, err)
	}
	return ok(c, summary)
}
