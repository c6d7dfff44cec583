package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/services"
)

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	ledger services.LedgerService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(ledger services.LedgerService) *CommentHandler {
	return &CommentHandler{ledger: ledger}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetComments)
}

// CreateComment adds a comment as the acting identity
func (h *CommentHandler) CreateComment(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	postID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	comment, err := h.ledger.AddComment(c.Request().Context(), actor, postID, req.Text)
	if err != nil {
		return httpError(c, err)
	}
	return created(c, comment)
}

// GetComments lists a post's comments, oldest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	comments, err := h.ledger.Comments(c.Request().Context(), postID)
	if err != nil {
		return httpError(c, err)
	}
	return ok(c, echo.Map{"comments": comments})
}
