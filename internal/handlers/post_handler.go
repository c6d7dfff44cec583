package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/services"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	feed services.FeedService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(feed services.FeedService) *PostHandler {
	return &PostHandler{feed: feed}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
}

// CreatePost publishes a post as the acting pet
func (h *PostHandler) CreatePost(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req models.CreatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	post, err := h.feed.CreatePost(c.Request().Context(), actor, req)
	if err != nil {
		return httpError(c, err)
	}
	return created(c, post)
}

// GetPost returns one post with its reactions and comment count
func (h *PostHandler) GetPost(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	postID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	item, err := h.feed.Post(c.Request().Context(), actor, postID)
	if err != nil {
		return httpError(c, err)
	}
	return ok(c, item)
}
