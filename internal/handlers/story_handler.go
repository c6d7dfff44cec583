package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/services"
)

// StoryHandler handles story-related HTTP requests
type StoryHandler struct {
	stories services.StoryService
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(stories services.StoryService) *StoryHandler {
	return &StoryHandler{stories: stories}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.POST("/stories", h.CreateStory)
	g.GET("/stories", h.GetStories)
	g.POST("/stories/:id/views", h.MarkViewed)
	g.GET("/stories/:id/views", h.GetViews)
}

// CreateStory posts a story that expires after a day
func (h *StoryHandler) CreateStory(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req models.CreateStoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	story, err := h.stories.CreateStory(c.Request().Context(), actor, req)
	if err != nil {
		return httpError(c, err)
	}
	return created(c, story)
}

// GetStories returns the story ring; clients poll it
func (h *StoryHandler) GetStories(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	ring, err := h.stories.VisibleStoriesFor(c.Request().Context(), actor)
	if err != nil {
		return httpError(c, err)
	}
	return ok(c, echo.Map{"stories": ring})
}

func (h *StoryHandler) MarkViewed(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	storyID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	recorded, err := h.stories.RecordView(c.Request().Context(), actor, storyID)
	if err != nil {
		return httpError(c, err)
	}
	return ok(c, echo.Map{"recorded": recorded})
}

// GetViews is the author's "who viewed" indicator
func (h *StoryHandler) GetViews(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	storyID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	summary, err := h.stories.ViewSummary(ctx, actor, storyID)
	if err != nil {
		return httpError(c, err)
	}
	viewers, err := h.stories.Viewers(ctx, actor, storyID)
	if err != nil {
		return httpError(c, err)
	}
	return ok(c, echo.Map{"counts": summary, "viewers": viewers})
}
