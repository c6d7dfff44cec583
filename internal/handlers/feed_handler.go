package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/services"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feed services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed services.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns the newest posts visible to the actor. Pass the
// next_before and next_before_id values of a page as ?before= and
// ?before_id= to fetch the following page. Without before_id the page
// starts strictly before the timestamp.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var before *models.FeedCursor
	if raw := c.QueryParam("before"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "before must be an RFC 3339 timestamp")
		}
		before = &models.FeedCursor{CreatedAt: t}
		if rawID := c.QueryParam("before_id"); rawID != "" {
			id, err := uuid.Parse(rawID)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "before_id must be a UUID")
			}
			before.ID = id
		}
	} else if c.QueryParam("before_id") != "" {
		return echo.NewHTTPError(http.StatusBadRequest, "before_id requires before")
	}

	items, err := h.feed.Feed(c.Request().Context(), actor, before)
	if err != nil {
		return httpError(c, err)
	}

	meta := echo.Map{"count": len(items)}
	if len(items) > 0 {
		last := items[len(items)-1]
		meta["next_before"] = last.CreatedAt.Format(time.RFC3339Nano)
		meta["next_before_id"] = last.ID
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": items},
		"meta":    meta,
	})
}
