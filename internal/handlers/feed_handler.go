package handlers

import (
	"net/http"

	"github.com/brushforge/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles the four feed views.
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// RegisterFeedRoutes registers feed routes.
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.OwnFeed)
	g.GET("/feed/following", h.FollowingFeed)
	g.GET("/feed/global", h.GlobalFeed)
	g.GET("/feed/saved", h.SavedFeed)
}

// OwnFeed returns the caller's own activities, newest first.
func (h *FeedHandler) OwnFeed(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	activities, err := h.feedService.OwnFeed(c.Request().Context(), uid, parseLimit(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"activities": activities}})
}

// FollowingFeed returns the merged activities of everyone the caller follows.
func (h *FeedHandler) FollowingFeed(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	activities, err := h.feedService.FollowingFeed(c.Request().Context(), uid, parseLimit(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"activities": activities}})
}

// GlobalFeed returns the newest public activities across all users.
func (h *FeedHandler) GlobalFeed(c echo.Context) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}
	activities, err := h.feedService.GlobalFeed(c.Request().Context(), parseLimit(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"activities": activities}})
}

// SavedFeed returns the projects the caller bookmarked.
func (h *FeedHandler) SavedFeed(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	projects, err := h.feedService.SavedFeed(c.Request().Context(), uid, parseLimit(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"projects": projects}})
}
