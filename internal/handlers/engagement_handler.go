package handlers

import (
	"net/http"

	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// EngagementHandler handles like, follow, and comment HTTP requests.
type EngagementHandler struct {
	engagementService *services.EngagementService
}

// NewEngagementHandler creates a new EngagementHandler.
func NewEngagementHandler(engagementService *services.EngagementService) *EngagementHandler {
	return &EngagementHandler{engagementService: engagementService}
}

// RegisterEngagementRoutes registers like, follow, and comment routes.
func (h *EngagementHandler) RegisterEngagementRoutes(g *echo.Group) {
	g.POST("/:kind/:id/like", h.ToggleLike)
	g.POST("/users/:user_id/follow", h.Follow)
	g.DELETE("/users/:user_id/follow", h.Unfollow)
	g.POST("/:kind/:id/comments", h.CreateComment)
	g.GET("/:kind/:id/comments", h.ListComments)
	g.PUT("/:kind/:id/comments/:comment_id", h.UpdateComment)
	g.DELETE("/:kind/:id/comments/:comment_id", h.DeleteComment)
}

// ToggleLike flips the caller's like on an entity and returns the new state.
func (h *EngagementHandler) ToggleLike(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	ref, err := targetRefFromPath(c)
	if err != nil {
		return err
	}
	liked, err := h.engagementService.ToggleLike(c.Request().Context(), uid, ref)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": liked}})
}

// Follow makes the caller follow another user.
func (h *EngagementHandler) Follow(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.engagementService.FollowUser(c.Request().Context(), uid, c.Param("user_id")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

// Unfollow removes the caller's follow edge.
func (h *EngagementHandler) Unfollow(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.engagementService.UnfollowUser(c.Request().Context(), uid, c.Param("user_id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateComment appends a comment under an entity.
func (h *EngagementHandler) CreateComment(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	ref, err := targetRefFromPath(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.engagementService.CreateComment(c.Request().Context(), uid, ref, req.Content)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"comment": comment}})
}

// ListComments returns the newest comments under an entity.
func (h *EngagementHandler) ListComments(c echo.Context) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}
	ref, err := targetRefFromPath(c)
	if err != nil {
		return err
	}
	comments, err := h.engagementService.ListComments(c.Request().Context(), ref, parseLimit(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"comments": comments}})
}

// UpdateComment edits the caller's own comment.
func (h *EngagementHandler) UpdateComment(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	ref, err := targetRefFromPath(c)
	if err != nil {
		return err
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.engagementService.UpdateComment(c.Request().Context(), uid, ref, c.Param("comment_id"), req.Content); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"updated": true}})
}

// DeleteComment removes a comment; the author or the entity owner may delete.
func (h *EngagementHandler) DeleteComment(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	ref, err := targetRefFromPath(c)
	if err != nil {
		return err
	}
	if err := h.engagementService.DeleteComment(c.Request().Context(), uid, ref, c.Param("comment_id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
