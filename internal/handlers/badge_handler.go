package handlers

import (
	"net/http"

	"github.com/brushforge/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// BadgeHandler handles badge HTTP requests.
type BadgeHandler struct {
	badgeService *services.BadgeService
}

// NewBadgeHandler creates a new BadgeHandler.
func NewBadgeHandler(badgeService *services.BadgeService) *BadgeHandler {
	return &BadgeHandler{badgeService: badgeService}
}

// RegisterBadgeRoutes registers badge routes.
func (h *BadgeHandler) RegisterBadgeRoutes(g *echo.Group) {
	g.GET("/users/:user_id/badges", h.ListBadges)
	g.POST("/users/me/badges/check", h.CheckBadges)
}

// ListBadges returns a user's earned badges.
func (h *BadgeHandler) ListBadges(c echo.Context) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}
	badges, err := h.badgeService.ListBadges(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"badges": badges}})
}

// CheckBadges re-evaluates the caller's ladders. Safe to call repeatedly;
// already-earned tiers are never awarded twice.
func (h *BadgeHandler) CheckBadges(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.badgeService.CheckAndAwardBadges(c.Request().Context(), uid); err != nil {
		return httpError(err)
	}
	badges, err := h.badgeService.ListBadges(c.Request().Context(), uid)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"badges": badges}})
}
