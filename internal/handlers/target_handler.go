package handlers

import (
	"net/http"

	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// TargetHandler handles project, army, and recipe lifecycle requests.
type TargetHandler struct {
	targetService *services.TargetService
}

// NewTargetHandler creates a new TargetHandler.
func NewTargetHandler(targetService *services.TargetService) *TargetHandler {
	return &TargetHandler{targetService: targetService}
}

// RegisterTargetRoutes registers entity lifecycle routes for all three kinds.
func (h *TargetHandler) RegisterTargetRoutes(g *echo.Group) {
	g.POST("/:kind", h.Create)
	g.GET("/:kind/:id", h.Get)
	g.PATCH("/:kind/:id", h.Update)
	g.DELETE("/:kind/:id", h.Delete)
	g.GET("/users/:user_id/:kind", h.ListByOwner)
}

// Create creates a new entity owned by the caller.
func (h *TargetHandler) Create(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	t, ok := targetKinds[c.Param("kind")]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Unknown entity kind")
	}

	var req models.CreateTargetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	target, err := h.targetService.CreateTarget(c.Request().Context(), uid, t, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"target": target}})
}

// Get returns one entity.
func (h *TargetHandler) Get(c echo.Context) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}
	ref, err := targetRefFromPath(c)
	if err != nil {
		return err
	}
	target, err := h.targetService.GetTarget(c.Request().Context(), ref)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"target": target}})
}

// Update patches the caller's entity and reconciles its feed snapshot.
func (h *TargetHandler) Update(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	ref, err := targetRefFromPath(c)
	if err != nil {
		return err
	}

	var req models.UpdateTargetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	target, err := h.targetService.UpdateTarget(c.Request().Context(), uid, ref, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"target": target}})
}

// Delete removes the caller's entity and cascades over its interactions.
func (h *TargetHandler) Delete(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	ref, err := targetRefFromPath(c)
	if err != nil {
		return err
	}
	if err := h.targetService.DeleteTarget(c.Request().Context(), uid, ref); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListByOwner returns a user's entities of one kind.
func (h *TargetHandler) ListByOwner(c echo.Context) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}
	t, ok := targetKinds[c.Param("kind")]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Unknown entity kind")
	}
	targets, err := h.targetService.ListByOwner(c.Request().Context(), c.Param("user_id"), t, parseLimit(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"targets": targets}})
}
