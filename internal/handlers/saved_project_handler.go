package handlers

import (
	"net/http"

	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/repositories"
	"github.com/brushforge/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// SavedProjectHandler handles project bookmark HTTP requests.
type SavedProjectHandler struct {
	savedRepository repositories.SavedProjectRepository
	targetService   *services.TargetService
}

// NewSavedProjectHandler creates a new SavedProjectHandler.
func NewSavedProjectHandler(savedRepo repositories.SavedProjectRepository, targetService *services.TargetService) *SavedProjectHandler {
	return &SavedProjectHandler{savedRepository: savedRepo, targetService: targetService}
}

// RegisterSavedProjectRoutes registers bookmark routes.
func (h *SavedProjectHandler) RegisterSavedProjectRoutes(g *echo.Group) {
	g.POST("/projects/:id/save", h.Save)
	g.DELETE("/projects/:id/save", h.Unsave)
	g.GET("/projects/:id/save", h.Status)
}

// Save bookmarks a project for the caller.
func (h *SavedProjectHandler) Save(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	projectID := c.Param("id")

	if _, err := h.targetService.GetTarget(c.Request().Context(), models.TargetRef{ID: projectID, Type: models.TargetProject}); err != nil {
		return httpError(err)
	}
	if err := h.savedRepository.Save(uid, projectID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"saved": true}})
}

// Unsave removes the caller's bookmark.
func (h *SavedProjectHandler) Unsave(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.savedRepository.Unsave(uid, c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Status reports whether the caller bookmarked the project.
func (h *SavedProjectHandler) Status(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	saved, err := h.savedRepository.IsSaved(uid, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"saved": saved}})
}
