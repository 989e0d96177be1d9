package handlers

import (
	"net/http"

	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles user profile HTTP requests.
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterUserRoutes registers user-related routes.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.POST("/users/me", h.EnsureUser)
	g.GET("/users/me", h.GetMe)
	g.GET("/users/:user_id", h.GetUser)
}

// EnsureUser creates the caller's profile document on first login or
// refreshes its display name and photo.
func (h *UserHandler) EnsureUser(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.EnsureUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user := &models.User{ID: uid, DisplayName: req.DisplayName, PhotoURL: req.PhotoURL}
	if err := h.userRepository.EnsureUser(c.Request().Context(), user); err != nil {
		return httpError(err)
	}
	stored, err := h.userRepository.GetUserByID(c.Request().Context(), uid)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"user": stored}})
}

// GetMe returns the caller's own profile with counters.
func (h *UserHandler) GetMe(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, err := h.userRepository.GetUserByID(c.Request().Context(), uid)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"user": user}})
}

// GetUser returns another user's profile.
func (h *UserHandler) GetUser(c echo.Context) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}
	user, err := h.userRepository.GetUserByID(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"user": user}})
}
