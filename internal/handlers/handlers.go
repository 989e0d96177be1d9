package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/brushforge/backend/internal/apperr"
	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/store"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// currentUserID returns the authenticated Firebase UID set by the auth
// middleware.
func currentUserID(c echo.Context) (string, error) {
	uid, ok := c.Get("firebaseUID").(string)
	if !ok || uid == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return uid, nil
}

// httpError translates service errors into HTTP responses.
func httpError(err error) error {
	switch {
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrInvalidOperation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrTransientStore):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// parseLimit reads the limit query parameter; services clamp the value.
func parseLimit(c echo.Context) int {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return limit
}

// targetKinds maps URL path segments to target types.
var targetKinds = map[string]models.TargetType{
	"projects": models.TargetProject,
	"armies":   models.TargetArmy,
	"recipes":  models.TargetRecipe,
}

func targetRefFromPath(c echo.Context) (models.TargetRef, error) {
	t, ok := targetKinds[c.Param("kind")]
	if !ok {
		return models.TargetRef{}, echo.NewHTTPError(http.StatusNotFound, "Unknown entity kind")
	}
	id := c.Param("id")
	if id == "" {
		return models.TargetRef{}, echo.NewHTTPError(http.StatusBadRequest, "Missing entity ID")
	}
	return models.TargetRef{ID: id, Type: t}, nil
}
