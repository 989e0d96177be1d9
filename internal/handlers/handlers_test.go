package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brushforge/backend/internal/apperr"
	"github.com/brushforge/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", apperr.NotFound("project %s", "p1"), http.StatusNotFound},
		{"invalid operation", apperr.InvalidOperation("self follow"), http.StatusBadRequest},
		{"transient store", apperr.TransientStore("query", assert.AnError), http.StatusServiceUnavailable},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr, ok := httpError(tt.err).(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, tt.code, httpErr.Code)
		})
	}
}

func TestCurrentUserIDRequiresMiddlewareValue(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	_, err := currentUserID(c)
	require.Error(t, err)

	c.Set("firebaseUID", "u1")
	uid, err := currentUserID(c)
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)
}

func TestTargetRefFromPath(t *testing.T) {
	e := echo.New()

	newCtx := func(kind, id string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetParamNames("kind", "id")
		c.SetParamValues(kind, id)
		return c
	}

	ref, err := targetRefFromPath(newCtx("armies", "a1"))
	require.NoError(t, err)
	assert.Equal(t, models.TargetArmy, ref.Type)
	assert.Equal(t, "a1", ref.ID)

	_, err = targetRefFromPath(newCtx("dioramas", "d1"))
	require.Error(t, err)
}
