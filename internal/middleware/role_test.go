package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWithRole(t *testing.T, role interface{}, allowed ...string) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}

	h := RequireRole(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec.Code
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	assert.Equal(t, http.StatusOK, runWithRole(t, "ADMIN", "ADMIN"))
	assert.Equal(t, http.StatusOK, runWithRole(t, "CUSTOMER", "CUSTOMER", "ADMIN"))
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, runWithRole(t, "CUSTOMER", "ADMIN"))
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, runWithRole(t, nil, "ADMIN"))
}

func TestRequireRoleRejectsNonStringRole(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, runWithRole(t, 42, "ADMIN"))
}
