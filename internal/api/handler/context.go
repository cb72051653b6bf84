package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devconnector/connector-api/internal/api/middleware"
)

// ctxUserID returns the principal stored by the Auth middleware. A missing
// value means the route was registered without the middleware.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.UserIDKey).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
	}
	return id, nil
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return c.Validate(req)
}
