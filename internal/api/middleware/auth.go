package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devconnector/connector-api/internal/core/ports"
)

const (
	// TokenHeader carries the raw access token, without a scheme prefix.
	TokenHeader = "x-auth-token"
	// UserIDKey is the echo.Context key holding the authenticated user id.
	UserIDKey = "user_id"
)

// Auth rejects requests without a valid access token and stores the
// token's user id in the context for downstream handlers.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Request().Header.Get(TokenHeader)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}
