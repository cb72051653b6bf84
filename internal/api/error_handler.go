package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/devconnector/connector-api/internal/core/domain"
)

// messageResponse is the envelope for auth, not-found and other single-message errors.
type messageResponse struct {
	Msg string `json:"msg"`
}

// errorsResponse is the envelope for request validation and credential errors.
type errorsResponse struct {
	Errors []domain.FieldViolation `json:"errors"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - renders validation and credential failures as {"errors":[...]} with 400.
//   - renders not-found and Echo errors as {"msg": "..."} with their status.
//   - logs anything else and answers 500 "Server error" without details.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if writeKnownError(err, c) {
			return
		}

		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Msg("unhandled error")

		_ = c.String(http.StatusInternalServerError, "Server error")
	}
}

// writeKnownError renders err if it maps to a client-facing response.
func writeKnownError(err error, c echo.Context) bool {
	code, body := resolveError(err)
	if body == nil {
		return false
	}
	_ = c.JSON(code, body)
	return true
}

func resolveError(err error) (int, any) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, errorsResponse{Errors: verr.Violations}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, errorsResponse{Errors: []domain.FieldViolation{{Msg: "Invalid credentials"}}}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, errorsResponse{Errors: []domain.FieldViolation{{Msg: "User already exists"}}}
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound, messageResponse{Msg: "Profile not found"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, messageResponse{Msg: "User not found"}
	case errors.Is(err, domain.ErrGithubProfileNotFound):
		return http.StatusNotFound, messageResponse{Msg: "No github profile found"}
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, messageResponse{Msg: "Token is not valid"}
	}

	// Echo's own errors (bind failures, router 404, token guard).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			return 0, nil
		}
		return he.Code, messageResponse{Msg: fmt.Sprintf("%v", he.Message)}
	}

	return 0, nil
}
