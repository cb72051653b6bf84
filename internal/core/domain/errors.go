package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrTokenInvalid          = errors.New("token is not valid")
	ErrUserExists            = errors.New("user already exists")
	ErrUserNotFound          = errors.New("user not found")
	ErrProfileNotFound       = errors.New("profile not found")
	ErrGithubProfileNotFound = errors.New("no github profile found")
)

// FieldViolation describes one failed rule on one request field.
type FieldViolation struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
	Value    any    `json:"value,omitempty"`
}

// ValidationError aggregates every rule a request violated.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether a violation was recorded for param.
func (e *ValidationError) Has(param string) bool {
	for _, v := range e.Violations {
		if v.Param == param {
			return true
		}
	}
	return false
}
