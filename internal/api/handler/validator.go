package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/devconnector/connector-api/internal/core/domain"
)

// messages holds the client-facing text for a field and rule, keyed "field.tag".
var messages = map[string]string{
	"name.required":         "Name is required",
	"email.required":        "Please include a valid email",
	"email.email":           "Please include a valid email",
	"password.required":     "Password is required",
	"password.min":          "Please enter a password with 6 or more characters",
	"status.required":       "Status is required",
	"skills.required":       "Skills is required",
	"title.required":        "Title is required",
	"company.required":      "Company is required",
	"school.required":       "School is required",
	"degree.required":       "Degree is required",
	"fieldofstudy.required": "Field of study is required",
	"from.required":         "From Date is required",
	"from.date":             "From Date must be a valid date",
	"to.date":               "To Date must be a valid date",
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Field errors are reported under their JSON names. It panics if a custom
// rule cannot be registered.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("date", validDate); err != nil {
		panic("validator: register date rule: " + err.Error())
	}
	return &echoValidator{v: v}
}

func validDate(fl validator.FieldLevel) bool {
	_, ok := domain.ParseDate(fl.Field().String())
	return ok
}

// Validate satisfies the echo.Validator interface. Every failed rule is
// collected into a single *domain.ValidationError.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := &domain.ValidationError{Violations: make([]domain.FieldViolation, 0, len(ve))}
	for _, fe := range ve {
		out.Violations = append(out.Violations, violation(fe))
	}
	return out
}

func violation(fe validator.FieldError) domain.FieldViolation {
	field := fe.Field()
	msg, ok := messages[field+"."+fe.Tag()]
	if !ok {
		msg = "Invalid value for " + field
	}

	v := domain.FieldViolation{Msg: msg, Param: field, Location: "body"}
	if s, ok := fe.Value().(string); ok && s != "" {
		v.Value = s
	}
	return v
}
