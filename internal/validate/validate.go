// Package validate holds the declarative input rules for the registration
// and login payloads. Validation returns a normalized copy of the input plus
// every violation found, never just the first, and never mutates the
// caller's value.
package validate

import (
	"fmt"
	"html"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Violation is a single field-level rule failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Name     string `json:"name"     validate:"required,min=3,max=30"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput is the login payload.
type LoginInput struct {
	Name     string `json:"name"     validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Rules wraps a validator instance. Construct one per process and inject it;
// the instance caches struct metadata and is safe for concurrent use.
type Rules struct {
	v *validator.Validate
}

func New() *Rules {
	return &Rules{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Registration normalizes and validates a registration payload. The name is
// trimmed, the email trimmed and lower-cased, the password trimmed. Length
// rules run against the raw trimmed name; HTML escaping happens after, so a
// name's character budget is never consumed by escape expansion.
func (r *Rules) Registration(in RegisterInput) (RegisterInput, []Violation) {
	norm := RegisterInput{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: strings.TrimSpace(in.Password),
	}
	violations := r.violations(norm)
	norm.Name = html.EscapeString(norm.Name)
	return norm, violations
}

// Login normalizes and validates a login payload.
func (r *Rules) Login(in LoginInput) (LoginInput, []Violation) {
	norm := LoginInput{
		Name:     strings.TrimSpace(in.Name),
		Password: strings.TrimSpace(in.Password),
	}
	violations := r.violations(norm)
	norm.Name = html.EscapeString(norm.Name)
	return norm, violations
}

func (r *Rules) violations(v any) []Violation {
	err := r.v.Struct(v)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		// Non-validation errors only happen for broken rule definitions;
		// surface them as a generic violation rather than panicking.
		return []Violation{{Field: "", Message: "invalid input"}}
	}

	out := make([]Violation, 0, len(errs))
	for _, fe := range errs {
		out = append(out, Violation{
			Field:   strings.ToLower(fe.Field()),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "invalid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
