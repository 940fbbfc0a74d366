// Package validator plugs go-playground/validator into echo's request
// binding pipeline (c.Bind followed by c.Validate).
package validator

import "github.com/go-playground/validator/v10"

// RequestValidator adapts validator.Validate to echo.Validator.
type RequestValidator struct {
	validate *validator.Validate
}

// New constructs the request validator.
func New() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *RequestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}
