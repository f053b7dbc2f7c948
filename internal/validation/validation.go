// Package validation holds the input checks run before mutating operations.
//
// Every check in a profile runs and reports independently, in a fixed order,
// so an empty password yields both the length and the emptiness violation.
package validation

import (
	"blog/internal/apperr"

	"github.com/go-playground/validator/v10"
)

const (
	MinPasswordLength = 8
	MinTitleLength    = 5
	MinContentLength  = 5
)

var validate = validator.New()

type check struct {
	field   string
	value   string
	tag     string
	message string
}

func run(checks []check) []apperr.Violation {
	var violations []apperr.Violation
	for _, c := range checks {
		if err := validate.Var(c.value, c.tag); err != nil {
			violations = append(violations, apperr.Violation{Field: c.field, Message: c.message})
		}
	}
	return violations
}

// Registration checks the email and password of a new account.
func Registration(email, password string) []apperr.Violation {
	return run([]check{
		{field: "email", value: email, tag: "email", message: "Invalid email"},
		{field: "password", value: password, tag: "min=8", message: "Password at least 8 characters"},
		{field: "password", value: password, tag: "required", message: "Password can't be empty"},
	})
}

// Post checks a post payload. Create and update share it.
func Post(title, content, imageURL string) []apperr.Violation {
	return run([]check{
		{field: "title", value: title, tag: "required", message: "Title can't be empty"},
		{field: "title", value: title, tag: "min=5", message: "Title at least 5 characters"},
		{field: "content", value: content, tag: "required", message: "Content can't be empty"},
		{field: "content", value: content, tag: "min=5", message: "Content at least 5 characters"},
		{field: "imageUrl", value: imageURL, tag: "required", message: "Invalid image URL"},
	})
}

// Failed returns nil for an empty list, otherwise a 422 error carrying it.
func Failed(message string, violations []apperr.Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return apperr.Validation(message, violations)
}
