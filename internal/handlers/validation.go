package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseValidationErrors converts validator errors to user-friendly format
func ParseValidationErrors(err error) []ValidationError {
	var result []ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			result = append(result, ValidationError{
				Field:   fieldError.Field(),
				Message: getErrorMessage(fieldError),
			})
		}
	}

	return result
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		if isCollection(fe) {
			return fe.Field() + " must have at least " + fe.Param() + " entries"
		}
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		if isCollection(fe) {
			return fe.Field() + " must not have more than " + fe.Param() + " entries"
		}
		return fe.Field() + " must not exceed " + fe.Param() + " characters"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "datetime":
		return fe.Field() + " must be a time in HH:MM format"
	default:
		return fe.Field() + " is invalid"
	}
}

func isCollection(fe validator.FieldError) bool {
	switch fe.Kind().String() {
	case "slice", "map", "array":
		return true
	}
	return false
}
