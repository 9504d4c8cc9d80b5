package service

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"employee_manager/internal/model"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMissingFields      = errors.New("please provide all required fields")
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("not authorized")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrInvalidEmployeeID  = errors.New("invalid employee id")
	ErrInvalidStatus      = errors.New("status must be 'active' or 'inactive'")
)

// ValidationError lists the fields that failed validation
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, field := range names {
		parts = append(parts, fmt.Sprintf("%s %s", field, e.Fields[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// newValidationError converts validator output into a ValidationError keyed by JSON field name
func newValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "is required"
		case "gender":
			fields[fe.Field()] = "must be one of: " + strings.Join(model.Genders, ", ")
		case "oneof":
			fields[fe.Field()] = "must be one of: " + fe.Param()
		case "max":
			fields[fe.Field()] = "must be at most " + fe.Param() + " characters"
		default:
			fields[fe.Field()] = "is invalid"
		}
	}
	return &ValidationError{Fields: fields}
}

// jsonFieldName reports validation failures under the JSON field name
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}
