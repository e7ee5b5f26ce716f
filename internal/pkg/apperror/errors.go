// Package apperror defines the expected, client-facing failures of the
// marketplace and how they map onto HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FieldError describes a single invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned for malformed or missing input
type ValidationError struct {
	Fields []FieldError
}

// NewValidation builds a ValidationError for one field
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// MissingFields builds a ValidationError naming every required field that is absent
func MissingFields(fields ...string) *ValidationError {
	verr := &ValidationError{}
	for _, f := range fields {
		verr.Fields = append(verr.Fields, FieldError{Field: f, Message: "field is required"})
	}
	return verr
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldNames returns the names of the offending fields in order
func (e *ValidationError) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return names
}

// NotFoundError is returned when a referenced record does not exist or is
// outside the caller's scope
type NotFoundError struct {
	Resource string
	ID       any
}

// NewNotFound builds a NotFoundError
func NewNotFound(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

// InsufficientStockError carries the quantity that can still be fulfilled
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	if e.Available <= 0 {
		return "insufficient stock: none left"
	}
	return fmt.Sprintf("insufficient stock: only %d left", e.Available)
}

// OutOfStockError is returned when a size-tracked product has no size in stock
type OutOfStockError struct {
	ProductID uint
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product %d is out of stock in every size (0 left)", e.ProductID)
}

// EmptyCartError is returned when checkout is attempted on an empty cart
type EmptyCartError struct{}

func (e *EmptyCartError) Error() string {
	return "cart is empty"
}

// ConflictError is returned when a unique business constraint would be broken
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// ForbiddenError is returned when the caller may not touch the resource
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// HTTPStatus maps an error onto the status code surfaced at the request boundary
func HTTPStatus(err error) int {
	var (
		validation   *ValidationError
		notFound     *NotFoundError
		insufficient *InsufficientStockError
		outOfStock   *OutOfStockError
		emptyCart    *EmptyCartError
		conflict     *ConflictError
		forbidden    *ForbiddenError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation),
		errors.As(err, &insufficient),
		errors.As(err, &outOfStock),
		errors.As(err, &emptyCart):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// IsExpected reports whether err is one of the recoverable domain failures
func IsExpected(err error) bool {
	return err != nil && HTTPStatus(err) != http.StatusInternalServerError
}
