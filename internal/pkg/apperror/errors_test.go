package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", MissingFields("first_name"), http.StatusBadRequest},
		{"insufficient stock", &InsufficientStockError{Available: 2}, http.StatusBadRequest},
		{"out of stock", &OutOfStockError{ProductID: 7}, http.StatusBadRequest},
		{"empty cart", &EmptyCartError{}, http.StatusBadRequest},
		{"not found", NewNotFound("order", 9), http.StatusNotFound},
		{"conflict", &ConflictError{Message: "already reviewed"}, http.StatusConflict},
		{"forbidden", &ForbiddenError{Message: "not yours"}, http.StatusForbidden},
		{"wrapped", fmt.Errorf("checkout: %w", &EmptyCartError{}), http.StatusBadRequest},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestStockErrorsReportRemainingQuantity(t *testing.T) {
	assert.Equal(t, "insufficient stock: only 2 left", (&InsufficientStockError{Available: 2}).Error())
	assert.Equal(t, "insufficient stock: none left", (&InsufficientStockError{}).Error())
	assert.Contains(t, (&OutOfStockError{ProductID: 3}).Error(), "0 left")
}

func TestMissingFieldsNamesEveryField(t *testing.T) {
	err := MissingFields("first_name", "last_name")

	assert.Equal(t, []string{"first_name", "last_name"}, err.FieldNames())
	assert.Contains(t, err.Error(), "first_name")
	assert.Contains(t, err.Error(), "last_name")
	assert.True(t, IsExpected(err))
	assert.False(t, IsExpected(errors.New("boom")))
}
