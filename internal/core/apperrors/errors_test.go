package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeReason(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{1, "invalid courier credentials"},
		{2, "incomplete or invalid recipient information"},
		{3, "incomplete or invalid recipient information"},
		{10, "incomplete or invalid recipient information"},
		{11, "incomplete or invalid recipient information"},
		{4, "invalid recipient area code"},
		{5, "recipient area not served"},
		{6, "invalid recipient phone"},
		{7, "product does not belong to this account"},
		{8, "product does not belong to this account"},
		{9, "product is not registered with the courier"},
		{12, "relabeling is not allowed for this shipment"},
		{99, "unknown courier error"},
		{-1, "unknown courier error"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, CodeReason(tt.code))
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Operation: "CreateJob", Code: 6, Message: "bad phone"}
	assert.Equal(t, "courier CreateJob rejected the request (code 6): invalid recipient phone (bad phone)", err.Error())
}

func TestConnectionError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := fmt.Errorf("fetch: %w", &ConnectionError{Operation: "GetStock", Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "dial tcp: timeout")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ValidationError{Field: "R_Name", Message: "missing"}, http.StatusUnprocessableEntity},
		{"conflict", &ConflictError{Voucher: "V1", OrderID: "1"}, http.StatusConflict},
		{"not found", &NotFoundError{Kind: "status definition", Key: "XX"}, http.StatusNotFound},
		{"api", &APIError{Code: 1}, http.StatusBadGateway},
		{"connection", &ConnectionError{Err: errors.New("x")}, http.StatusServiceUnavailable},
		{"configuration", &ConfigurationError{Missing: []string{"CRM"}}, http.StatusInternalServerError},
		{"wrapped conflict", fmt.Errorf("assign: %w", &ConflictError{}), http.StatusConflict},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
