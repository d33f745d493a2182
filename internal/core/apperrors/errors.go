// Package apperrors defines the typed failures shared by the courier transport,
// the shipment lifecycle, the product sync and the status definition cache.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ConfigurationError reports missing credentials or settings. Not retried.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("courier configuration incomplete: missing %s", strings.Join(e.Missing, ", "))
}

// ConnectionError reports a transport or protocol failure reaching the courier.
// The remote operation may or may not have happened.
type ConnectionError struct {
	Operation string
	Err       error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("courier %s: connection failed: %v", e.Operation, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// APIError is a structured error code returned by the courier.
type APIError struct {
	Operation string
	Code      int
	Message   string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("courier %s rejected the request (code %d): %s", e.Operation, e.Code, e.Reason())
	if e.Message != "" {
		msg += " (" + e.Message + ")"
	}
	return msg
}

// Reason returns the human explanation of the courier error code.
func (e *APIError) Reason() string {
	return CodeReason(e.Code)
}

// CodeReason maps a courier error code to its meaning.
func CodeReason(code int) string {
	switch code {
	case 1:
		return "invalid courier credentials"
	case 2, 3, 10, 11:
		return "incomplete or invalid recipient information"
	case 4:
		return "invalid recipient area code"
	case 5:
		return "recipient area not served"
	case 6:
		return "invalid recipient phone"
	case 7, 8:
		return "product does not belong to this account"
	case 9:
		return "product is not registered with the courier"
	case 12:
		return "relabeling is not allowed for this shipment"
	default:
		return "unknown courier error"
	}
}

// ValidationError reports a local precondition that failed before any remote call,
// or an empty remote history for a voucher.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConflictError reports a voucher already held by another order.
type ConflictError struct {
	Voucher string
	OrderID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("voucher %s is already assigned to order #%s", e.Voucher, e.OrderID)
}

// UnsupportedError reports a state that should be unreachable. It is surfaced, never repaired.
type UnsupportedError struct {
	Message string
}

func (e *UnsupportedError) Error() string {
	return "unsupported state: " + e.Message
}

// NotFoundError reports a status definition code missing even after a forced refresh.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// PersistenceError reports a failed local metadata write or delete.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return e.Op + " failed"
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// HTTPStatus maps an error of the taxonomy onto an HTTP status code.
func HTTPStatus(err error) int {
	var (
		cfgErr      *ConfigurationError
		connErr     *ConnectionError
		apiErr      *APIError
		validErr    *ValidationError
		conflictErr *ConflictError
		unsupErr    *UnsupportedError
		notFoundErr *NotFoundError
	)
	switch {
	case errors.As(err, &validErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &conflictErr):
		return http.StatusConflict
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	case errors.As(err, &connErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &cfgErr), errors.As(err, &unsupErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
