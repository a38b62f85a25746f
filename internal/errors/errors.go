// Package errors provides custom error types and utilities for lfreleng.
//
// This package provides error handling for various operations including:
// - Cloud provider errors (listing, deletion, unsupported operations)
// - Duplicate-name detection for name-based deletes
// - HTTP errors
// - Configuration errors
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error categories for lfreleng operations
var (
	ErrNotFound      = errors.New("resource not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidInput  = errors.New("invalid input")
	ErrNetwork       = errors.New("network error")
	ErrConfiguration = errors.New("configuration error")
	ErrDuplicateName = errors.New("duplicate resource name")
	ErrUnsupported   = errors.New("operation unsupported")
)

// CloudError represents a failed provider operation, carrying the cloud
// name so fatal diagnostics can name it.
type CloudError struct {
	Cloud string
	Op    string
	Err   error
}

func (e *CloudError) Error() string {
	return fmt.Sprintf("cloud %q: %s failed: %v", e.Cloud, e.Op, e.Err)
}

func (e *CloudError) Unwrap() error {
	return e.Err
}

// NewCloudError creates a new cloud provider error
func NewCloudError(cloud, op string, err error) *CloudError {
	return &CloudError{Cloud: cloud, Op: op, Err: err}
}

// DuplicateNameError is returned when a name-based delete resolves to
// more than one resource. The message intentionally reproduces the
// provider SDK wording so operators recognize the condition.
type DuplicateNameError struct {
	Kind string
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("More than one %s exists with the name '%s'", e.Kind, e.Name)
}

func (e *DuplicateNameError) Is(target error) bool {
	return errors.Is(target, ErrDuplicateName)
}

// NewDuplicateNameError creates a new duplicate-name error
func NewDuplicateNameError(kind, name string) *DuplicateNameError {
	return &DuplicateNameError{Kind: kind, Name: name}
}

// UnsupportedError indicates the cloud does not expose an operation,
// e.g. no container-infra endpoint in the service catalog.
type UnsupportedError struct {
	Cloud     string
	Operation string
	Hint      string
}

func (e *UnsupportedError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("cloud %q does not support %s: %s", e.Cloud, e.Operation, e.Hint)
	}
	return fmt.Sprintf("cloud %q does not support %s", e.Cloud, e.Operation)
}

func (e *UnsupportedError) Is(target error) bool {
	return errors.Is(target, ErrUnsupported)
}

// NewUnsupportedError creates a new unsupported-operation error
func NewUnsupportedError(cloud, operation, hint string) *UnsupportedError {
	return &UnsupportedError{Cloud: cloud, Operation: operation, Hint: hint}
}

// ConfigurationError represents configuration-related errors
type ConfigurationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration error in field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func (e *ConfigurationError) Is(target error) bool {
	return errors.Is(target, ErrConfiguration)
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(field, message string, err error) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: message, Err: err}
}

// HTTPError represents an HTTP-related error
type HTTPError struct {
	StatusCode int
	Method     string
	URL        string
	Message    string
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d %s %s: %s", e.StatusCode, e.Method, e.URL, e.Message)
	}
	return fmt.Sprintf("HTTP %d %s %s", e.StatusCode, e.Method, e.URL)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusNotFound:
		return errors.Is(target, ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Is(target, ErrUnauthorized)
	case http.StatusBadRequest:
		return errors.Is(target, ErrInvalidInput)
	default:
		return false
	}
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(statusCode int, method, url, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Method:     method,
		URL:        url,
		Message:    message,
	}
}

// Known provider wordings for the duplicate-name condition. This is the
// only place error-message sniffing is allowed; everything else goes
// through the typed DuplicateNameError.
var duplicateNameMessages = []string{
	"Multiple matches found for",
	"exists with the name",
}

// IsDuplicateName checks if an error represents a duplicate-name
// collision, either as the typed error or as a provider message
// matching one of the known wordings.
func IsDuplicateName(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicateName) {
		return true
	}
	msg := err.Error()
	for _, m := range duplicateNameMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// IsNotFound checks if an error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || IsHTTPStatus(err, http.StatusNotFound)
}

// IsUnsupported checks if an error represents an unsupported operation
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}

// IsUnauthorized checks if an error represents an authorization failure
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		IsHTTPStatus(err, http.StatusUnauthorized) ||
		IsHTTPStatus(err, http.StatusForbidden)
}

// IsHTTPStatus checks if an error represents a specific HTTP status
func IsHTTPStatus(err error, statusCode int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == statusCode
	}
	return false
}
