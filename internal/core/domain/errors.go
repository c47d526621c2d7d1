package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ============================================================================
// Lookup Errors
// ============================================================================

var (
	ErrNotFound        = errors.New("not found")
	ErrAmbiguousResult = errors.New("received too many results")
)

// ============================================================================
// API Errors
// ============================================================================

var (
	ErrConflict           = errors.New("conflict")
	ErrMissingCredentials = errors.New("issuer id, key id and private key are required")
)

// ============================================================================
// Build Processing Errors
// ============================================================================

var (
	ErrBuildProcessing   = errors.New("build processing failed")
	ErrProcessingTimeout = errors.New("timed out waiting for processing to complete")
)

// Validation errors
var (
	ErrInvalidVersionString = errors.New("invalid version string")
	ErrInvalidPlatform      = errors.New("invalid platform")
	ErrDuplicateLocale      = errors.New("locale listed more than once")
)

// LookupError reports a filtered query that did not return exactly one result.
type LookupError struct {
	Resource string
	Criteria string
	Count    int
}

func (e *LookupError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("%s not found for %s", e.Resource, e.Criteria)
	}
	return fmt.Sprintf("received too many results (%d) for %s with %s", e.Count, e.Resource, e.Criteria)
}

func (e *LookupError) Unwrap() error {
	if e.Count == 0 {
		return ErrNotFound
	}
	return ErrAmbiguousResult
}

// ExpectOne enforces the exactly-one-match rule of every lookup.
func ExpectOne(resource, criteria string, count int) error {
	if count == 1 {
		return nil
	}
	return &LookupError{Resource: resource, Criteria: criteria, Count: count}
}

// APIError is a response with status >= 400.
type APIError struct {
	Op         string
	StatusCode int
	Details    []string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: status code %d", e.Op, e.StatusCode)
	if len(e.Details) > 0 {
		msg += ": " + strings.Join(e.Details, "; ")
	}
	return msg
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// DetailsMention reports whether every detail message mentions s.
func (e *APIError) DetailsMention(s string) bool {
	if len(e.Details) == 0 {
		return false
	}
	for _, d := range e.Details {
		if !strings.Contains(d, s) {
			return false
		}
	}
	return true
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// ProcessingError reports a build that ended in a failed state or was not processed in time.
type ProcessingError struct {
	State   ProcessingState
	Message string
	Timeout bool
}

func (e *ProcessingError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("build processing %s: %s", e.State, e.Message)
	}
	return fmt.Sprintf("build processing %s", e.State)
}

func (e *ProcessingError) Is(target error) bool {
	switch target {
	case ErrBuildProcessing:
		return true
	case ErrProcessingTimeout:
		return e.Timeout
	}
	return false
}
