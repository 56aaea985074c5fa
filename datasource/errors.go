package datasource

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotConfigured is returned when a provider has no API key
	ErrNotConfigured = errors.New("provider not configured")

	// ErrInvalidLocation is returned before any request when the location is empty
	ErrInvalidLocation = errors.New("location not specified")
)

// APIError is a non-200 answer from an upstream weather API
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s API error (status %d)", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// NotFound reports whether the upstream did not know the location
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsNotFound reports whether err is an upstream "unknown location" answer
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.NotFound()
}
