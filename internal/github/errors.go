// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package github

import (
	"errors"
	"fmt"
	"strings"
)

// APIError is a non-2xx response from the GitHub REST API. GitHub returns
// structured JSON error bodies with a message, an optional documentation
// URL, and optional field-level validation errors.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Message is the top-level error description from GitHub.
	Message string

	// DocumentationURL points at the relevant API documentation.
	DocumentationURL string

	// Errors holds field-level validation failures, present on 422
	// Unprocessable Entity responses.
	Errors []ValidationError
}

// ValidationError describes one validation failure on a resource field.
type ValidationError struct {
	Resource string `json:"resource"`
	Code     string `json:"code"`
	Field    string `json:"field"`
	Message  string `json:"message"`
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "github: HTTP %d: %s", e.StatusCode, e.Message)
	for _, ve := range e.Errors {
		if ve.Message != "" {
			fmt.Fprintf(&b, "; %s.%s: %s", ve.Resource, ve.Field, ve.Message)
		} else {
			fmt.Fprintf(&b, "; %s.%s: %s", ve.Resource, ve.Field, ve.Code)
		}
	}
	return b.String()
}

// IsNotFound reports whether err is a GitHub 404 Not Found response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// IsConflict reports whether err is a GitHub 409 Conflict response.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 409
}

// IsValidationFailed reports whether err is a GitHub 422 response with
// field-level validation errors. Ref updates that lose a fast-forward
// race also surface as 422.
func IsValidationFailed(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 422
}

// IsRateLimited reports whether err is a GitHub rate limit response.
// GitHub returns 403 for the primary rate limit and 429 for secondary
// (abuse) limits.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == 429 || (apiErr.StatusCode == 403 && isRateLimitMessage(apiErr.Message))
}

// isRateLimitMessage distinguishes a rate-limit 403 from a permission
// 403 by the recognizable phrases GitHub uses.
func isRateLimitMessage(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "abuse detection")
}
