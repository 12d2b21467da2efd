// Package response maps domain errors onto the HTTP surface. A submission
// either fully records or fully fails; the reason string here is the only
// thing a client sees on failure.
package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	// ErrInvalidAnswerShape is returned when a vote body carries zero or
	// more than one answer form, or malformed identifiers.
	ErrInvalidAnswerShape = errors.New("invalid answer shape")

	// ErrQuestionNotFound is returned when no question matches the code.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrOptionNotFound is returned when a select-key does not resolve
	// against the question's options.
	ErrOptionNotFound = errors.New("option not found")

	// ErrPoolExhausted is returned when a pooled connection could not be
	// acquired within the configured timeout.
	ErrPoolExhausted = errors.New("connection pool exhausted")

	// ErrStorage wraps unexpected database failures.
	ErrStorage = errors.New("storage error")
)

// StatusCode resolves the HTTP status for a domain error.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAnswerShape):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrOptionNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPoolExhausted),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error writes the standard error body for a domain error.
func Error(c *gin.Context, err error) {
	c.JSON(StatusCode(err), gin.H{"error": err.Error()})
}
