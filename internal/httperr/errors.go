package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Sentinel errors for every failure class the API can return. Handlers wrap
// these with context via fmt.Errorf("...: %w", Err...) and hand the result to
// Respond, which maps the class to a status code.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateAccount   = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthentication     = errors.New("authentication required")
	ErrAuthorization      = errors.New("not authorized for this role")
	ErrNotFound           = errors.New("not found")
)

// Status returns the HTTP status for err. Anything outside the taxonomy is a
// storage-level failure and maps to 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrDuplicateAccount),
		errors.Is(err, ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuthentication), errors.Is(err, ErrAuthorization):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes the JSON error body for err and aborts the request. Errors
// outside the taxonomy are surfaced as a generic message so persistence
// internals never reach the client.
func Respond(c *gin.Context, err error) {
	status := Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"msg": msg})
}
