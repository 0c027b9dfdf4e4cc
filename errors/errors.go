// errors/errors.go
package errors

import "errors"

// Taxonomy roots. Entity errors below wrap one of these so callers can
// branch on either level with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidPermission = errors.New("invalid permission")
	ErrConflict          = errors.New("conflict")
	ErrUnavailable       = errors.New("service unavailable")
	ErrInvalidInput      = errors.New("invalid input")
)

var (
	ErrDatabaseOperation = errors.New("database operation failed")
	ErrInternalServer    = errors.New("internal server error")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidPagination = errors.New("invalid pagination parameters")
)
