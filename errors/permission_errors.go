// errors/permission_errors.go
package errors

import "fmt"

var (
	ErrProfileNotFound     = fmt.Errorf("profile %w", ErrNotFound)
	ErrProfileConflict     = fmt.Errorf("profile already exists: %w", ErrConflict)
	ErrProfileLocked       = fmt.Errorf("profile is being edited or published: %w", ErrConflict)
	ErrInvalidProfileData  = fmt.Errorf("invalid profile data: %w", ErrInvalidInput)
	ErrProfileNotPublished = fmt.Errorf("published profile %w", ErrNotFound)

	ErrInvalidPrincipal     = fmt.Errorf("invalid principal: %w", ErrInvalidInput)
	ErrInvalidGrantData     = fmt.Errorf("invalid grant data: %w", ErrInvalidInput)
	ErrChangeLogUnavailable = fmt.Errorf("change log: %w", ErrUnavailable)
	ErrInvalidSort          = fmt.Errorf("invalid sort: %w", ErrInvalidInput)
	ErrInvalidDateRange     = fmt.Errorf("invalid date range: %w", ErrInvalidInput)
)
