// errors/directory_errors.go
package errors

import "fmt"

var (
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrGroupNotFound    = fmt.Errorf("group %w", ErrNotFound)
	ErrResourceNotFound = fmt.Errorf("resource %w", ErrNotFound)

	ErrUserConflict     = fmt.Errorf("user already exists: %w", ErrConflict)
	ErrGroupConflict    = fmt.Errorf("group already exists: %w", ErrConflict)
	ErrResourceConflict = fmt.Errorf("resource already exists: %w", ErrConflict)

	ErrInvalidUserData     = fmt.Errorf("invalid user data: %w", ErrInvalidInput)
	ErrInvalidGroupData    = fmt.Errorf("invalid group data: %w", ErrInvalidInput)
	ErrInvalidResourceData = fmt.Errorf("invalid resource data: %w", ErrInvalidInput)
	ErrInvalidResourceType = fmt.Errorf("invalid resource type: %w", ErrInvalidInput)
	ErrPortalManagedUser   = fmt.Errorf("user is managed by the portal: %w", ErrInvalidInput)
)
