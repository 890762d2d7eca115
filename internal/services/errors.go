package services

import (
	"errors"
	"fmt"

	"radiology-app-server/internal/models"
)

// Domain errors surfaced by the service layer. Handlers translate these into
// HTTP responses; anything outside this set is treated as a store/internal
// failure and rendered as a generic message.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrNotFound           = errors.New("scan not found")
	ErrInvalidState       = errors.New("operation not valid for current scan status")
	ErrForbidden          = errors.New("permission denied")
)

// ValidationError marks malformed or missing input. It is user-correctable
// and rendered back to the caller verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// requireRole is the capability check performed at the start of every
// role-gated operation. The caller's principal is always explicit.
func requireRole(p models.Principal, allowed ...models.Role) error {
	for _, role := range allowed {
		if p.Role == role {
			return nil
		}
	}
	return fmt.Errorf("role %q: %w", p.Role, ErrForbidden)
}
