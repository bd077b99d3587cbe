package mapper

import "errors"

var (
	// ErrNotConfigured is returned when no map exists for a type pair.
	ErrNotConfigured = errors.New("no map configured")
	// ErrTransformNotFound is returned when a rule names an unregistered transform.
	ErrTransformNotFound = errors.New("transform not found")
	// ErrInvalidConfiguration is returned when a map cannot be resolved or compiled.
	ErrInvalidConfiguration = errors.New("invalid mapper configuration")
)
