package domain

import "errors"

// Error taxonomy shared by the services. Handlers match these with
// errors.Is and translate them to HTTP status codes; storage faults are
// passed through untranslated.
var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
)
