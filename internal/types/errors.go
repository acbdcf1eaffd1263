package types

import "errors"

// Domain error taxonomy. Services return these (wrapped with detail);
// the HTTP layer is the only place that maps them to status codes.
var (
	ErrValidation      = errors.New("missing or malformed input")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
	ErrNotFound        = errors.New("requested item not found")
	ErrStorage         = errors.New("storage failure")
)
