package models

import "errors"

// Sentinel errors for the domain error taxonomy. Services wrap these with
// fmt.Errorf("%w: ...") and the HTTP layer maps them to status codes with
// errors.Is. Anything that does not match is an internal failure.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)
