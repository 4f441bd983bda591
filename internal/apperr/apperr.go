// Package apperr defines the error taxonomy shared by route handlers.
// Every error here is recovered per-request: validation failures re-render
// the form, the rest become a flash message plus redirect.
package apperr

import "errors"

var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("not found")
	ErrDenied     = errors.New("permission denied")
	ErrRemote     = errors.New("remote service unavailable")
)
