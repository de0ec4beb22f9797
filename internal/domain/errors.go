package domain

import "errors"

// Sentinel errors for the application. Handlers map these to HTTP status
// codes; the websocket layer maps them to in-band error frames.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("not a participant in this conversation")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrValidation        = errors.New("invalid input")
	ErrConflict          = errors.New("resource already exists")
	ErrInternal          = errors.New("internal server error")
)
