package services

import "errors"

// Sentinel errors returned by the services. Handlers translate these to HTTP
// status codes with errors.Is; anything else is a store failure and surfaces
// as a generic 500.
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email address already exists")
	ErrUsernameTaken      = errors.New("user name already exists")
	ErrUnknownUser        = errors.New("user not found")
)
