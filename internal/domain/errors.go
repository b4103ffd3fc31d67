package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

// Validation errors
var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidAge         = errors.New("age must be a non-negative integer")
	ErrEmptyPost          = errors.New("title and content are required")
)
