package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors
	ErrMissingToken     = errors.New("missing token")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenMalformed   = errors.New("token malformed")
	ErrInvalidSignature = errors.New("invalid token signature")

	// Hash related errors
	ErrInvalidHashFormat = errors.New("invalid password hash format")

	// Store related errors
	ErrStoreUnavailable = errors.New("credential store unavailable")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
