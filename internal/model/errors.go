package model

import "errors"

// Common errors used across the application
var (
	// Member errors
	ErrMemberNotFound = errors.New("member not found")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
)
