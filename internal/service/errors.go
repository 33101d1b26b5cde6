package service

import "errors"

// Errors shared by every service.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrAccessDenied     = errors.New("access denied")
)
