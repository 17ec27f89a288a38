package quotes

import "errors"

var (
	ErrNotFound      = errors.New("quote not found")
	ErrValidation    = errors.New("validation error")
	ErrInvalidStatus = errors.New("invalid quote status")
)
