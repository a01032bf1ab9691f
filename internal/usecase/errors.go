package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnknownProcess        = errors.New("unknown process")
	ErrNoModel               = errors.New("no model loaded")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
