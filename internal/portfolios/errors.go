package portfolios

import "errors"

var (
	ErrNotFound          = errors.New("portfolio not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid status transition")
)
