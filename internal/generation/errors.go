package generation

import "errors"

var (
	ErrValidation  = errors.New("validation failed")
	ErrPersistence = errors.New("persistence failed")
	ErrInvocation  = errors.New("generation function failed")
	// ErrEnhancement is logged only; the function proceeds without enhancement.
	ErrEnhancement = errors.New("enhancement failed")
)
