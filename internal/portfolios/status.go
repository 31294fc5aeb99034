package portfolios

import "fmt"

// CanTransitionTo reports whether a record in status s may move to next.
// Terminal states are reached only from generating.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusGenerating
	case StatusGenerating:
		return next == StatusCompleted || next == StatusError
	default:
		return false
	}
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusGenerating, StatusCompleted, StatusError:
		return true
	}
	return false
}

// Transition checks from -> to and returns ErrInvalidTransition when it is not allowed.
func Transition(from, to Status) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
