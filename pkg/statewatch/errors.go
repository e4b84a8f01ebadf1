package statewatch

import (
	"errors"
	"fmt"
)

var (
	ErrNilPredicate   = errors.New("statewatch: predicate cannot be nil")
	ErrPredicatePanic = errors.New("statewatch: predicate panicked")
)

// PredicateError reports a predicate that panicked while being evaluated.
// It matches ErrPredicatePanic with errors.Is.
type PredicateError struct {
	Value any
}

func (e *PredicateError) Error() string {
	return fmt.Sprintf("statewatch: predicate panicked: %v", e.Value)
}

func (e *PredicateError) Unwrap() error {
	return ErrPredicatePanic
}

// IsPredicatePanic reports whether err was caused by a panicking predicate.
func IsPredicatePanic(err error) bool {
	var e *PredicateError
	return errors.As(err, &e)
}
