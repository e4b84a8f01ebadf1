package statemachine

import "errors"

var (
	ErrNilState     = errors.New("statemachine: state cannot be nil")
	ErrNilPredicate = errors.New("statemachine: predicate cannot be nil")
)

// isNil reports whether s is a nil interface value. Only state types that are
// interfaces can be nil.
func isNil[S comparable](s S) bool {
	return any(s) == nil
}

// mustState panics with ErrNilState for nil interface states, before any lock
// is taken.
func mustState[S comparable](states ...S) {
	for _, s := range states {
		if isNil(s) {
			panic(ErrNilState)
		}
	}
}
