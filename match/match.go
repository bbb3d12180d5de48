// Package match provides argument matchers for impstub's WithArgs.
// They mix freely with gomega matchers:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    "github.com/toejough/impstub/match"
//	)
//
//	impstub.Allow(t, calc, "Add").WithArgs(BeNumerically(">", 0), match.BeAny).AndReturn(42)
package match

import (
	"errors"
	"fmt"

	"github.com/toejough/impstub/internal/core"
)

// errTypeMismatch is a sentinel error for type assertion failures.
var errTypeMismatch = errors.New("type mismatch")

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing.
type Matcher = core.Matcher

// BeAny is a matcher that matches any value.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = anyMatcher{}

// BeInstanceOf matches an *impstub.Object whose class is class or descends from it.
func BeInstanceOf(class *core.Class) Matcher {
	return instanceMatcher{class: class}
}

// Satisfy returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
//
// Example:
//
//	impstub.Expect(t, calc, "Add").WithArgs(match.Satisfy(func(x int) error {
//	    if x < 0 { return fmt.Errorf("expected positive, got %d", x) }
//	    return nil
//	}), match.BeAny)
func Satisfy[T any](predicate func(T) error) Matcher {
	return &satisfyMatcher[T]{predicate: predicate}
}

type anyMatcher struct{}

func (anyMatcher) FailureMessage(any) string {
	return ""
}

func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

type instanceMatcher struct {
	class *core.Class
}

func (m instanceMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected an instance of %s, got %v", m.class.Name(), actual)
}

func (m instanceMatcher) Match(actual any) (bool, error) {
	obj, ok := actual.(*core.Object)
	if !ok {
		return false, fmt.Errorf("%w: expected *impstub.Object, got %T", errTypeMismatch, actual)
	}

	return obj.Class().IsA(m.class), nil
}

type satisfyMatcher[T any] struct {
	predicate func(T) error
	lastErr   error
}

func (m *satisfyMatcher[T]) FailureMessage(actual any) string {
	if m.lastErr != nil {
		return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, m.lastErr)
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m *satisfyMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)

	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	m.lastErr = m.predicate(val)

	return m.lastErr == nil, nil
}
