package core

import (
	"fmt"
	"reflect"
)

// Matcher defines the interface for flexible argument matching.
// Compatible with gomega.GomegaMatcher via duck typing.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// MatchArgs checks actual call arguments against expected values or matchers.
// It returns nil for a match, or an error describing the first mismatch.
func MatchArgs(actual, expected []any) error {
	if len(actual) != len(expected) {
		//nolint:err113 // validation error with dynamic context
		return fmt.Errorf("expected %d args, got %d", len(expected), len(actual))
	}

	for index, want := range expected {
		ok, msg := MatchValue(actual[index], want)
		if !ok {
			//nolint:err113 // validation error with dynamic context
			return fmt.Errorf("arg %d: %s", index, msg)
		}
	}

	return nil
}

// MatchValue checks if actual matches expected.
// If expected implements Matcher, its Match method decides.
// Otherwise reflect.DeepEqual is used.
func MatchValue(actual, expected any) (bool, string) {
	if matcher, ok := expected.(Matcher); ok {
		success, err := matcher.Match(actual)
		if err != nil {
			return false, err.Error()
		}

		if !success {
			return false, matcher.FailureMessage(actual)
		}

		return true, ""
	}

	if reflect.DeepEqual(actual, expected) {
		return true, ""
	}

	return false, fmt.Sprintf("expected %#v, got %#v", expected, actual)
}
