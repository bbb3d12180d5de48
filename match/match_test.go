package match_test

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/toejough/impstub"
	"github.com/toejough/impstub/match"
)

func TestBeAny(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(match.BeAny.Match(42)).To(BeTrue())
	g.Expect(match.BeAny.Match(nil)).To(BeTrue())
	g.Expect(match.BeAny.FailureMessage(42)).To(BeEmpty())
}

func TestSatisfy_MatchFailure(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	matcher := match.Satisfy(func(val int) error {
		if val <= 10 {
			return errors.New("must be greater than 10")
		}

		return nil
	})

	g.Expect(matcher.Match(5)).To(BeFalse())
	g.Expect(matcher.FailureMessage(5)).To(Equal("value 5 does not satisfy predicate: must be greater than 10"))
	g.Expect(matcher.Match(11)).To(BeTrue())
}

func TestSatisfy_TypeMismatch(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ok, err := match.Satisfy(func(int) error { return nil }).Match("nope")

	g.Expect(ok).To(BeFalse())
	g.Expect(err).To(MatchError(ContainSubstring("type mismatch")))
}

func TestBeInstanceOf(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	animal := impstub.NewClass("Animal", nil)
	dog := impstub.NewClass("Dog", animal)
	rock := impstub.NewClass("Rock", nil)

	matcher := match.BeInstanceOf(animal)

	g.Expect(matcher.Match(impstub.NewObject(dog))).To(BeTrue())
	g.Expect(matcher.Match(impstub.NewObject(rock))).To(BeFalse())
	g.Expect(matcher.FailureMessage("x")).To(ContainSubstring("Animal"))

	_, err := matcher.Match(3)
	g.Expect(err).To(MatchError(ContainSubstring("type mismatch")))
}

// TestMatchers_InArgumentConstraints runs the matchers through a stub's
// argument constraint.
func TestMatchers_InArgumentConstraints(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	class := impstub.NewClass("Kennel", nil)
	class.Define("admit", impstub.Public, func(*impstub.Object, ...any) ([]any, error) {
		return []any{"closed"}, nil
	})

	kennel := impstub.NewObject(class)
	dog := impstub.NewClass("Dog", nil)

	impstub.Allow(t, kennel, "admit").WithArgs(match.BeInstanceOf(dog), match.BeAny).AndReturn("welcome")

	g.Expect(kennel.Send("admit", impstub.NewObject(dog), 3)).To(Equal([]any{"welcome"}))

	_, err := kennel.Send("admit", "cat", 3)
	g.Expect(err).To(MatchError(impstub.ErrUnexpectedMessage))
}
