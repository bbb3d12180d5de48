package core_test

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"go.uber.org/multierr"

	"github.com/toejough/impstub/internal/core"
)

func TestMessageReceived_ExpectationBeforeStub(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	obj := newSpeaker()
	proxy := core.NewSpace().ProxyFor(obj)
	proxy.AddStub("here", "speak", core.Options{Returns: []any{"stub"}}, nil)
	expectation := proxy.AddExpectation("here", "speak", core.Options{Returns: []any{"expected"}}, nil)

	g.Expect(obj.Send("speak")).To(Equal([]any{"expected"}))
	g.Expect(obj.Send("speak")).To(Equal([]any{"stub"}), "saturated expectations yield to stubs")

	g.Expect(expectation.ActualCount()).To(Equal(2), "the expectation still counts the over-call")
	g.Expect(proxy.Verify()).To(MatchError(core.ErrExpectationFailed))
}

func TestMessageReceived_OverCallWithoutStubFails(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	obj := newSpeaker()
	core.NewSpace().ProxyFor(obj).AddExpectation("here", "speak", core.Options{}, nil)

	_, err := obj.Send("speak")
	g.Expect(err).NotTo(HaveOccurred())

	_, err = obj.Send("speak")
	g.Expect(err).To(MatchError(core.ErrExpectationFailed))
	g.Expect(err).To(MatchError(ContainSubstring("received: 2 times")))
}

func TestMessageReceived_NegativeExpectationShortCircuits(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	obj := newSpeaker()
	proxy := core.NewSpace().ProxyFor(obj)
	proxy.AddStub("here", "speak", core.Options{Returns: []any{"ok"}}, nil)
	proxy.AddNegativeExpectation("here", "speak", nil).WithArgs(13)

	g.Expect(obj.Send("speak", 1)).To(Equal([]any{"ok"}))

	_, err := obj.Send("speak", 13)
	g.Expect(err).To(MatchError(core.ErrExpectationFailed))
	g.Expect(err).To(MatchError(ContainSubstring("expected: exactly 0 times")))
	g.Expect(proxy.Verify()).To(MatchError(core.ErrExpectationFailed))
}

func TestMessageReceived_ArgumentMatchers(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	obj := newSpeaker()
	proxy := core.NewSpace().ProxyFor(obj)
	proxy.AddStub("here", "speak", core.Options{}, nil).AndReturn("any")
	proxy.AddStub("here", "speak", core.Options{}, nil).WithArgs(BeNumerically(">", 10)).AndReturn("big")
	proxy.AddStub("here", "speak", core.Options{Args: []any{}}, nil).AndReturn("none")

	g.Expect(obj.Send("speak")).To(Equal([]any{"none"}))
	g.Expect(obj.Send("speak", 11)).To(Equal([]any{"big"}))
	g.Expect(obj.Send("speak", 1)).To(Equal([]any{"any"}))
	g.Expect(obj.Send("speak", "words")).To(Equal([]any{"any"}), "matcher errors count as mismatches")
}

func TestMessageReceived_NoMatchingRecord(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	obj := newSpeaker()
	core.NewSpace().ProxyFor(obj).AddStub("here", "speak", core.Options{Args: []any{"only"}}, nil)

	_, err := obj.Send("speak", "other")

	var unexpected *core.UnexpectedMessageError
	g.Expect(errors.As(err, &unexpected)).To(BeTrue())
	g.Expect(unexpected.Method).To(Equal("speak"))
	g.Expect(unexpected.Args).To(Equal([]any{"other"}))
	g.Expect(err).To(MatchError(ContainSubstring(`:speak with ("other")`)))
}

func TestMessageReceived_ImplementationGetsReceiverAndArgs(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	obj := newSpeaker()

	var seen *core.Object

	core.NewSpace().ProxyFor(obj).AddStub("here", "speak", core.Options{}, func(self *core.Object, args ...any) ([]any, error) {
		seen = self

		return []any{len(args)}, nil
	})

	g.Expect(obj.Send("speak", "a", "b")).To(Equal([]any{2}))
	g.Expect(seen).To(BeIdenticalTo(obj))
}

func TestMessageReceived_OrderGroupConsulted(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	errOutOfOrder := errors.New("out of order")
	ordering := &countingOrder{allowed: 1, err: errOutOfOrder}

	obj := newSpeaker()
	core.NewSpace(core.WithOrderGroup(ordering)).ProxyFor(obj).AddStub("here", "speak", core.Options{}, nil)

	_, err := obj.Send("speak")
	g.Expect(err).NotTo(HaveOccurred())

	_, err = obj.Send("speak")
	g.Expect(err).To(MatchError(errOutOfOrder))
}

func TestProxy_VerifyCombinesDoubles(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	class := core.NewClass("Pair", nil)
	class.Define("left", core.Public, returning("l"))
	class.Define("right", core.Public, returning("r"))

	proxy := core.NewSpace().ProxyFor(core.NewObject(class))
	proxy.AddExpectation("here", "left", core.Options{}, nil)
	proxy.AddExpectation("here", "right", core.Options{}, nil)

	err := proxy.Verify()

	g.Expect(multierr.Errors(err)).To(HaveLen(2))
	g.Expect(err).To(MatchError(ContainSubstring("left")))
	g.Expect(err).To(MatchError(ContainSubstring("right")))
}

func TestProxy_RemoveStubUnknownMethod(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	proxy := core.NewSpace().ProxyFor(newSpeaker())

	g.Expect(proxy.RemoveStub("speak")).To(MatchError(core.ErrMethodNotStubbed))
}

func TestProxy_MethodDoubleForReusesDouble(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	obj := newSpeaker()
	proxy := core.NewSpace().ProxyFor(obj)

	g.Expect(proxy.MethodDoubleFor("speak")).To(BeIdenticalTo(proxy.MethodDoubleFor("speak")))
	g.Expect(proxy.Object()).To(BeIdenticalTo(obj))
	g.Expect(proxy.OriginalMethod("speak")()).To(Equal([]any{"hi"}))
}

func TestProxy_ResetRestoresEveryDouble(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	class := core.NewClass("Pair", nil)
	class.Define("left", core.Public, returning("l"))
	class.Define("right", core.Public, returning("r"))

	obj := core.NewObject(class)
	proxy := core.NewSpace().ProxyFor(obj)
	proxy.AddStub("here", "left", core.Options{Returns: []any{"L"}}, nil)
	proxy.AddStub("here", "right", core.Options{Returns: []any{"R"}}, nil)

	proxy.Reset()

	g.Expect(obj.Send("left")).To(Equal([]any{"l"}))
	g.Expect(obj.Send("right")).To(Equal([]any{"r"}))
}

type countingOrder struct {
	allowed int
	seen    int
	err     error
}

func (c *countingOrder) Handle(core.Record) error {
	c.seen++
	if c.seen > c.allowed {
		return c.err
	}

	return nil
}
