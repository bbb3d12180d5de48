package impstub

import (
	"go.uber.org/zap"

	"github.com/toejough/impstub/internal/core"
)

// SpaceFor returns the Space for the given test, creating one if needed.
// With *testing.T the Space verifies and resets itself when the test ends.
func SpaceFor(t TestReporter, opts ...Option) *Space {
	return core.SpaceFor(t, opts...)
}

// Verify fails the test if any expectation registered under t is unmet.
func Verify(t TestReporter) {
	t.Helper()
	core.Verify(t)
}

// Reset restores every method doubled under t.
func Reset(t TestReporter) {
	core.Reset(t)
}

// WithLogger sets where diagnostics go.
func WithLogger(logger *zap.Logger) Option {
	return core.WithLogger(logger)
}

// Allow stubs name on obj for the rest of the test: any number of calls,
// answered with AndReturn values or an implementation set via Options.
func Allow(t TestReporter, obj *Object, name string) *MessageExpectation {
	return SpaceFor(t).ProxyFor(obj).AddStub(core.CallerLocation(), name, Options{}, nil)
}

// AllowWith stubs name on obj with impl as its body.
func AllowWith(t TestReporter, obj *Object, name string, impl Impl) *MessageExpectation {
	return SpaceFor(t).ProxyFor(obj).AddStub(core.CallerLocation(), name, Options{}, impl)
}

// Expect requires name to be called on obj exactly once before the test ends.
// Adjust the count with Times.
func Expect(t TestReporter, obj *Object, name string) *MessageExpectation {
	return SpaceFor(t).ProxyFor(obj).AddExpectation(core.CallerLocation(), name, Options{}, nil)
}

// ExpectNot requires that name is never called on obj.
func ExpectNot(t TestReporter, obj *Object, name string) *NegativeMessageExpectation {
	return SpaceFor(t).ProxyFor(obj).AddNegativeExpectation(core.CallerLocation(), name, nil)
}

// Unstub removes the stubs for name on obj, restoring the original method if
// nothing else intercepts it.
func Unstub(t TestReporter, obj *Object, name string) error {
	return SpaceFor(t).ProxyFor(obj).RemoveStub(name)
}
