package core

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Proxy routes intercepted calls on one object to the matching record among
// that object's method doubles.
type Proxy struct {
	object  *Object
	space   *Space
	doubles map[string]*MethodDouble
	order   []string
}

// AddExpectation expects name to be called, exactly once unless opts says otherwise.
func (p *Proxy) AddExpectation(expectedFrom, name string, opts Options, impl Impl) *MessageExpectation {
	return p.MethodDoubleFor(name).AddExpectation(p.space.errorGenerator, p.space.ordering, expectedFrom, opts, impl)
}

// AddNegativeExpectation expects name never to be called.
func (p *Proxy) AddNegativeExpectation(expectedFrom, name string, impl Impl) *NegativeMessageExpectation {
	return p.MethodDoubleFor(name).AddNegativeExpectation(p.space.errorGenerator, p.space.ordering, expectedFrom, impl)
}

// AddStub allows name to be called any number of times.
func (p *Proxy) AddStub(expectedFrom, name string, opts Options, impl Impl) *MessageExpectation {
	return p.MethodDoubleFor(name).AddStub(p.space.errorGenerator, p.space.ordering, expectedFrom, opts, impl)
}

// MessageReceived answers a call that reached an installed shim.
//
// An expectation that still accepts calls wins over stubs. Once it is
// saturated, a matching stub answers instead and the expectation keeps
// counting, so over-calls still fail verification.
func (p *Proxy) MessageReceived(name string, args ...any) ([]any, error) {
	p.space.Logger().Debug("message received",
		zap.Stringer("receiver", p.object),
		zap.String("method", name),
		zap.Int("args", len(args)),
	)

	double, ok := p.doubles[name]
	if !ok {
		return nil, p.space.errorGenerator.UnexpectedMessageError(p.object, name, args)
	}

	expectation := findMatchingExpectation(double.expectations, name, args)
	stub := findMatchingStub(double.stubs, name, args)

	switch {
	case stub != nil && (expectation == nil || expectation.CalledMaxTimes()):
		if expectation != nil {
			expectation.IncreaseActualCount()
		}

		return stub.Invoke(args...)
	case expectation != nil:
		return expectation.Invoke(args...)
	default:
		return nil, p.space.errorGenerator.UnexpectedMessageError(p.object, name, args)
	}
}

// MethodDoubleFor returns the double for name, creating it on first use.
func (p *Proxy) MethodDoubleFor(name string) *MethodDouble {
	if double, ok := p.doubles[name]; ok {
		return double
	}

	double := NewMethodDouble(p.object, name, p)
	p.doubles[name] = double
	p.order = append(p.order, name)

	return double
}

// Object returns the proxied object.
func (p *Proxy) Object() *Object {
	return p.object
}

// OriginalMethod returns name's behavior from before it was doubled.
func (p *Proxy) OriginalMethod(name string) Callable {
	return p.MethodDoubleFor(name).OriginalMethod()
}

// RemoveStub removes every stub for name.
func (p *Proxy) RemoveStub(name string) error {
	double, ok := p.doubles[name]
	if !ok {
		return &MethodNotStubbedError{Method: name}
	}

	return double.RemoveStub()
}

// Reset restores every doubled method.
func (p *Proxy) Reset() {
	for _, name := range p.order {
		p.doubles[name].Reset()
	}
}

// Space returns the space the proxy belongs to.
func (p *Proxy) Space() *Space {
	return p.space
}

// Verify checks every double, in the order they were created, and combines
// the failures.
func (p *Proxy) Verify() error {
	var err error

	for _, name := range p.order {
		err = multierr.Append(err, p.doubles[name].Verify())
	}

	return err
}

func newProxy(object *Object, space *Space) *Proxy {
	return &Proxy{
		object:  object,
		space:   space,
		doubles: make(map[string]*MethodDouble),
	}
}

// findMatchingExpectation prefers the first matching expectation that can
// still take a call, falling back to the first one that matches at all.
func findMatchingExpectation(expectations []Record, name string, args []any) Record {
	var first Record

	for _, expectation := range expectations {
		if !expectation.Matches(name, args...) {
			continue
		}

		if !expectation.CalledMaxTimes() {
			return expectation
		}

		if first == nil {
			first = expectation
		}
	}

	return first
}

func findMatchingStub(stubs []*MessageExpectation, name string, args []any) *MessageExpectation {
	for _, stub := range stubs {
		if stub.Matches(name, args...) {
			return stub
		}
	}

	return nil
}
