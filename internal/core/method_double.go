package core

import (
	"go.uber.org/zap"
)

// MethodDouble owns one intercepted method slot on one object. It installs a
// shim that forwards calls to the object's proxy, keeps the expectations and
// stubs the proxy matches calls against, and puts the original method back on
// reset.
//
// A MethodDouble is not safe for concurrent use.
type MethodDouble struct {
	object             *Object
	methodName         string
	proxy              *Proxy
	stasher            *methodStasher
	originalMethod     Callable
	originalVisibility Visibility
	proxied            bool
	expectations       []Record
	stubs              []*MessageExpectation
}

// NewMethodDouble creates a double for methodName on object, owned by proxy.
// The original method is resolved once, here.
func NewMethodDouble(object *Object, methodName string, proxy *Proxy) *MethodDouble {
	return &MethodDouble{
		object:         object,
		methodName:     methodName,
		proxy:          proxy,
		stasher:        newMethodStasher(object.Own(), methodName),
		originalMethod: findOriginalMethod(object, methodName),
	}
}

// AddDefaultStub adds a stub only if no stub exists yet, so library-provided
// defaults never shadow stubs declared by the test. It returns nil when
// nothing was added.
func (d *MethodDouble) AddDefaultStub(
	errorGenerator ErrorGenerator,
	ordering OrderGroup,
	expectedFrom string,
	opts Options,
	impl Impl,
) *MessageExpectation {
	if len(d.stubs) > 0 {
		return nil
	}

	return d.AddStub(errorGenerator, ordering, expectedFrom, opts, impl)
}

// AddExpectation appends a positive expectation, exactly once unless opts
// says otherwise.
func (d *MethodDouble) AddExpectation(
	errorGenerator ErrorGenerator,
	ordering OrderGroup,
	expectedFrom string,
	opts Options,
	impl Impl,
) *MessageExpectation {
	d.ConfigureMethod()

	expectation := newMessageExpectation(errorGenerator, ordering, expectedFrom, d, Exactly(1), opts, impl)
	d.expectations = append(d.expectations, expectation)

	return expectation
}

// AddNegativeExpectation puts a must-not-be-called record at the front of
// the expectations, ahead of every positive one.
func (d *MethodDouble) AddNegativeExpectation(
	errorGenerator ErrorGenerator,
	ordering OrderGroup,
	expectedFrom string,
	impl Impl,
) *NegativeMessageExpectation {
	d.ConfigureMethod()

	expectation := newNegativeMessageExpectation(errorGenerator, ordering, expectedFrom, d, impl)
	d.expectations = append([]Record{expectation}, d.expectations...)

	return expectation
}

// AddStub puts an unconstrained record at the front of the stubs: the most
// recently added stub is matched first.
func (d *MethodDouble) AddStub(
	errorGenerator ErrorGenerator,
	ordering OrderGroup,
	expectedFrom string,
	opts Options,
	impl Impl,
) *MessageExpectation {
	d.ConfigureMethod()

	stub := newMessageExpectation(errorGenerator, ordering, expectedFrom, d, AnyNumber(), opts, impl)
	d.stubs = append([]*MessageExpectation{stub}, d.stubs...)

	return stub
}

// BuildExpectation returns an exactly-once record bound to this double
// without adding it anywhere or configuring the method.
func (d *MethodDouble) BuildExpectation(errorGenerator ErrorGenerator, ordering OrderGroup) *MessageExpectation {
	return newMessageExpectation(errorGenerator, ordering, IgnoredBacktraceLine, d, Exactly(1), Options{}, nil)
}

// ConfigureMethod installs the forwarding shim. It does nothing if the shim
// is already installed.
func (d *MethodDouble) ConfigureMethod() {
	if d.proxied {
		return
	}

	d.originalVisibility = d.visibility()
	d.warnIfNil()
	d.stasher.stash()
	d.defineProxyMethod()
	d.proxied = true
}

// Expectations returns the expectations in match order.
func (d *MethodDouble) Expectations() []Record {
	return append([]Record(nil), d.expectations...)
}

// MethodName returns the doubled method's name.
func (d *MethodDouble) MethodName() string {
	return d.methodName
}

// Object returns the object whose method is doubled.
func (d *MethodDouble) Object() *Object {
	return d.object
}

// OriginalMethod returns the behavior the method had when the double was created.
func (d *MethodDouble) OriginalMethod() Callable {
	return d.originalMethod
}

// Proxied reports whether the shim is installed.
func (d *MethodDouble) Proxied() bool {
	return d.proxied
}

// RemoveStub drops every stub. With no expectations left there is nothing to
// intercept, so the original method is restored as well.
func (d *MethodDouble) RemoveStub() error {
	if len(d.stubs) == 0 {
		return &MethodNotStubbedError{Method: d.methodName}
	}

	if len(d.expectations) == 0 {
		d.Reset()
	} else {
		d.stubs = nil
	}

	return nil
}

// Reset restores the original method and clears every record. It is safe to
// call any number of times.
func (d *MethodDouble) Reset() {
	d.resetNilExpectationsWarning()
	d.RestoreOriginalMethod()
	d.clear()
}

// RestoreOriginalMethod removes the shim and puts back what the object's
// exclusive table held before. It does nothing if no shim is installed.
func (d *MethodDouble) RestoreOriginalMethod() {
	if !d.proxied {
		return
	}

	d.object.Own().Remove(d.methodName)
	d.stasher.restore()
	d.restoreOriginalVisibility()

	d.proxied = false
}

// Stubs returns the stubs in match order.
func (d *MethodDouble) Stubs() []*MessageExpectation {
	return append([]*MessageExpectation(nil), d.stubs...)
}

// Verify checks every expectation in order. The first failure is returned as
// the record reported it.
func (d *MethodDouble) Verify() error {
	for _, expectation := range d.expectations {
		if err := expectation.Verify(); err != nil {
			return err
		}
	}

	return nil
}

// Visibility returns the access level the method currently dispatches at.
func (d *MethodDouble) Visibility() Visibility {
	return d.visibility()
}

func (d *MethodDouble) clear() {
	d.expectations = nil
	d.stubs = nil
}

func (d *MethodDouble) defineProxyMethod() {
	name := d.methodName
	space := d.space()

	d.object.Own().Define(name, d.originalVisibility, func(self *Object, args ...any) ([]any, error) {
		return space.ProxyFor(self).MessageReceived(name, args...)
	})
}

func (d *MethodDouble) resetNilExpectationsWarning() {
	if d.object.IsNil() {
		d.space().SetWarnAboutExpectationsOnNil(true)
	}
}

func (d *MethodDouble) restoreOriginalVisibility() {
	d.object.Own().SetVisibility(d.methodName, d.originalVisibility)
}

func (d *MethodDouble) space() *Space {
	return d.proxy.Space()
}

func (d *MethodDouble) visibility() Visibility {
	if d.object.IsTestDouble() {
		return Public
	}

	if vis, ok := d.object.VisibilityOf(d.methodName); ok {
		return vis
	}

	return Public
}

func (d *MethodDouble) warnIfNil() {
	space := d.space()
	if !d.object.IsNil() || !space.WarnAboutExpectationsOnNil() {
		return
	}

	caller := callerLocation()
	space.Logger().Warn(
		"An expectation of :"+d.methodName+" was set on nil. Called from "+caller+
			". Use AllowExpectationsOnNil to disable warnings.",
		zap.String("method", d.methodName),
		zap.String("caller", caller),
	)
}
