// Package impstub provides method interception for Go test doubles.
// It replaces one method of one object with a shim, records the stubs and
// expectations the shim answers from, verifies them when the test ends and
// restores the original method.
//
// This is the public API entry point. Implementation lives in internal/core.
package impstub

import (
	"github.com/toejough/impstub/internal/core"
)

// AnyInstanceRecorder intercepts a method across every instance of a class.
type AnyInstanceRecorder = core.AnyInstanceRecorder

// Callable is a method bound to its receiver.
type Callable = core.Callable

// Class is a named method table with an optional superclass.
type Class = core.Class

// NewClass creates a class. super may be nil for a root class.
func NewClass(name string, super *Class) *Class {
	return core.NewClass(name, super)
}

// CountSpec constrains how many times a record may or must be invoked.
type CountSpec = core.CountSpec

// AnyNumber allows any number of calls, including none.
func AnyNumber() CountSpec {
	return core.AnyNumber()
}

// AtLeast requires n or more calls.
func AtLeast(n int) CountSpec {
	return core.AtLeast(n)
}

// AtMost allows up to n calls.
func AtMost(n int) CountSpec {
	return core.AtMost(n)
}

// Exactly requires exactly n calls.
func Exactly(n int) CountSpec {
	return core.Exactly(n)
}

// Never requires that no call is made.
func Never() CountSpec {
	return core.Never()
}

// DefaultErrorGenerator produces ExpectationError values.
type DefaultErrorGenerator = core.DefaultErrorGenerator

// ErrorGenerator builds the errors records and proxies report.
type ErrorGenerator = core.ErrorGenerator

// ExpectationError reports a record whose call-count constraint failed.
type ExpectationError = core.ExpectationError

// Impl is a method body.
type Impl = core.Impl

// Matcher defines the interface for flexible argument matching.
type Matcher = core.Matcher

// MessageExpectation is a positive record: an expectation or a stub.
type MessageExpectation = core.MessageExpectation

// MethodDouble owns one intercepted method slot on one object.
type MethodDouble = core.MethodDouble

// NewMethodDouble creates a double for methodName on object, owned by proxy.
func NewMethodDouble(object *Object, methodName string, proxy *Proxy) *MethodDouble {
	return core.NewMethodDouble(object, methodName, proxy)
}

// MethodNotStubbedError reports an attempt to remove a stub that is not there.
type MethodNotStubbedError = core.MethodNotStubbedError

// MethodTable maps method names to their implementations.
type MethodTable = core.MethodTable

// NegativeMessageExpectation is a record that must not be called.
type NegativeMessageExpectation = core.NegativeMessageExpectation

// NoMethodError reports a call to a method an object does not define.
type NoMethodError = core.NoMethodError

// Object is an instance with its own exclusive dispatch table.
type Object = core.Object

// Nil returns the designated null placeholder object.
func Nil() *Object {
	return core.Nil()
}

// NewDouble creates a pure test double with no methods of its own.
func NewDouble(name string) *Object {
	return core.NewDouble(name)
}

// NewObject creates an instance of class.
func NewObject(class *Class) *Object {
	return core.NewObject(class)
}

// Wrap builds an Object whose public methods are v's exported Go methods.
func Wrap(v any) *Object {
	return core.Wrap(v)
}

// Bind returns a typed Go function that sends name to obj.
func Bind[F any](obj *Object, name string) F {
	return core.Bind[F](obj, name)
}

// Option configures a Space.
type Option = core.Option

// WithErrorGenerator sets how records and proxies build their errors.
func WithErrorGenerator(generator ErrorGenerator) Option {
	return core.WithErrorGenerator(generator)
}

// WithNilWarnings sets the initial state of the nil-object warning switch.
func WithNilWarnings(enabled bool) Option {
	return core.WithNilWarnings(enabled)
}

// WithOrderGroup sets the order group records consult on every call.
func WithOrderGroup(ordering OrderGroup) Option {
	return core.WithOrderGroup(ordering)
}

// Options tune a record as it is added to a double.
type Options = core.Options

// OrderGroup is consulted each time a record is invoked.
type OrderGroup = core.OrderGroup

// Proxy routes intercepted calls on one object to its method doubles.
type Proxy = core.Proxy

// Record is one constraint on how a doubled method may or must be called.
type Record = core.Record

// Space is the context for one test run.
type Space = core.Space

// NewSpace creates an empty space.
func NewSpace(opts ...Option) *Space {
	return core.NewSpace(opts...)
}

// TestReporter is the minimal interface impstub needs from test frameworks.
type TestReporter = core.TestReporter

// UnexpectedMessageError reports a call that no expectation or stub accepts.
type UnexpectedMessageError = core.UnexpectedMessageError

// Unordered places no constraint on call order.
type Unordered = core.Unordered

// Visibility is the access level of a method.
type Visibility = core.Visibility

// Visibility levels.
const (
	Public    = core.Public
	Protected = core.Protected
	Private   = core.Private
)

// Errors re-exported from internal/core.
var (
	ErrExpectationFailed = core.ErrExpectationFailed
	ErrMethodNotStubbed  = core.ErrMethodNotStubbed
	ErrNoMethod          = core.ErrNoMethod
	ErrPrivateMethod     = core.ErrPrivateMethod
	ErrProtectedMethod   = core.ErrProtectedMethod
	ErrUnexpectedMessage = core.ErrUnexpectedMessage
)
