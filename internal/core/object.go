// Package core provides the internal implementation of impstub's method
// interception: the object model, method doubles, invocation records and
// the dispatch proxy that routes intercepted calls.
package core

import (
	"errors"
	"fmt"
	"sort"
)

// Visibility is the access level of a method in a dispatch table.
type Visibility int

// Visibility levels, in order of increasing restriction.
const (
	Public Visibility = iota
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return fmt.Sprintf("Visibility(%d)", int(v))
	}
}

// Impl is a method body. self is the receiver the method was invoked on.
type Impl func(self *Object, args ...any) ([]any, error)

// Callable is a method bound to its receiver.
type Callable func(args ...any) ([]any, error)

// MethodMissingHandler is consulted when no table defines the requested method.
type MethodMissingHandler func(self *Object, name string, args ...any) ([]any, error)

// MethodEntry is a single slot in a dispatch table.
type MethodEntry struct {
	Impl       Impl
	Visibility Visibility
}

// MethodTable maps method names to their implementations.
type MethodTable struct {
	entries map[string]MethodEntry
}

// NewMethodTable creates an empty table.
func NewMethodTable() *MethodTable {
	return &MethodTable{entries: make(map[string]MethodEntry)}
}

// Define installs impl under name at the given visibility, replacing any
// existing entry.
func (mt *MethodTable) Define(name string, vis Visibility, impl Impl) {
	mt.entries[name] = MethodEntry{Impl: impl, Visibility: vis}
}

// Defined reports whether name has an entry, at any visibility.
func (mt *MethodTable) Defined(name string) bool {
	_, ok := mt.entries[name]

	return ok
}

// Lookup returns the entry for name.
func (mt *MethodTable) Lookup(name string) (MethodEntry, bool) {
	entry, ok := mt.entries[name]

	return entry, ok
}

// Names returns the defined method names, sorted.
func (mt *MethodTable) Names() []string {
	names := make([]string, 0, len(mt.entries))
	for name := range mt.entries {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Remove deletes the entry for name. It returns false if there was none.
func (mt *MethodTable) Remove(name string) bool {
	if _, ok := mt.entries[name]; !ok {
		return false
	}

	delete(mt.entries, name)

	return true
}

// SetVisibility changes the access level of an existing entry.
func (mt *MethodTable) SetVisibility(name string, vis Visibility) bool {
	entry, ok := mt.entries[name]
	if !ok {
		return false
	}

	entry.Visibility = vis
	mt.entries[name] = entry

	return true
}

// VisibilityOf returns the access level of name, if defined.
func (mt *MethodTable) VisibilityOf(name string) (Visibility, bool) {
	entry, ok := mt.entries[name]

	return entry.Visibility, ok
}

// Class is a named method table with an optional superclass.
type Class struct {
	name     string
	super    *Class
	methods  *MethodTable
	recorder *AnyInstanceRecorder
	missing  MethodMissingHandler
}

// NewClass creates a class. super may be nil for a root class.
func NewClass(name string, super *Class) *Class {
	class := &Class{
		name:    name,
		super:   super,
		methods: NewMethodTable(),
	}
	class.recorder = newAnyInstanceRecorder(class)

	return class
}

// Ancestors returns the class followed by its superclasses, ending at the root.
func (c *Class) Ancestors() []*Class {
	visited := make(map[*Class]bool)

	var chain []*Class

	for klass := c; klass != nil && !visited[klass]; klass = klass.super {
		visited[klass] = true
		chain = append(chain, klass)
	}

	return chain
}

// Define installs a method on the class.
func (c *Class) Define(name string, vis Visibility, impl Impl) *Class {
	c.methods.Define(name, vis, impl)

	return c
}

// IsA reports whether c is other or descends from it.
func (c *Class) IsA(other *Class) bool {
	for _, klass := range c.Ancestors() {
		if klass == other {
			return true
		}
	}

	return false
}

// Methods returns the class's own method table.
func (c *Class) Methods() *MethodTable {
	return c.methods
}

// Name returns the class name.
func (c *Class) Name() string {
	return c.name
}

// Recorder returns the class's any-instance recorder.
func (c *Class) Recorder() *AnyInstanceRecorder {
	return c.recorder
}

// SetMethodMissing installs the handler used when a method cannot be found
// on an instance of this class or its subclasses.
func (c *Class) SetMethodMissing(handler MethodMissingHandler) {
	c.missing = handler
}

// Superclass returns the parent class, or nil at the root.
func (c *Class) Superclass() *Class {
	return c.super
}

// lookup finds name on the class chain, returning the owning class.
func (c *Class) lookup(name string) (MethodEntry, *Class, bool) {
	for _, klass := range c.Ancestors() {
		if entry, ok := klass.methods.Lookup(name); ok {
			return entry, klass, true
		}
	}

	return MethodEntry{}, nil, false
}

// Object is an instance with its own exclusive dispatch table layered over
// its class's methods.
type Object struct {
	class          *Class
	own            *MethodTable
	label          string
	testDouble     bool
	nilPlaceholder bool
}

// NewObject creates an instance of class.
func NewObject(class *Class) *Object {
	return &Object{class: class, own: NewMethodTable()}
}

// NewDouble creates a pure test double: an object of its own anonymous class
// with no methods, whose missing methods report the double's name.
func NewDouble(name string) *Object {
	class := NewClass("Double", nil)
	class.SetMethodMissing(func(_ *Object, method string, _ ...any) ([]any, error) {
		return nil, &NoMethodError{Receiver: fmt.Sprintf("Double %q", name), Method: method}
	})

	obj := NewObject(class)
	obj.label = fmt.Sprintf("Double %q", name)
	obj.testDouble = true

	return obj
}

// Nil returns the designated null placeholder object.
func Nil() *Object {
	return nilObject
}

// Class returns the object's class.
func (o *Object) Class() *Class {
	return o.class
}

// IsNil reports whether o is the designated null placeholder.
func (o *Object) IsNil() bool {
	return o.nilPlaceholder
}

// IsTestDouble reports whether o was created by NewDouble.
func (o *Object) IsTestDouble() bool {
	return o.testDouble
}

// MethodHandle returns name bound to o, ignoring visibility. The exclusive
// table is searched before the class chain.
func (o *Object) MethodHandle(name string) (Callable, error) {
	entry, _, ok := o.lookup(name)
	if !ok {
		return nil, &NoMethodError{Receiver: o.String(), Method: name}
	}

	return o.bind(entry.Impl), nil
}

// MethodMissing forwards to the nearest class-level method-missing handler,
// or reports a NoMethodError.
func (o *Object) MethodMissing(name string, args ...any) ([]any, error) {
	for _, klass := range o.class.Ancestors() {
		if klass.missing != nil {
			return klass.missing(o, name, args...)
		}
	}

	return nil, &NoMethodError{Receiver: o.String(), Method: name}
}

// Own returns the object's exclusive dispatch table.
func (o *Object) Own() *MethodTable {
	return o.own
}

// RespondsTo reports whether name is defined publicly on o.
func (o *Object) RespondsTo(name string) bool {
	entry, _, ok := o.lookup(name)

	return ok && entry.Visibility == Public
}

// Send invokes name as an external caller would: only public methods are
// reachable.
func (o *Object) Send(name string, args ...any) ([]any, error) {
	return o.SendFrom(nil, name, args...)
}

// SendFrom invokes name on behalf of caller. Private methods are reachable
// only when caller is o; protected ones when caller is an instance of the
// class that defines the method.
func (o *Object) SendFrom(caller *Object, name string, args ...any) ([]any, error) {
	entry, owner, ok := o.lookup(name)
	if !ok {
		return o.MethodMissing(name, args...)
	}

	switch entry.Visibility {
	case Private:
		if caller != o {
			return nil, fmt.Errorf("%w: %s called for %s", ErrPrivateMethod, name, o)
		}
	case Protected:
		if caller == nil || !caller.class.IsA(owner) {
			return nil, fmt.Errorf("%w: %s called for %s", ErrProtectedMethod, name, o)
		}
	case Public:
	}

	return entry.Impl(o, args...)
}

func (o *Object) String() string {
	if o.label != "" {
		return o.label
	}

	return fmt.Sprintf("#<%s %p>", o.class.name, o)
}

// VisibilityOf returns the access level name would be dispatched at: the
// exclusive table first, then the class chain.
func (o *Object) VisibilityOf(name string) (Visibility, bool) {
	entry, _, ok := o.lookup(name)

	return entry.Visibility, ok
}

func (o *Object) bind(impl Impl) Callable {
	return func(args ...any) ([]any, error) {
		return impl(o, args...)
	}
}

// lookup finds name on the exclusive table, then the class chain. The owner
// of an exclusive entry is the object's class.
func (o *Object) lookup(name string) (MethodEntry, *Class, bool) {
	if entry, ok := o.own.Lookup(name); ok {
		return entry, o.class, true
	}

	return o.class.lookup(name)
}

// NoMethodError reports a call to a method an object does not define.
type NoMethodError struct {
	Receiver string
	Method   string
}

func (e *NoMethodError) Error() string {
	return fmt.Sprintf("undefined method %q for %s", e.Method, e.Receiver)
}

// Unwrap lets errors.Is match ErrNoMethod.
func (e *NoMethodError) Unwrap() error {
	return ErrNoMethod
}

// Exported variables.
var (
	ErrNoMethod        = errors.New("no such method")
	ErrPrivateMethod   = errors.New("private method called")
	ErrProtectedMethod = errors.New("protected method called")
)

// unexported variables.
var (
	//nolint:gochecknoglobals // the null placeholder is a process-wide singleton
	nilObject = &Object{
		class:          NewClass("NilClass", nil),
		own:            NewMethodTable(),
		label:          "nil",
		nilPlaceholder: true,
	}
)
