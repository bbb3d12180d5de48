package core

import (
	"fmt"
)

// AnyInstanceRecorder intercepts a method across every instance of a class.
// Observing a method moves the class's implementation to an alias name and
// puts a counting wrapper in its place.
type AnyInstanceRecorder struct {
	class     *Class
	observed  map[string]bool
	displaced map[string]displacedMethod
	calls     map[string]int
}

// AlreadyObserving reports whether name is currently intercepted for all instances.
func (r *AnyInstanceRecorder) AlreadyObserving(name string) bool {
	return r.observed[name]
}

// BuildAliasMethodName returns the name the original implementation of name
// is kept under while observed.
func (r *AnyInstanceRecorder) BuildAliasMethodName(name string) string {
	return "__" + name + "_without_any_instance__"
}

// Calls returns how many times name was invoked on any instance while observed.
func (r *AnyInstanceRecorder) Calls(name string) int {
	return r.calls[name]
}

// Observe starts intercepting name on all instances of the class. The method
// must be reachable from the class, either defined on it or inherited.
func (r *AnyInstanceRecorder) Observe(name string) error {
	if r.observed[name] {
		return nil
	}

	entry, _, ok := r.class.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s has no method %q to observe", ErrNoMethod, r.class.name, name)
	}

	own, hadOwn := r.class.methods.Lookup(name)
	r.displaced[name] = displacedMethod{entry: own, present: hadOwn}

	alias := r.BuildAliasMethodName(name)
	original := entry.Impl

	r.class.methods.Define(alias, Private, original)
	r.class.methods.Define(name, entry.Visibility, func(self *Object, args ...any) ([]any, error) {
		r.calls[name]++

		return original(self, args...)
	})

	r.observed[name] = true

	return nil
}

// StopObserving puts the class's method back the way Observe found it.
func (r *AnyInstanceRecorder) StopObserving(name string) {
	if !r.observed[name] {
		return
	}

	r.class.methods.Remove(r.BuildAliasMethodName(name))

	if displaced := r.displaced[name]; displaced.present {
		r.class.methods.Define(name, displaced.entry.Visibility, displaced.entry.Impl)
	} else {
		r.class.methods.Remove(name)
	}

	delete(r.displaced, name)
	delete(r.observed, name)
	delete(r.calls, name)
}

type displacedMethod struct {
	entry   MethodEntry
	present bool
}

func newAnyInstanceRecorder(class *Class) *AnyInstanceRecorder {
	return &AnyInstanceRecorder{
		class:     class,
		observed:  make(map[string]bool),
		displaced: make(map[string]displacedMethod),
		calls:     make(map[string]int),
	}
}
