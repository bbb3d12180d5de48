package core

// findOriginalMethod resolves the behavior name currently has on object. If
// an any-instance recorder is already observing name somewhere up the class
// chain, the recorder's alias holds the real implementation. A method that
// does not exist resolves to a forward to the object's method-missing handler.
func findOriginalMethod(object *Object, name string) Callable {
	handleName := name

	if recorder := observingRecorder(object.Class(), name); recorder != nil {
		handleName = recorder.BuildAliasMethodName(name)
	}

	handle, err := object.MethodHandle(handleName)
	if err != nil {
		return func(args ...any) ([]any, error) {
			return object.MethodMissing(name, args...)
		}
	}

	return handle
}

// observingRecorder walks from class to the root and returns the first
// any-instance recorder observing name.
func observingRecorder(class *Class, name string) *AnyInstanceRecorder {
	if class == nil {
		return nil
	}

	for _, klass := range class.Ancestors() {
		if klass.recorder.AlreadyObserving(name) {
			return klass.recorder
		}
	}

	return nil
}
