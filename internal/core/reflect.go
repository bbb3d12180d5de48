package core

import (
	"errors"
	"fmt"
	"reflect"
)

// Wrap builds an Object around a Go value. Each exported method of v's
// dynamic type becomes a public method of a fresh class named after the type,
// so the value's methods can be doubled like any other.
func Wrap(v any) *Object {
	value := reflect.ValueOf(v)
	typ := value.Type()
	class := NewClass(typ.String(), nil)

	for i := 0; i < typ.NumMethod(); i++ {
		method := value.Method(i)
		class.Define(typ.Method(i).Name, Public, reflectImpl(method))
	}

	obj := NewObject(class)
	obj.label = fmt.Sprintf("#<%s>", typ)

	return obj
}

// Bind returns a typed Go function that sends name to obj. F must be a func
// type. If F's last result is an error, a failed send is returned there;
// otherwise the failure panics.
func Bind[F any](obj *Object, name string) F {
	fnType := reflect.TypeOf((*F)(nil)).Elem()
	if fnType.Kind() != reflect.Func {
		panic(fmt.Sprintf("impstub: Bind needs a func type, got %v", fnType))
	}

	fn := reflect.MakeFunc(fnType, func(in []reflect.Value) []reflect.Value {
		results, err := obj.Send(name, valuesToArgs(fnType, in)...)

		return resultsToValues(fnType, results, err)
	})

	//nolint:forcetypeassert // MakeFunc returns a value of exactly fnType
	return fn.Interface().(F)
}

// ErrArgumentType reports an argument that cannot be passed to a Go method.
var ErrArgumentType = errors.New("argument type mismatch")

// unexported variables.
var (
	//nolint:gochecknoglobals // reflect type constant
	errorType = reflect.TypeOf((*error)(nil)).Elem()
)

func argsToValues(fnType reflect.Type, args []any) ([]reflect.Value, error) {
	fixed := fnType.NumIn()
	if fnType.IsVariadic() {
		fixed--
	}

	if len(args) < fixed || (!fnType.IsVariadic() && len(args) != fixed) {
		return nil, fmt.Errorf("%w: expected %d args, got %d", ErrArgumentType, fnType.NumIn(), len(args))
	}

	values := make([]reflect.Value, len(args))

	for index, arg := range args {
		var want reflect.Type
		if index < fixed {
			want = fnType.In(index)
		} else {
			want = fnType.In(fixed).Elem()
		}

		value, err := toValue(arg, want)
		if err != nil {
			return nil, fmt.Errorf("arg %d: %w", index, err)
		}

		values[index] = value
	}

	return values, nil
}

func reflectImpl(method reflect.Value) Impl {
	return func(_ *Object, args ...any) ([]any, error) {
		in, err := argsToValues(method.Type(), args)
		if err != nil {
			return nil, err
		}

		out := method.Call(in)
		results := make([]any, len(out))

		for i, value := range out {
			results[i] = value.Interface()
		}

		return results, nil
	}
}

func resultsToValues(fnType reflect.Type, results []any, err error) []reflect.Value {
	numOut := fnType.NumOut()
	errorSlot := numOut > 0 && fnType.Out(numOut-1) == errorType

	if err != nil && !errorSlot {
		panic(err)
	}

	out := make([]reflect.Value, numOut)

	for i := 0; i < numOut; i++ {
		want := fnType.Out(i)

		if errorSlot && i == numOut-1 && err != nil {
			out[i] = reflect.ValueOf(&err).Elem()

			continue
		}

		if i >= len(results) {
			out[i] = reflect.Zero(want)

			continue
		}

		value, convErr := toValue(results[i], want)
		if convErr != nil {
			panic(fmt.Errorf("result %d: %w", i, convErr))
		}

		out[i] = value
	}

	return out
}

func toValue(arg any, want reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(want), nil
	}

	value := reflect.ValueOf(arg)

	switch {
	case value.Type().AssignableTo(want):
		if want.Kind() == reflect.Interface {
			converted := reflect.New(want).Elem()
			converted.Set(value)

			return converted, nil
		}

		return value, nil
	case value.Type().ConvertibleTo(want):
		return value.Convert(want), nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: cannot use %T as %v", ErrArgumentType, arg, want)
	}
}

func valuesToArgs(fnType reflect.Type, in []reflect.Value) []any {
	args := make([]any, 0, len(in))

	for i, value := range in {
		if fnType.IsVariadic() && i == len(in)-1 {
			for j := 0; j < value.Len(); j++ {
				args = append(args, value.Index(j).Interface())
			}

			continue
		}

		args = append(args, value.Interface())
	}

	return args
}
