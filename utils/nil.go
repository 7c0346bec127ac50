package utils //nolint:revive // utils is an appropriate package name for utility functions

import "reflect"

// IsNilish returns true if the value is a literal nil
// or if it points to something with a nil value.
func IsNilish(val any) bool {
	if val == nil {
		return true
	}

	valOf := reflect.ValueOf(val)

	switch valOf.Kind() { //nolint:exhaustive
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Pointer,
		reflect.UnsafePointer, reflect.Interface, reflect.Slice:
		return valOf.IsNil()
	}

	return false
}

// CanBeNil reports whether values of type t can hold nil. The constraint
// matcher uses this to decide whether an untyped nil argument satisfies a
// declared type: nil is admissible for pointers, slices, maps, channels,
// functions, interfaces and unsafe pointers, and for nothing else.
func CanBeNil(t reflect.Type) bool {
	if t == nil {
		return false
	}

	switch t.Kind() { //nolint:exhaustive
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Pointer,
		reflect.UnsafePointer, reflect.Interface, reflect.Slice:
		return true
	}

	return false
}
