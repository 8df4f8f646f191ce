package ir

import (
	"cmp"
	"fmt"
	"reflect"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// CompareValues orders two values of the same type. Supported: integers,
// floats, strings, bools (false before true), time.Time, and pointers to any
// of these (nil first).
func CompareValues(a, b reflect.Value) (int, error) {
	if a.Type() != b.Type() {
		return 0, fmt.Errorf("%w: %s and %s", ErrNotComparable, a.Type(), b.Type())
	}

	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float()), nil
	case reflect.String:
		return cmp.Compare(a.String(), b.String()), nil
	case reflect.Bool:
		return compareBool(a.Bool(), b.Bool()), nil
	case reflect.Ptr:
		switch {
		case a.IsNil() && b.IsNil():
			return 0, nil
		case a.IsNil():
			return -1, nil
		case b.IsNil():
			return 1, nil
		default:
			return CompareValues(a.Elem(), b.Elem())
		}
	case reflect.Struct:
		if a.Type().ConvertibleTo(timeType) {
			ta := a.Convert(timeType).Interface().(time.Time)
			tb := b.Convert(timeType).Interface().(time.Time)

			return ta.Compare(tb), nil
		}
	}

	return 0, fmt.Errorf("%w: %s has no ordering", ErrNotComparable, a.Type())
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// EqualValues reports whether two values of the same type are equal.
// Non-comparable values are equal when both are zero, or deeply equal.
func EqualValues(a, b reflect.Value) bool {
	if a.Type().Comparable() && a.CanInterface() && b.CanInterface() {
		return a.Interface() == b.Interface()
	}

	if a.IsZero() || b.IsZero() {
		return a.IsZero() && b.IsZero()
	}

	return reflect.DeepEqual(a.Interface(), b.Interface())
}
