package primitive

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Func converts a primitive value into another primitive type.
type Func func(v reflect.Value) (reflect.Value, error)

// Conversion is a runtime conversion between two primitive types.
type Conversion struct {
	Name   string // category name, "convert" for plain conversions
	Native bool   // a plain reflect conversion, no function call required
	Fn     Func
}

var (
	stringerType = reflect.TypeOf((*interface{ String() string })(nil)).Elem()
	validType    = reflect.TypeOf((*interface{ IsValid() bool })(nil)).Elem()
)

// Lookup finds a conversion from src to dst within the allowed categories.
// Types that differ only by name (a named integer and its underlying type,
// two string enums) always convert natively.
func Lookup(src, dst reflect.Type, allowed CategoryEnum) (Conversion, bool) {
	from, to := KindOf(src), KindOf(dst)
	if from == KindInvalid || to == KindInvalid {
		return Conversion{}, false
	}

	if CategoryOf(from, to)&allowed != 0 {
		if c, ok := categoryConversion(src, dst, from, to); ok {
			return c, true
		}
	}

	if src.Kind() == dst.Kind() && src.ConvertibleTo(dst) {
		return native(dst), true
	}

	return Conversion{}, false
}

func native(dst reflect.Type) Conversion {
	return Conversion{
		Name:   "convert",
		Native: true,
		Fn: func(v reflect.Value) (reflect.Value, error) {
			return v.Convert(dst), nil
		},
	}
}

// categoryConversion builds the conversion for a kind pair whose category
// is already known to be allowed.
func categoryConversion(src, dst reflect.Type, from, to KindEnum) (Conversion, bool) {
	switch {
	case from == KindPrimitiveEnum || to == KindPrimitiveEnum:
		return enumConversion(src, dst)

	case from.IsNumber() && to.IsNumber():
		return native(dst), true

	case from.IsNumber() && to == KindString:
		return conversion(CategoryTextNumber, dst, formatNumber), true

	case from == KindString && to.IsNumber():
		return conversion(CategoryTextNumber, dst, parseNumber(dst)), true

	case from.IsInteger() && to == KindBool:
		return conversion(CategoryNumericBool, dst, intToBool), true

	case from == KindBool && to.IsInteger():
		return conversion(CategoryNumericBool, dst, func(v reflect.Value) (any, error) {
			if v.Bool() {
				return 1, nil
			}

			return 0, nil
		}), true

	case from == KindString && to == KindBool:
		return conversion(CategoryTextualBool, dst, textToBool), true

	case from == KindBool && to == KindString:
		return conversion(CategoryTextualBool, dst, func(v reflect.Value) (any, error) {
			return strconv.FormatBool(v.Bool()), nil
		}), true

	case from == KindString && to == KindTime:
		return conversion(CategoryDatetime, dst, func(v reflect.Value) (any, error) {
			return time.Parse(time.RFC3339Nano, v.String())
		}), true

	case from == KindTime && to == KindString:
		return conversion(CategoryDatetime, dst, func(v reflect.Value) (any, error) {
			return v.Interface().(time.Time).Format(time.RFC3339Nano), nil
		}), true

	case from.IsInteger() && to == KindTime:
		return conversion(CategoryTimestamp, dst, func(v reflect.Value) (any, error) {
			return time.Unix(v.Convert(reflect.TypeOf(int64(0))).Int(), 0), nil
		}), true

	case from == KindTime && to.IsInteger():
		return conversion(CategoryTimestamp, dst, func(v reflect.Value) (any, error) {
			return v.Interface().(time.Time).Unix(), nil
		}), true

	case from == KindString && to == KindDuration:
		return conversion(CategoryDuration, dst, func(v reflect.Value) (any, error) {
			return time.ParseDuration(v.String())
		}), true

	case from == KindDuration && to == KindString:
		return conversion(CategoryDuration, dst, func(v reflect.Value) (any, error) {
			return v.Interface().(time.Duration).String(), nil
		}), true

	case from.IsInteger() && to == KindDuration, from == KindDuration && to.IsInteger():
		return native(dst), true

	case from.IsFloat() && to == KindDuration:
		return conversion(CategorySeconds, dst, func(v reflect.Value) (any, error) {
			return time.Duration(v.Float() * float64(time.Second)), nil
		}), true

	case from == KindDuration && to.IsFloat():
		return conversion(CategorySeconds, dst, func(v reflect.Value) (any, error) {
			return v.Interface().(time.Duration).Seconds(), nil
		}), true
	}

	return Conversion{}, false
}

// conversion adapts fn, whose result is converted to dst.
func conversion(category CategoryEnum, dst reflect.Type, fn func(reflect.Value) (any, error)) Conversion {
	name := category.String()

	return Conversion{
		Name: name,
		Fn: func(v reflect.Value) (reflect.Value, error) {
			out, err := fn(v)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%s: %w", name, err)
			}

			return reflect.ValueOf(out).Convert(dst), nil
		},
	}
}

func enumConversion(src, dst reflect.Type) (Conversion, bool) {
	text := func(v reflect.Value) (string, bool) {
		switch {
		case src.Implements(stringerType):
			return v.Interface().(interface{ String() string }).String(), true
		case src.Kind() == reflect.String:
			return v.String(), true
		default:
			return "", false
		}
	}

	switch {
	case sameFamily(src, dst):
		return validated(dst, func(v reflect.Value) (reflect.Value, error) {
			return v.Convert(dst), nil
		}), true

	case dst.Kind() == reflect.String && (src.Implements(stringerType) || src.Kind() == reflect.String):
		return validated(dst, func(v reflect.Value) (reflect.Value, error) {
			s, _ := text(v)
			return reflect.ValueOf(s).Convert(dst), nil
		}), true

	default:
		return Conversion{}, false
	}
}

// validated checks the result against an IsValid method when dst has one.
func validated(dst reflect.Type, fn Func) Conversion {
	name := CategoryEnumString.String()

	if !dst.Implements(validType) {
		return Conversion{Name: name, Fn: fn}
	}

	return Conversion{
		Name: name,
		Fn: func(v reflect.Value) (reflect.Value, error) {
			out, err := fn(v)
			if err != nil {
				return reflect.Value{}, err
			}

			if !out.Interface().(interface{ IsValid() bool }).IsValid() {
				return reflect.Value{}, fmt.Errorf("%s: %v is not a valid value for %s", name, out.Interface(), dst)
			}

			return out, nil
		},
	}
}

func sameFamily(a, b reflect.Type) bool {
	isInt := func(t reflect.Type) bool {
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return true
		default:
			return false
		}
	}

	if a.Kind() == reflect.String && b.Kind() == reflect.String {
		return true
	}

	return isInt(a) && isInt(b)
}

func formatNumber(v reflect.Value) (any, error) {
	switch {
	case v.CanInt():
		return strconv.FormatInt(v.Int(), 10), nil
	case v.CanUint():
		return strconv.FormatUint(v.Uint(), 10), nil
	default:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), nil
	}
}

func parseNumber(dst reflect.Type) func(reflect.Value) (any, error) {
	kind := KindOf(dst)

	return func(v reflect.Value) (any, error) {
		switch {
		case kind.IsSigned():
			return strconv.ParseInt(v.String(), 10, kind.Bits())
		case kind.IsUnsigned():
			return strconv.ParseUint(v.String(), 10, kind.Bits())
		default:
			return strconv.ParseFloat(v.String(), kind.Bits())
		}
	}
}

func intToBool(v reflect.Value) (any, error) {
	n := v.Convert(reflect.TypeOf(int64(0))).Int()

	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return nil, fmt.Errorf("only numbers 0 and 1 are allowed for bool, got: %d", n)
	}
}

func textToBool(v reflect.Value) (any, error) {
	switch strings.ToLower(v.String()) {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	default:
		return nil, fmt.Errorf("only strings true/false, yes/no, on/off are allowed for bool, got: %s", v.String())
	}
}
