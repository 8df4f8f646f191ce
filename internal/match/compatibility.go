package match

import (
	"reflect"

	"shape-mapper/internal/shape"
	"shape-mapper/primitive"
)

// TypeCompatibility grades how directly a source type feeds a target type.
// Higher is more direct.
type TypeCompatibility int

const (
	TypeIncompatible       TypeCompatibility = iota
	TypeNeedsElementMapper                   // collections, elements bridged one by one
	TypeNeedsMapper                          // reference shapes, bridged by a sub-mapping
	TypeNeedsTransform                       // a pointer taken or dereferenced around a value
	TypeConvertible                          // an allowed primitive conversion
	TypeAssignable
	TypeIdentical
)

var compatibilityNames = [...]string{
	TypeIncompatible:       "incompatible",
	TypeNeedsElementMapper: "needs_element_mapper",
	TypeNeedsMapper:        "needs_mapper",
	TypeNeedsTransform:     "needs_transform",
	TypeConvertible:        "convertible",
	TypeAssignable:         "assignable",
	TypeIdentical:          "identical",
}

func (c TypeCompatibility) String() string {
	if c < 0 || int(c) >= len(compatibilityNames) {
		return "unknown"
	}

	return compatibilityNames[c]
}

// Compatible reports whether the pair can be bound at all.
func (c TypeCompatibility) Compatible() bool {
	return c > TypeIncompatible
}

// Verdict is the outcome of Compare.
type Verdict struct {
	Level  TypeCompatibility
	Reason string
}

// Compare grades source against target. allowed limits which primitive
// conversions count.
func Compare(source, target reflect.Type, allowed primitive.CategoryEnum) Verdict {
	switch {
	case source == target:
		return Verdict{TypeIdentical, "types are identical"}
	case source.AssignableTo(target):
		return Verdict{TypeAssignable, "source is assignable to target"}
	}

	if _, ok := primitive.Lookup(source, target, allowed); ok {
		return Verdict{TypeConvertible, "source is convertible to target"}
	}

	srcRef, dstRef := shape.IsReferenceShape(source), shape.IsReferenceShape(target)
	if srcRef && dstRef {
		return Verdict{TypeNeedsMapper, "reference shapes require a mapping"}
	}

	if !srcRef && !dstRef {
		if v, ok := comparePointer(source, target, allowed); ok {
			return v
		}
	}

	if isCollection(source) && isCollection(target) {
		if elem := Compare(source.Elem(), target.Elem(), allowed); elem.Level.Compatible() {
			return Verdict{TypeNeedsElementMapper, "elements are " + elem.Level.String()}
		}
	}

	return Verdict{TypeIncompatible, "types are not compatible"}
}

// comparePointer grades value types that differ by one level of pointer.
func comparePointer(source, target reflect.Type, allowed primitive.CategoryEnum) (Verdict, bool) {
	var (
		inner  Verdict
		reason string
	)

	switch srcPtr, dstPtr := source.Kind() == reflect.Pointer, target.Kind() == reflect.Pointer; {
	case srcPtr && !dstPtr:
		inner, reason = Compare(source.Elem(), target, allowed), "requires pointer dereference"
	case dstPtr && !srcPtr:
		inner, reason = Compare(source, target.Elem(), allowed), "requires taking address"
	default:
		return Verdict{}, false
	}

	if inner.Level < TypeConvertible {
		return Verdict{}, false
	}

	return Verdict{TypeNeedsTransform, reason}, true
}

func isCollection(t reflect.Type) bool {
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}
