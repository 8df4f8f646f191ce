package ir

import (
	"fmt"
	"reflect"

	"shape-mapper/internal/shape"
)

// NewParameter creates a parameter of type t.
func NewParameter(t reflect.Type, name string) *Parameter {
	if name == "" {
		name = "x"
	}

	return &Parameter{Name: name, typ: t}
}

// NewLambda creates a lambda over param.
func NewLambda(param *Parameter, body Node) *Lambda {
	return &Lambda{Param: param, Body: body}
}

// Field builds a member access on obj.
func Field(obj Node, name string) (*Member, error) {
	owner := shape.Base(obj.Type())
	if obj.Type().Kind() == reflect.Ptr && obj.Type().Elem().Kind() == reflect.Ptr {
		return nil, fmt.Errorf("%w: %s is a double pointer", ErrTypeMismatch, obj.Type())
	}

	if owner.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s has no members (%s)", ErrUnknownMember, obj, obj.Type())
	}

	f, ok := shape.Of(owner).Field(name)
	if !ok || !f.Readable {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownMember, typeName(owner), name)
	}

	return &Member{Object: obj, Name: name, Index: f.Index, typ: f.Type}, nil
}

// Path builds a chain of member accesses from root following a dotted path.
func Path(root Node, path string) (Node, error) {
	segments, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	return PathSegments(root, segments)
}

// PathSegments builds a chain of member accesses from already parsed segments.
func PathSegments(root Node, segments []string) (Node, error) {
	cur := root

	for _, seg := range segments {
		m, err := Field(cur, seg)
		if err != nil {
			return nil, err
		}

		cur = m
	}

	return cur, nil
}

// Const creates a constant from v.
func Const(v any) (*Constant, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: untyped nil constant", ErrTypeMismatch)
	}

	return &Constant{value: reflect.ValueOf(v)}, nil
}

// MustConst is like Const but panics on a nil value. Intended for literals.
func MustConst(v any) *Constant {
	c, err := Const(v)
	if err != nil {
		panic(err)
	}

	return c
}

// ConstOf creates a constant of type t from v.
func ConstOf(v any, t reflect.Type) (*Constant, error) {
	if v == nil {
		return Zero(t), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Type() == t {
		return &Constant{value: rv}, nil
	}

	if !rv.Type().ConvertibleTo(t) {
		return nil, fmt.Errorf("%w: constant %v is not convertible to %s", ErrTypeMismatch, v, t)
	}

	return &Constant{value: rv.Convert(t)}, nil
}

// Zero creates the zero value constant of t.
func Zero(t reflect.Type) *Constant {
	return &Constant{value: reflect.Zero(t)}
}

// Cond creates a conditional. Both branches must share one type.
func Cond(test, then, els Node) (*Conditional, error) {
	if test.Type() != boolType {
		return nil, fmt.Errorf("%w: condition %s is %s, not bool", ErrTypeMismatch, test, test.Type())
	}

	if then.Type() != els.Type() {
		return nil, fmt.Errorf("%w: branches %s and %s", ErrTypeMismatch, then.Type(), els.Type())
	}

	return &Conditional{Test: test, Then: then, Else: els}, nil
}

// Compare creates a comparison. A constant right operand is converted to
// the left operand type when possible.
func Compare(op Op, left, right Node) (*Binary, error) {
	if op.IsLogical() {
		return Logical(op, left, right)
	}

	if left.Type() != right.Type() {
		c, ok := right.(*Constant)
		if !ok {
			return nil, fmt.Errorf("%w: cannot compare %s with %s", ErrTypeMismatch, left.Type(), right.Type())
		}

		conv, err := ConstOf(c.Value(), left.Type())
		if err != nil {
			return nil, err
		}

		right = conv
	}

	return &Binary{Op: op, Left: left, Right: right}, nil
}

// Logical creates a && or || node.
func Logical(op Op, left, right Node) (*Binary, error) {
	if !op.IsLogical() {
		return nil, fmt.Errorf("%w: %s is not a logical operator", ErrTypeMismatch, op)
	}

	if left.Type() != boolType || right.Type() != boolType {
		return nil, fmt.Errorf("%w: %s operands must be bool", ErrTypeMismatch, op)
	}

	return &Binary{Op: op, Left: left, Right: right}, nil
}

// Negate creates a boolean negation.
func Negate(operand Node) (*Not, error) {
	if operand.Type() != boolType {
		return nil, fmt.Errorf("%w: cannot negate %s", ErrTypeMismatch, operand.Type())
	}

	return &Not{Operand: operand}, nil
}

// NotNil creates the test `n != zero(n.Type())`.
func NotNil(n Node) *Binary {
	return &Binary{Op: OpNe, Left: n, Right: Zero(n.Type())}
}

// ConvertTo converts n to t. Supported: identical types, value conversions
// reflect allows between non-pointer types, wrapping T into *T and
// unwrapping *T into T (optionally followed by a value conversion).
func ConvertTo(n Node, t reflect.Type) (Node, error) {
	from := n.Type()

	switch {
	case from == t:
		return n, nil

	case t.Kind() == reflect.Ptr && from.Kind() != reflect.Ptr:
		inner, err := ConvertTo(n, t.Elem())
		if err != nil {
			return nil, err
		}

		return &Convert{Operand: inner, Mode: ConvertWrap, typ: t}, nil

	case from.Kind() == reflect.Ptr && t.Kind() != reflect.Ptr:
		return ConvertTo(&Convert{Operand: n, Mode: ConvertUnwrap, typ: from.Elem()}, t)

	case from.Kind() == reflect.Ptr && t.Kind() == reflect.Ptr:
		return nil, fmt.Errorf("%w: cannot convert %s to %s", ErrTypeMismatch, from, t)

	case from.ConvertibleTo(t):
		return &Convert{Operand: n, Mode: ConvertValue, typ: t}, nil

	default:
		return nil, fmt.Errorf("%w: cannot convert %s to %s", ErrTypeMismatch, from, t)
	}
}

// NewConstruct creates a struct construction node. Each initializer value
// must be assignable to its field.
func NewConstruct(t reflect.Type, inits []MemberInit) (*Construct, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrTypeMismatch, t)
	}

	desc := shape.Of(t)
	out := make([]MemberInit, 0, len(inits))

	for _, mi := range inits {
		f, ok := desc.Field(mi.Field)
		if !ok || !f.Writable {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownMember, typeName(t), mi.Field)
		}

		if !mi.Value.Type().AssignableTo(f.Type) {
			return nil, fmt.Errorf("%w: %s.%s is %s, value is %s",
				ErrTypeMismatch, typeName(t), mi.Field, f.Type, mi.Value.Type())
		}

		out = append(out, MemberInit{Field: f.Name, Index: f.Index, Value: mi.Value})
	}

	return &Construct{Bindings: out, typ: t}, nil
}

// NewInvoke applies target to arg. arg may be the target input type or a
// pointer to it; t may be the target output type or a pointer to it.
func NewInvoke(target Invocable, arg Node, t reflect.Type) (*Invoke, error) {
	in, out := target.InputType(), target.OutputType()

	if arg.Type() != in && !(arg.Type().Kind() == reflect.Ptr && arg.Type().Elem() == in) {
		return nil, fmt.Errorf("%w: %s expects %s, got %s", ErrTypeMismatch, target, in, arg.Type())
	}

	if t != out && !(t.Kind() == reflect.Ptr && t.Elem() == out) {
		return nil, fmt.Errorf("%w: %s produces %s, wanted %s", ErrTypeMismatch, target, out, t)
	}

	return &Invoke{Target: target, Arg: arg, typ: t}, nil
}

// NewMapElements maps each element of source through elem into a slice or
// array of type t.
func NewMapElements(source Node, elem *Lambda, t reflect.Type) (*MapElements, error) {
	sk := source.Type().Kind()
	if sk != reflect.Slice && sk != reflect.Array {
		return nil, fmt.Errorf("%w: %s is not a collection", ErrTypeMismatch, source.Type())
	}

	if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: %s is not a collection", ErrTypeMismatch, t)
	}

	if elem.Param.Type() != source.Type().Elem() {
		return nil, fmt.Errorf("%w: element lambda expects %s, collection holds %s",
			ErrTypeMismatch, elem.Param.Type(), source.Type().Elem())
	}

	if !elem.Type().AssignableTo(t.Elem()) {
		return nil, fmt.Errorf("%w: element lambda produces %s, collection holds %s",
			ErrTypeMismatch, elem.Type(), t.Elem())
	}

	return &MapElements{Source: source, Elem: elem, typ: t}, nil
}

// NewCall applies fn to arg producing a value of type t.
func NewCall(name string, fn CallFunc, arg Node, t reflect.Type) *Call {
	return &Call{Name: name, Fn: fn, Arg: arg, typ: t}
}
