package ir

import (
	"fmt"
	"reflect"
)

// Visitor rewrites nodes. Implementations typically handle the kinds they
// care about and delegate everything else to VisitChildren.
type Visitor interface {
	Visit(n Node) (Node, error)
}

// VisitorFunc adapts a function to Visitor.
type VisitorFunc func(n Node) (Node, error)

func (f VisitorFunc) Visit(n Node) (Node, error) { return f(n) }

// VisitChildren visits every child of n with v and rebuilds n when any child
// changed. Member accesses are re-resolved against the new object type, so a
// rewrite may change the type of the object a member is read from.
func VisitChildren(n Node, v Visitor) (Node, error) {
	switch t := n.(type) {
	case *Parameter, *Constant:
		return n, nil

	case *Member:
		obj, err := v.Visit(t.Object)
		if err != nil {
			return nil, err
		}

		if obj == t.Object {
			return n, nil
		}

		return Field(obj, t.Name)

	case *Conditional:
		test, err := v.Visit(t.Test)
		if err != nil {
			return nil, err
		}

		then, err := v.Visit(t.Then)
		if err != nil {
			return nil, err
		}

		els, err := v.Visit(t.Else)
		if err != nil {
			return nil, err
		}

		if test == t.Test && then == t.Then && els == t.Else {
			return n, nil
		}

		return Cond(test, then, els)

	case *Construct:
		changed := false
		inits := make([]MemberInit, len(t.Bindings))

		for i, b := range t.Bindings {
			val, err := v.Visit(b.Value)
			if err != nil {
				return nil, err
			}

			changed = changed || val != b.Value
			inits[i] = MemberInit{Field: b.Field, Index: b.Index, Value: val}
		}

		if !changed {
			return n, nil
		}

		return NewConstruct(t.typ, inits)

	case *Convert:
		op, err := v.Visit(t.Operand)
		if err != nil {
			return nil, err
		}

		if op == t.Operand {
			return n, nil
		}

		return rebuildConvert(t, op)

	case *Binary:
		left, err := v.Visit(t.Left)
		if err != nil {
			return nil, err
		}

		right, err := v.Visit(t.Right)
		if err != nil {
			return nil, err
		}

		if left == t.Left && right == t.Right {
			return n, nil
		}

		return Compare(t.Op, left, right)

	case *Not:
		op, err := v.Visit(t.Operand)
		if err != nil {
			return nil, err
		}

		if op == t.Operand {
			return n, nil
		}

		return Negate(op)

	case *Invoke:
		arg, err := v.Visit(t.Arg)
		if err != nil {
			return nil, err
		}

		if arg == t.Arg {
			return n, nil
		}

		return NewInvoke(t.Target, arg, t.typ)

	case *MapElements:
		src, err := v.Visit(t.Source)
		if err != nil {
			return nil, err
		}

		body, err := v.Visit(t.Elem.Body)
		if err != nil {
			return nil, err
		}

		if src == t.Source && body == t.Elem.Body {
			return n, nil
		}

		return NewMapElements(src, NewLambda(t.Elem.Param, body), t.typ)

	case *Call:
		arg, err := v.Visit(t.Arg)
		if err != nil {
			return nil, err
		}

		if arg == t.Arg {
			return n, nil
		}

		return NewCall(t.Name, t.Fn, arg, t.typ), nil

	default:
		return nil, fmt.Errorf("%w: unsupported node %T", ErrTypeMismatch, n)
	}
}

func rebuildConvert(c *Convert, op Node) (Node, error) {
	switch c.Mode {
	case ConvertWrap:
		if op.Type().Kind() == reflect.Ptr || reflect.PointerTo(op.Type()) != c.typ {
			return ConvertTo(op, c.typ)
		}
	case ConvertUnwrap:
		if op.Type().Kind() != reflect.Ptr || op.Type().Elem() != c.typ {
			return ConvertTo(op, c.typ)
		}
	default:
		return ConvertTo(op, c.typ)
	}

	return &Convert{Operand: op, Mode: c.Mode, typ: c.typ}, nil
}

// Replace substitutes every occurrence of param in n with with.
func Replace(n Node, param *Parameter, with Node) (Node, error) {
	return replacer{from: param, to: with}.Visit(n)
}

type replacer struct {
	from *Parameter
	to   Node
}

func (r replacer) Visit(n Node) (Node, error) {
	if p, ok := n.(*Parameter); ok && p == r.from {
		return r.to, nil
	}

	return VisitChildren(n, r)
}

// Walk calls fn for n and its descendants in depth-first order. Returning
// false from fn skips the children of that node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	switch t := n.(type) {
	case *Member:
		Walk(t.Object, fn)
	case *Conditional:
		Walk(t.Test, fn)
		Walk(t.Then, fn)
		Walk(t.Else, fn)
	case *Construct:
		for _, b := range t.Bindings {
			Walk(b.Value, fn)
		}
	case *Convert:
		Walk(t.Operand, fn)
	case *Binary:
		Walk(t.Left, fn)
		Walk(t.Right, fn)
	case *Not:
		Walk(t.Operand, fn)
	case *Invoke:
		Walk(t.Arg, fn)
	case *MapElements:
		Walk(t.Source, fn)
		Walk(t.Elem.Body, fn)
	case *Call:
		Walk(t.Arg, fn)
	}
}

// Capabilities lists the optional node kinds a query provider can translate.
// Parameters, members, constants, comparisons, negation, conversions and
// constructions are always expected to be supported.
type Capabilities struct {
	Conditionals bool
	Invocations  bool
	Collections  bool
	Calls        bool
}

// Translatable reports the first node in n a provider with caps cannot
// translate.
func Translatable(n Node, caps Capabilities) error {
	var bad Node

	Walk(n, func(c Node) bool {
		if bad != nil {
			return false
		}

		switch c.Kind() {
		case KindConditional:
			if !caps.Conditionals {
				bad = c
			}
		case KindInvoke:
			if !caps.Invocations {
				bad = c
			}
		case KindMapElements:
			if !caps.Collections {
				bad = c
			}
		case KindCall:
			if !caps.Calls {
				bad = c
			}
		}

		return bad == nil
	})

	if bad != nil {
		return fmt.Errorf("%w: %s node %s", ErrUntranslatable, bad.Kind(), bad)
	}

	return nil
}
