package ir

import "shape-mapper/internal/shape"

// NullSafe rewrites member-access chains in n so that a nil link yields the
// zero value of the chain result instead of failing.
//
// For src.A.B.C the chain links src.A.B, src.A and src are collected from
// the innermost access outwards and guards are nested from the outside in:
//
//	src.A != nil ? (src.A.B != nil ? src.A.B.C : 0) : 0
//
// Only links whose type can hold nil are guarded. Unwrapping a pointer at
// the end of a chain is guarded the same way.
func NullSafe(n Node) (Node, error) {
	return nullSafe{}.Visit(n)
}

type nullSafe struct{}

func (v nullSafe) Visit(n Node) (Node, error) {
	switch t := n.(type) {
	case *Member:
		return guard(t, chainLinks(t)), nil

	case *Convert:
		if t.Mode == ConvertUnwrap {
			links := append([]Node{t.Operand}, chainLinks(t.Operand)...)
			return guard(t, links), nil
		}

		if inner, ok := t.Operand.(*Convert); ok && inner.Mode == ConvertUnwrap {
			links := append([]Node{inner.Operand}, chainLinks(inner.Operand)...)
			return guard(t, links), nil
		}

		return VisitChildren(n, v)

	case *Invoke:
		// the target handles a nil argument itself
		return guard(t, chainLinks(t.Arg)), nil

	case *MapElements:
		body, err := v.Visit(t.Elem.Body)
		if err != nil {
			return nil, err
		}

		elems := &MapElements{Source: t.Source, Elem: NewLambda(t.Elem.Param, body), typ: t.typ}

		return guard(elems, chainLinks(t.Source)), nil

	case *Call:
		return guard(t, operandLinks(t.Arg)), nil

	default:
		return VisitChildren(n, v)
	}
}

// chainLinks returns the objects a member chain reads through, deepest
// first: for src.A.B.C it returns [src.A.B, src.A, src].
func chainLinks(n Node) []Node {
	var links []Node

	for {
		m, ok := n.(*Member)
		if !ok {
			return links
		}

		links = append(links, m.Object)
		n = m.Object
	}
}

// operandLinks is chainLinks for the argument of a call, which may be an
// unwrapped pointer.
func operandLinks(n Node) []Node {
	if c, ok := n.(*Convert); ok && c.Mode == ConvertUnwrap {
		return append([]Node{c.Operand}, chainLinks(c.Operand)...)
	}

	return chainLinks(n)
}

// guard wraps body in one conditional per nilable link. links are ordered
// deepest first so the last wrap, the outermost test, checks the root.
func guard(body Node, links []Node) Node {
	t := body.Type()

	for _, link := range links {
		if !shape.Nilable(link.Type()) {
			continue
		}

		body = &Conditional{Test: NotNil(link), Then: body, Else: Zero(t)}
	}

	return body
}
