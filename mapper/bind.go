package mapper

import (
	"fmt"
	"reflect"

	"shape-mapper/internal/shape"
	"shape-mapper/ir"
	"shape-mapper/primitive"
)

// bindPath builds the member chain of path on root and adapts it to want.
func (m *Mapper) bindPath(root ir.Node, path []string, want reflect.Type, via string) (ir.Node, error) {
	n, err := ir.PathSegments(root, path)
	if err != nil {
		return nil, err
	}

	return m.adapt(n, want, via)
}

// adapt converts n into a value of type want. In order of preference:
// identical or assignable types, registered converter functions, primitive
// conversions, pointer wrap and unwrap, sub-mappings between reference
// shapes and element-wise mapping of collections.
func (m *Mapper) adapt(n ir.Node, want reflect.Type, via string) (ir.Node, error) {
	from := n.Type()

	if from == want || from.AssignableTo(want) {
		return n, nil
	}

	if c, ok := m.lookupConverter(from, want); ok {
		return ir.NewCall(c.Name, c.call(), n, want), nil
	}

	if from.Kind() == reflect.Ptr {
		if c, ok := m.lookupConverter(from.Elem(), want); ok {
			inner, err := ir.ConvertTo(n, from.Elem())
			if err != nil {
				return nil, err
			}

			return ir.NewCall(c.Name, c.call(), inner, want), nil
		}
	}

	if conv, ok := primitive.Lookup(from, want, m.opts.match.Conversions); ok {
		if conv.Native {
			return ir.ConvertTo(n, want)
		}

		return ir.NewCall(conv.Name, ir.CallFunc(conv.Fn), n, want), nil
	}

	if !shape.IsReferenceShape(from) && !shape.IsReferenceShape(want) {
		switch {
		case from.Kind() == reflect.Ptr && want.Kind() != reflect.Ptr:
			inner, err := ir.ConvertTo(n, from.Elem())
			if err != nil {
				return nil, err
			}

			return m.adapt(inner, want, via)

		case from.Kind() != reflect.Ptr && want.Kind() == reflect.Ptr:
			inner, err := m.adapt(n, want.Elem(), via)
			if err != nil {
				return nil, err
			}

			return ir.ConvertTo(inner, want)
		}
	}

	if shape.IsReferenceShape(from) && shape.IsReferenceShape(want) {
		return m.invoke(n, want, via)
	}

	if isCollection(from) && isCollection(want) {
		item := ir.NewParameter(from.Elem(), "item")

		body, err := m.adapt(item, want.Elem(), via)
		if err != nil {
			return nil, fmt.Errorf("%w: elements of %s and %s: %w", ErrNotSameTypeProperty, from, want, err)
		}

		return ir.NewMapElements(n, ir.NewLambda(item, body), want)
	}

	return nil, fmt.Errorf("%w: %s to %s", ErrNotSameTypeProperty, from, want)
}

// invoke maps a reference shape through the sub-configuration selected by
// via. The default slot is registered implicitly; a named one must exist.
func (m *Mapper) invoke(n ir.Node, want reflect.Type, via string) (ir.Node, error) {
	key := NewKey(n.Type(), want, via)

	var sub *Configuration

	if via == "" {
		if len(shape.Of(key.Dest).Writable()) == 0 {
			return nil, fmt.Errorf("%w: %s has no writable members", ErrUnsupportedType, key.Dest)
		}

		sub = m.implicit(key)
	} else {
		var ok bool
		if sub, ok = m.registry.Lookup(key); !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoMapperFound, key)
		}
	}

	return ir.NewInvoke(sub, n, want)
}

func isCollection(t reflect.Type) bool {
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}
