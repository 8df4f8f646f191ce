package mapper

import (
	"fmt"
	"reflect"
	"slices"

	"shape-mapper/internal/shape"
	"shape-mapper/ir"
)

// ShapeRewriter moves expressions written against one shape onto another
// through the bindings of registered configurations. It implements
// ir.Visitor. The rewrite is purely symbolic: nothing is compiled and no
// null guards are added.
type ShapeRewriter struct {
	m    *Mapper
	from reflect.Type
	to   reflect.Type
	name string

	param *ir.Parameter
	fresh *ir.Parameter
}

// NewShapeRewriter creates a rewriter from shape from to shape to using the
// configurations registered under name.
func NewShapeRewriter(m *Mapper, from, to reflect.Type, name string) *ShapeRewriter {
	return &ShapeRewriter{m: m, from: shape.Base(from), to: shape.Base(to), name: name}
}

// Rewrite returns l rewritten onto a fresh parameter of the target shape.
func (r *ShapeRewriter) Rewrite(l *ir.Lambda) (*ir.Lambda, error) {
	if shape.Base(l.Param.Type()) != r.from {
		return nil, fmt.Errorf("%w: lambda takes %s, rewriter expects %s", ir.ErrTypeMismatch, l.Param.Type(), r.from)
	}

	r.param = l.Param
	r.fresh = ir.NewParameter(r.to, l.Param.Name)

	body, err := r.Visit(l.Body)
	if err != nil {
		return nil, err
	}

	return ir.NewLambda(r.fresh, body), nil
}

// Visit implements ir.Visitor.
func (r *ShapeRewriter) Visit(n ir.Node) (ir.Node, error) {
	switch t := n.(type) {
	case *ir.Parameter:
		if t == r.param {
			return r.fresh, nil
		}

		return t, nil

	case *ir.Member:
		if path, ok := ir.MemberPath(t, r.param); ok && len(path) > 1 {
			if out, ok := r.invertPath(path, t.Type()); ok {
				return out, nil
			}
		}

		obj, err := r.Visit(t.Object)
		if err != nil {
			return nil, err
		}

		if inv, ok := obj.(*ir.Invoke); ok {
			obj = inv.Arg
		}

		if shape.Base(obj.Type()) == t.Owner() {
			if obj == t.Object {
				return t, nil
			}

			return ir.Field(obj, t.Name)
		}

		return r.member(obj, t)

	default:
		return ir.VisitChildren(n, r)
	}
}

// member resolves t.Name, declared by t.Owner(), on obj of another shape.
func (r *ShapeRewriter) member(obj ir.Node, t *ir.Member) (ir.Node, error) {
	owner, objType := t.Owner(), shape.Base(obj.Type())
	found := false

	// obj -> owner: splice the binding that produces the member
	if cfg, ok := r.m.registry.Lookup(NewKey(objType, owner, r.name)); ok {
		found = true

		if _, err := cfg.Lambda(); err != nil {
			return nil, err
		}

		if b, ok := cfg.Binding(t.Name); ok {
			return ir.Replace(b.Value, cfg.param, obj)
		}
	}

	// owner -> obj: invert the binding that reads the member
	if cfg, ok := r.m.registry.Lookup(NewKey(owner, objType, r.name)); ok {
		found = true

		if _, err := cfg.Lambda(); err != nil {
			return nil, err
		}

		for _, b := range cfg.Bindings() {
			// a sub-mapped member keeps its mapped type; the enclosing member
			// access resolves through the sub-configuration
			if name, ok := bridgedMember(b.Value, cfg.param); ok && name == t.Name {
				f, err := ir.Field(obj, b.Dest)
				if err != nil {
					return nil, err
				}

				return f, nil
			}

			if name, ok := rootMember(b.Value, cfg.param); !ok || name != t.Name {
				continue
			}

			f, err := ir.Field(obj, b.Dest)
			if err != nil {
				return nil, err
			}

			if out, ok := fitType(f, t.Type()); ok {
				return out, nil
			}
		}
	}

	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNoMapperFound, NewKey(objType, owner, r.name))
	}

	return nil, fmt.Errorf("%w: %s.%s", ErrMemberNotMapped, owner, t.Name)
}

// bridgedMember reports the source member a sub-mapping or element-wise
// mapping reads.
func bridgedMember(n ir.Node, param *ir.Parameter) (string, bool) {
	switch v := n.(type) {
	case *ir.Invoke:
		return rootMember(v.Arg, param)
	case *ir.MapElements:
		return rootMember(v.Source, param)
	default:
		return "", false
	}
}

// invertPath maps a member chain on the original parameter to a single
// destination member whose binding reads exactly that chain, as produced
// by flattening.
func (r *ShapeRewriter) invertPath(path []string, want reflect.Type) (ir.Node, bool) {
	cfg, ok := r.m.registry.Lookup(NewKey(r.from, r.to, r.name))
	if !ok {
		return nil, false
	}

	if _, err := cfg.Lambda(); err != nil {
		return nil, false
	}

	for _, b := range cfg.Bindings() {
		if p, ok := ir.MemberPath(b.Value, cfg.param); ok && slices.Equal(p, path) {
			f, err := ir.Field(r.fresh, b.Dest)
			if err != nil {
				return nil, false
			}

			return fitType(f, want)
		}
	}

	return nil, false
}

// fitType converts n back to want when both are of one kind, or both are
// numbers, so the surrounding expression keeps type checking.
func fitType(n ir.Node, want reflect.Type) (ir.Node, bool) {
	if n.Type() == want {
		return n, true
	}

	from, to := shape.Base(n.Type()).Kind(), shape.Base(want).Kind()
	if from != to && !(isNumber(from) && isNumber(to)) {
		return nil, false
	}

	out, err := ir.ConvertTo(n, want)
	if err != nil {
		return nil, false
	}

	return out, true
}

func isNumber(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Float64
}
