package mapper

import (
	"fmt"
	"reflect"

	"shape-mapper/ir"
)

// TypeMap is the typed view of the S to D configuration.
type TypeMap[S, D any] struct {
	m   *Mapper
	cfg *Configuration
}

// Configuration returns the untyped configuration.
func (t *TypeMap[S, D]) Configuration() *Configuration { return t.cfg }

// Key returns the configuration key.
func (t *TypeMap[S, D]) Key() Key { return t.cfg.key }

// ForMember binds the destination member dest to the source member path,
// for example "Customer.Address.City". The path is converted to the member
// type when the types differ. Nil links of the path are guarded unless
// CheckNull(false) is given.
func (t *TypeMap[S, D]) ForMember(dest, sourcePath string, opts ...BindingOption) error {
	return t.cfg.ForMember(dest, sourcePath, opts...)
}

// ForMemberExpr binds dest to an arbitrary expression over the source
// parameter. The expression is used verbatim apart from conversion to the
// member type; it is never guarded.
func (t *TypeMap[S, D]) ForMemberExpr(dest string, build func(src *ir.Parameter) (ir.Node, error), opts ...BindingOption) error {
	return t.cfg.ForMemberExpr(dest, build, opts...)
}

// Ignore excludes destination members from default matching and removes
// their bindings. Ignoring a member twice has no further effect.
func (t *TypeMap[S, D]) Ignore(dest ...string) error {
	return t.cfg.Ignore(dest...)
}

// AfterMap appends a hook that runs after the destination was populated.
// Hooks run in registration order; the first error stops the chain and is
// returned by Map together with the populated destination.
func (t *TypeMap[S, D]) AfterMap(fn func(src S, dst *D) error) {
	t.cfg.addHook(func(src, dst reflect.Value) error {
		s, err := valueAs[S](src)
		if err != nil {
			return err
		}

		if d, ok := dst.Interface().(*D); ok {
			return fn(s, d)
		}

		// D is a pointer type: hand out a pointer to the populated pointer
		d, err := valueAs[D](dst.Elem())
		if err != nil {
			return err
		}

		return fn(s, &d)
	})
}

// ConstructUsing replaces the zero value the destination is built on.
func (t *TypeMap[S, D]) ConstructUsing(ctor func() (D, error)) error {
	base := t.cfg.key.Dest

	return t.cfg.setConstructor(func() (reflect.Value, error) {
		d, err := ctor()
		if err != nil {
			return reflect.Value{}, err
		}

		v := reflect.ValueOf(&d).Elem()
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return reflect.Zero(base), nil
			}

			return v.Elem(), nil
		}

		return v, nil
	})
}

// LambdaExpression returns the guarded mapping lambda.
func (t *TypeMap[S, D]) LambdaExpression() (*ir.Lambda, error) {
	return t.cfg.Lambda()
}

// ProjectionLambda returns the mapping lambda without null guards.
func (t *TypeMap[S, D]) ProjectionLambda() (*ir.Lambda, error) {
	return t.cfg.ProjectionLambda()
}

// Delegate returns the compiled mapping function.
func (t *TypeMap[S, D]) Delegate() (func(S) (D, error), error) {
	if _, err := t.m.gate(t.cfg.key); err != nil {
		return nil, err
	}

	if err := t.cfg.compile(); err != nil {
		return nil, err
	}

	return t.Map, nil
}

// Map maps src into a new D.
func (t *TypeMap[S, D]) Map(src S) (D, error) {
	var zero D

	if _, err := t.m.gate(t.cfg.key); err != nil {
		return zero, err
	}

	sv := reflect.ValueOf(&src).Elem()
	if isNil(sv) {
		return zero, nil
	}

	out, err := t.cfg.mapValue(sv)
	if !out.IsValid() {
		return zero, err
	}

	d, convErr := resultAs[D](out)
	if convErr != nil {
		return zero, convErr
	}

	return d, err
}

// MapInto maps src onto an existing destination. Members without a binding
// keep their values. A nil src leaves dst untouched.
func (t *TypeMap[S, D]) MapInto(src S, dst *D) error {
	if _, err := t.m.gate(t.cfg.key); err != nil {
		return err
	}

	sv := reflect.ValueOf(&src).Elem()
	if isNil(sv) {
		return nil
	}

	target, err := intoTarget(dst, t.cfg.key.Dest)
	if err != nil {
		return err
	}

	return t.cfg.mapInto(sv, target)
}

// ReverseMap derives and registers the D to S configuration. Simple
// bindings are inverted; sub-mapped members bind through the reverse of
// their sub-configuration, which is derived when it does not exist yet.
// Flattened and expression bindings have no single source member and are
// not reversed.
func (t *TypeMap[S, D]) ReverseMap(name ...string) (*TypeMap[D, S], error) {
	rev, err := t.m.reverse(t.cfg, firstName(name))
	if err != nil {
		return nil, err
	}

	return &TypeMap[D, S]{m: t.m, cfg: rev}, nil
}

// valueAs converts a source value, possibly a dereferenced pointer, to T.
func valueAs[T any](v reflect.Value) (T, error) {
	var zero T

	want := reflect.TypeFor[T]()

	switch {
	case !v.IsValid():
		return zero, nil
	case v.Type() == want:
		return v.Interface().(T), nil
	case want.Kind() == reflect.Ptr && want.Elem() == v.Type():
		if v.CanAddr() {
			return v.Addr().Interface().(T), nil
		}

		p := reflect.New(v.Type())
		p.Elem().Set(v)

		return p.Interface().(T), nil
	default:
		return zero, fmt.Errorf("%w: %s is not %s", ErrUnsupportedType, v.Type(), want)
	}
}

// resultAs converts a destination value to D, allocating when D is a
// pointer type.
func resultAs[D any](v reflect.Value) (D, error) {
	want := reflect.TypeFor[D]()
	if want.Kind() == reflect.Ptr && v.Kind() != reflect.Ptr {
		p := reflect.New(v.Type())
		p.Elem().Set(v)

		return p.Interface().(D), nil
	}

	return valueAs[D](v)
}

// intoTarget returns the addressable struct dst points to. A *D where D is
// itself a pointer is followed, allocating when nil.
func intoTarget[D any](dst *D, base reflect.Type) (reflect.Value, error) {
	if dst == nil {
		return reflect.Value{}, fmt.Errorf("%w: nil destination", ErrUnsupportedType)
	}

	v := reflect.ValueOf(dst).Elem()
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			v.Set(reflect.New(base))
		}

		v = v.Elem()
	}

	return v, nil
}
