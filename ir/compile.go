package ir

import (
	"fmt"
	"reflect"
	"sync"
)

// Func is a compiled lambda.
type Func func(arg reflect.Value) (reflect.Value, error)

// IntoFunc is a compiled construction that populates an existing value.
// dst must be an addressable struct of the constructed type.
type IntoFunc func(arg, dst reflect.Value) error

// frame holds the parameter slots of one top-level invocation.
type frame struct {
	slots []reflect.Value
}

type evalFn func(f *frame) (reflect.Value, error)

type compiler struct {
	slots map[*Parameter]int
}

// Compile lowers a lambda to a closure tree.
func Compile(l *Lambda) (Func, error) {
	c := &compiler{slots: map[*Parameter]int{l.Param: 0}}

	body, err := c.compile(l.Body)
	if err != nil {
		return nil, err
	}

	n := len(c.slots)
	want := l.Param.Type()

	return func(arg reflect.Value) (reflect.Value, error) {
		arg, err := fitArg(arg, want)
		if err != nil {
			return reflect.Value{}, err
		}

		f := &frame{slots: make([]reflect.Value, n)}
		f.slots[0] = arg

		return body(f)
	}, nil
}

// CompileInto lowers a lambda whose body is a Construct into a function
// that assigns the member initializers onto an existing value.
func CompileInto(l *Lambda) (IntoFunc, error) {
	ctor, ok := l.Body.(*Construct)
	if !ok {
		return nil, fmt.Errorf("%w: body of %s is not a construction", ErrTypeMismatch, l)
	}

	c := &compiler{slots: map[*Parameter]int{l.Param: 0}}

	values := make([]evalFn, len(ctor.Bindings))

	for i, b := range ctor.Bindings {
		fn, err := c.compile(b.Value)
		if err != nil {
			return nil, err
		}

		values[i] = fn
	}

	n := len(c.slots)
	want := l.Param.Type()
	bindings := ctor.Bindings

	return func(arg, dst reflect.Value) error {
		arg, err := fitArg(arg, want)
		if err != nil {
			return err
		}

		if dst.Type() != ctor.typ || !dst.CanSet() {
			return fmt.Errorf("%w: destination must be an addressable %s", ErrTypeMismatch, ctor.typ)
		}

		f := &frame{slots: make([]reflect.Value, n)}
		f.slots[0] = arg

		for i, fn := range values {
			v, err := fn(f)
			if err != nil {
				return err
			}

			dst.FieldByIndex(bindings[i].Index).Set(v)
		}

		return nil
	}, nil
}

func fitArg(arg reflect.Value, want reflect.Type) (reflect.Value, error) {
	if !arg.IsValid() {
		return reflect.Zero(want), nil
	}

	if arg.Type() == want {
		return arg, nil
	}

	if arg.Type().Kind() == reflect.Ptr && arg.Type().Elem() == want {
		if arg.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: nil %s argument", ErrNilReference, arg.Type())
		}

		return arg.Elem(), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: argument is %s, want %s", ErrTypeMismatch, arg.Type(), want)
}

func (c *compiler) compile(n Node) (evalFn, error) {
	switch t := n.(type) {
	case *Parameter:
		slot, ok := c.slots[t]
		if !ok {
			return nil, fmt.Errorf("%w: parameter %s is not in scope", ErrTypeMismatch, t)
		}

		return func(f *frame) (reflect.Value, error) { return f.slots[slot], nil }, nil

	case *Constant:
		v := t.value

		return func(*frame) (reflect.Value, error) { return v, nil }, nil

	case *Member:
		return c.compileMember(t)

	case *Conditional:
		return c.compileConditional(t)

	case *Construct:
		return c.compileConstruct(t)

	case *Convert:
		return c.compileConvert(t)

	case *Binary:
		return c.compileBinary(t)

	case *Not:
		op, err := c.compile(t.Operand)
		if err != nil {
			return nil, err
		}

		return func(f *frame) (reflect.Value, error) {
			v, err := op(f)
			if err != nil {
				return reflect.Value{}, err
			}

			return reflect.ValueOf(!v.Bool()), nil
		}, nil

	case *Invoke:
		return c.compileInvoke(t)

	case *MapElements:
		return c.compileMapElements(t)

	case *Call:
		arg, err := c.compile(t.Arg)
		if err != nil {
			return nil, err
		}

		fn, typ, name := t.Fn, t.typ, t.Name

		return func(f *frame) (reflect.Value, error) {
			a, err := arg(f)
			if err != nil {
				return reflect.Value{}, err
			}

			out, err := fn(a)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%s: %w", name, err)
			}

			if !out.IsValid() {
				return reflect.Zero(typ), nil
			}

			return out, nil
		}, nil

	default:
		return nil, fmt.Errorf("%w: cannot compile %T", ErrTypeMismatch, n)
	}
}

func (c *compiler) compileMember(m *Member) (evalFn, error) {
	obj, err := c.compile(m.Object)
	if err != nil {
		return nil, err
	}

	index := m.Index
	desc := m.String()

	return func(f *frame) (reflect.Value, error) {
		v, err := obj(f)
		if err != nil {
			return reflect.Value{}, err
		}

		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return reflect.Value{}, fmt.Errorf("%w: %s", ErrNilReference, desc)
			}

			v = v.Elem()
		}

		return v.FieldByIndex(index), nil
	}, nil
}

func (c *compiler) compileConditional(cond *Conditional) (evalFn, error) {
	test, err := c.compile(cond.Test)
	if err != nil {
		return nil, err
	}

	then, err := c.compile(cond.Then)
	if err != nil {
		return nil, err
	}

	els, err := c.compile(cond.Else)
	if err != nil {
		return nil, err
	}

	return func(f *frame) (reflect.Value, error) {
		ok, err := test(f)
		if err != nil {
			return reflect.Value{}, err
		}

		if ok.Bool() {
			return then(f)
		}

		return els(f)
	}, nil
}

func (c *compiler) compileConstruct(ctor *Construct) (evalFn, error) {
	values := make([]evalFn, len(ctor.Bindings))

	for i, b := range ctor.Bindings {
		fn, err := c.compile(b.Value)
		if err != nil {
			return nil, err
		}

		values[i] = fn
	}

	typ := ctor.typ
	bindings := ctor.Bindings

	return func(f *frame) (reflect.Value, error) {
		out := reflect.New(typ).Elem()

		for i, fn := range values {
			v, err := fn(f)
			if err != nil {
				return reflect.Value{}, err
			}

			out.FieldByIndex(bindings[i].Index).Set(v)
		}

		return out, nil
	}, nil
}

func (c *compiler) compileConvert(conv *Convert) (evalFn, error) {
	op, err := c.compile(conv.Operand)
	if err != nil {
		return nil, err
	}

	typ := conv.typ
	desc := conv.String()

	switch conv.Mode {
	case ConvertWrap:
		return func(f *frame) (reflect.Value, error) {
			v, err := op(f)
			if err != nil {
				return reflect.Value{}, err
			}

			p := reflect.New(typ.Elem())
			p.Elem().Set(v)

			return p, nil
		}, nil

	case ConvertUnwrap:
		return func(f *frame) (reflect.Value, error) {
			v, err := op(f)
			if err != nil {
				return reflect.Value{}, err
			}

			if v.IsNil() {
				return reflect.Value{}, fmt.Errorf("%w: %s", ErrNilReference, desc)
			}

			return v.Elem(), nil
		}, nil

	default:
		return func(f *frame) (reflect.Value, error) {
			v, err := op(f)
			if err != nil {
				return reflect.Value{}, err
			}

			return v.Convert(typ), nil
		}, nil
	}
}

func (c *compiler) compileBinary(b *Binary) (evalFn, error) {
	left, err := c.compile(b.Left)
	if err != nil {
		return nil, err
	}

	right, err := c.compile(b.Right)
	if err != nil {
		return nil, err
	}

	op := b.Op

	if op.IsLogical() {
		return func(f *frame) (reflect.Value, error) {
			l, err := left(f)
			if err != nil {
				return reflect.Value{}, err
			}

			if op == OpAnd && !l.Bool() {
				return reflect.ValueOf(false), nil
			}

			if op == OpOr && l.Bool() {
				return reflect.ValueOf(true), nil
			}

			return right(f)
		}, nil
	}

	return func(f *frame) (reflect.Value, error) {
		l, err := left(f)
		if err != nil {
			return reflect.Value{}, err
		}

		r, err := right(f)
		if err != nil {
			return reflect.Value{}, err
		}

		switch op {
		case OpEq:
			return reflect.ValueOf(EqualValues(l, r)), nil
		case OpNe:
			return reflect.ValueOf(!EqualValues(l, r)), nil
		}

		order, err := CompareValues(l, r)
		if err != nil {
			return reflect.Value{}, err
		}

		var res bool

		switch op {
		case OpLt:
			res = order < 0
		case OpLe:
			res = order <= 0
		case OpGt:
			res = order > 0
		case OpGe:
			res = order >= 0
		}

		return reflect.ValueOf(res), nil
	}, nil
}

func (c *compiler) compileInvoke(inv *Invoke) (evalFn, error) {
	arg, err := c.compile(inv.Arg)
	if err != nil {
		return nil, err
	}

	target := inv.Target
	typ := inv.typ
	wrap := typ != target.OutputType()

	var (
		once  sync.Once
		fn    Func
		fnErr error
	)

	resolve := func() (Func, error) {
		// resolved on first use so that self-referencing shapes terminate
		once.Do(func() {
			if ci, ok := target.(CompiledInvocable); ok {
				fn, fnErr = ci.Compiled()
				return
			}

			l, err := target.Lambda()
			if err != nil {
				fnErr = err
				return
			}

			fn, fnErr = Compile(l)
		})

		return fn, fnErr
	}

	return func(f *frame) (reflect.Value, error) {
		a, err := arg(f)
		if err != nil {
			return reflect.Value{}, err
		}

		if a.Kind() == reflect.Ptr && a.IsNil() {
			return reflect.Zero(typ), nil
		}

		call, err := resolve()
		if err != nil {
			return reflect.Value{}, err
		}

		out, err := call(a)
		if err != nil {
			return reflect.Value{}, err
		}

		if wrap {
			p := reflect.New(out.Type())
			p.Elem().Set(out)

			return p, nil
		}

		return out, nil
	}, nil
}

func (c *compiler) compileMapElements(me *MapElements) (evalFn, error) {
	src, err := c.compile(me.Source)
	if err != nil {
		return nil, err
	}

	slot := len(c.slots)
	c.slots[me.Elem.Param] = slot

	elem, err := c.compile(me.Elem.Body)
	if err != nil {
		return nil, err
	}

	typ := me.typ

	return func(f *frame) (reflect.Value, error) {
		s, err := src(f)
		if err != nil {
			return reflect.Value{}, err
		}

		if s.Kind() == reflect.Slice && s.IsNil() {
			return reflect.Zero(typ), nil
		}

		n := s.Len()

		var out reflect.Value
		if typ.Kind() == reflect.Slice {
			out = reflect.MakeSlice(typ, n, n)
		} else {
			out = reflect.New(typ).Elem()
			n = min(n, typ.Len())
		}

		for i := range n {
			f.slots[slot] = s.Index(i)

			v, err := elem(f)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}

			out.Index(i).Set(v)
		}

		return out, nil
	}, nil
}
