package mapper

import (
	"fmt"
	"path"
	"reflect"
	"runtime"

	"go.uber.org/zap"

	"shape-mapper/ir"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type converterKey struct {
	Source, Dest reflect.Type
}

type converter struct {
	Name    string // package.Func, used when rendering the Call node
	Source  reflect.Type
	Dest    reflect.Type
	HasBool bool
	HasErr  bool
	fn      reflect.Value
}

// parseConverter inspects fn and describes it as a converter function.
//
// Supported signatures:
//   - func(src S) D
//   - func(src S) (D, bool)
//   - func(src S) (D, error)
//   - func(src S) (D, bool, error)
//
// A false bool result yields the zero D.
func parseConverter(fn any) (converter, error) {
	if fn == nil {
		return converter{}, fmt.Errorf("%w: nil", ErrInvalidConverter)
	}

	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()

	if fnType.Kind() != reflect.Func {
		return converter{}, fmt.Errorf("%w: %s is not a function", ErrInvalidConverter, fnType)
	}

	if fnType.NumIn() != 1 || fnType.NumOut() == 0 || fnType.IsVariadic() {
		return converter{}, fmt.Errorf("%w: %s", ErrInvalidConverter, fnType)
	}

	src, dst := fnType.In(0), fnType.Out(0)
	if isDoublePointer(src) || isDoublePointer(dst) {
		return converter{}, fmt.Errorf("%w: %s uses a double pointer", ErrInvalidConverter, fnType)
	}

	c := converter{Name: funcName(fnVal), Source: src, Dest: dst, fn: fnVal}

	switch fnType.NumOut() {
	case 1:
		return c, nil

	case 2:
		last := fnType.Out(1)

		switch {
		case last.Kind() == reflect.Bool:
			c.HasBool = true
		case last.Implements(errorType):
			c.HasErr = true
		default:
			return converter{}, fmt.Errorf("%w: %s", ErrInvalidConverter, fnType)
		}

		return c, nil

	case 3:
		if fnType.Out(1).Kind() != reflect.Bool || !fnType.Out(2).Implements(errorType) {
			return converter{}, fmt.Errorf("%w: %s", ErrInvalidConverter, fnType)
		}

		c.HasBool, c.HasErr = true, true

		return c, nil

	default:
		return converter{}, fmt.Errorf("%w: %s", ErrInvalidConverter, fnType)
	}
}

func isDoublePointer(t reflect.Type) bool {
	return t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Ptr
}

// funcName renders pkg.Func for a function value; closures keep their
// generated suffix.
func funcName(fn reflect.Value) string {
	full := runtime.FuncForPC(fn.Pointer()).Name()
	_, last := path.Split(full)

	if last == "" {
		return "func"
	}

	return last
}

// call wraps the converter as an ir.CallFunc.
func (c converter) call() ir.CallFunc {
	return func(arg reflect.Value) (reflect.Value, error) {
		out := c.fn.Call([]reflect.Value{arg})

		if c.HasErr {
			if err, _ := out[len(out)-1].Interface().(error); err != nil {
				return reflect.Value{}, fmt.Errorf("%s: %w", c.Name, err)
			}
		}

		if c.HasBool && !out[1].Bool() {
			return reflect.Zero(c.Dest), nil
		}

		return out[0], nil
	}
}

// RegisterConverter registers fn as the conversion between its argument and
// result types. Bindings whose source and destination types match the
// function use it ahead of the built-in primitive conversions. A later
// registration for the same pair replaces the earlier one.
func (m *Mapper) RegisterConverter(fn any) error {
	c, err := parseConverter(fn)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.converters[converterKey{c.Source, c.Dest}] = c
	m.mu.Unlock()

	m.logger.Debug("converter registered",
		zap.String("name", c.Name),
		zap.Stringer("source", c.Source),
		zap.Stringer("dest", c.Dest))

	return nil
}

// lookupConverter finds the converter registered for from and want.
func (m *Mapper) lookupConverter(from, want reflect.Type) (converter, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if c, ok := m.converters[converterKey{from, want}]; ok {
		return c, true
	}

	return converter{}, false
}
