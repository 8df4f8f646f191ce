package mapper

import (
	"fmt"
	"reflect"
)

// CreateMap returns the S to D configuration, registering it on first use.
// Calling it again for the same key returns the same configuration.
func CreateMap[S, D any](m *Mapper, name ...string) *TypeMap[S, D] {
	cfg := m.configure(KeyOf[S, D](name...))

	return &TypeMap[S, D]{m: m, cfg: cfg}
}

// GetMapper returns the registered S to D configuration.
func GetMapper[S, D any](m *Mapper, name ...string) (*TypeMap[S, D], error) {
	key := KeyOf[S, D](name...)

	cfg, ok := m.registry.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoMapperFound, key)
	}

	return &TypeMap[S, D]{m: m, cfg: cfg}, nil
}

// Map maps src into a new D using the registered configuration. A nil
// source yields the zero D without running the mapping.
func Map[S, D any](m *Mapper, src S, name ...string) (D, error) {
	t, err := GetMapper[S, D](m, name...)
	if err != nil {
		var zero D
		return zero, err
	}

	return t.Map(src)
}

// MapInto maps src onto dst using the registered configuration.
func MapInto[S, D any](m *Mapper, src S, dst *D, name ...string) error {
	t, err := GetMapper[S, D](m, name...)
	if err != nil {
		return err
	}

	return t.MapInto(src, dst)
}

// Delegate returns the compiled S to D mapping function.
func Delegate[S, D any](m *Mapper, name ...string) (func(S) (D, error), error) {
	t, err := GetMapper[S, D](m, name...)
	if err != nil {
		return nil, err
	}

	return t.Delegate()
}

// Clone returns a copy of src built through the T to T configuration,
// which is registered on first use. Members are assigned, so pointers,
// slices and maps are shared with src. Clone does not wait for Initialize.
func Clone[T any](m *Mapper, src T) (T, error) {
	var zero T

	base := reflect.TypeFor[T]()
	for base.Kind() == reflect.Ptr {
		base = base.Elem()
	}

	if base.Kind() != reflect.Struct {
		return zero, fmt.Errorf("%w: cannot clone %s", ErrUnsupportedType, reflect.TypeFor[T]())
	}

	key := NewKey(base, base, "")

	cfg := m.implicit(key)

	sv := reflect.ValueOf(&src).Elem()
	if isNil(sv) {
		return zero, nil
	}

	out, err := cfg.mapValue(sv)
	if err != nil {
		return zero, err
	}

	return resultAs[T](out)
}
