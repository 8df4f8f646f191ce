package mapper

import (
	"reflect"

	"shape-mapper/internal/shape"
)

// Key identifies a configuration. Pointer types are normalized to the type
// they point to, so Key{*Order, OrderDTO} and Key{Order, OrderDTO} are equal.
// An empty Name is the default slot of the pair.
type Key struct {
	Source reflect.Type
	Dest   reflect.Type
	Name   string
}

// NewKey creates a normalized key.
func NewKey(source, dest reflect.Type, name string) Key {
	return Key{Source: shape.Base(source), Dest: shape.Base(dest), Name: name}
}

// KeyOf creates the key of the S to D mapping.
func KeyOf[S, D any](name ...string) Key {
	return NewKey(reflect.TypeFor[S](), reflect.TypeFor[D](), firstName(name))
}

// Reverse returns the key of the opposite direction with the given name.
func (k Key) Reverse(name string) Key {
	return Key{Source: k.Dest, Dest: k.Source, Name: name}
}

func (k Key) String() string {
	s := k.Source.String() + " -> " + k.Dest.String()
	if k.Name != "" {
		s += " [" + k.Name + "]"
	}

	return s
}

func firstName(name []string) string {
	if len(name) == 0 {
		return ""
	}

	return name[0]
}
