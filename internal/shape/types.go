package shape

import (
	"reflect"
	"strings"
	"sync"
	"time"
)

// TagKey is the struct tag consulted for per-field options.
const TagKey = "mapper"

// Kind represents the kind of a shape.
type Kind int

const (
	KindOther     Kind = iota
	KindPrimitive      // int, string, bool, time.Time, named variants
	KindStruct         // struct type
	KindPointer        // pointer to another type
	KindSlice          // slice of another type
	KindArray          // array of another type
	KindMap            // map type
	KindInterface      // interface type
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindStruct:
		return "struct"
	case KindPointer:
		return "pointer"
	case KindSlice:
		return "slice"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindInterface:
		return "interface"
	default:
		return "other"
	}
}

// Descriptor describes a Go type as a set of named members.
type Descriptor struct {
	Type   reflect.Type
	Kind   Kind
	Fields []Field // For structs, the members in declaration order

	byName map[string]int
}

// Field describes a struct member.
type Field struct {
	Name     string
	Type     reflect.Type
	Index    []int             // Index path for reflect.Value.FieldByIndex
	Exported bool              // Whether the field is exported
	Readable bool              // Whether the value can be read through reflection
	Writable bool              // Whether the value can be set through reflection
	Skip     bool              // Hidden from default matching (tag `mapper:"-"`)
	Tag      reflect.StructTag // Raw struct tag
}

// Field returns the member with the given name.
func (d *Descriptor) Field(name string) (Field, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Field{}, false
	}

	return d.Fields[i], true
}

// Writable returns the members that can be assigned.
func (d *Descriptor) Writable() []Field {
	var out []Field

	for _, f := range d.Fields {
		if f.Writable {
			out = append(out, f)
		}
	}

	return out
}

var cache sync.Map // reflect.Type -> *Descriptor

// Of returns the descriptor for t, building it on first use.
func Of(t reflect.Type) *Descriptor {
	if d, ok := cache.Load(t); ok {
		return d.(*Descriptor)
	}

	d, _ := cache.LoadOrStore(t, build(t))

	return d.(*Descriptor)
}

func build(t reflect.Type) *Descriptor {
	d := &Descriptor{
		Type:   t,
		Kind:   KindOf(t),
		byName: make(map[string]int),
	}

	if d.Kind != KindStruct {
		return d
	}

	for _, sf := range reflect.VisibleFields(t) {
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			// members of embedded value structs are promoted below
			continue
		}

		if viaEmbeddedPointer(t, sf.Index) {
			continue
		}

		exported := sf.IsExported() && !viaUnexported(t, sf.Index)
		f := Field{
			Name:     sf.Name,
			Type:     sf.Type,
			Index:    sf.Index,
			Exported: exported,
			Readable: exported,
			Writable: exported,
			Skip:     strings.TrimSpace(sf.Tag.Get(TagKey)) == "-",
			Tag:      sf.Tag,
		}

		d.byName[f.Name] = len(d.Fields)
		d.Fields = append(d.Fields, f)
	}

	return d
}

// viaEmbeddedPointer reports whether reaching index passes through an
// embedded pointer, which FieldByIndex cannot traverse when nil.
func viaEmbeddedPointer(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		f := t.Field(i)
		if f.Type.Kind() == reflect.Ptr {
			return true
		}

		t = f.Type
	}

	return false
}

// viaUnexported reports whether reaching index passes through an unexported
// embedded struct, whose promoted members are read-only to reflection.
func viaUnexported(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		f := t.Field(i)
		if !f.IsExported() {
			return true
		}

		t = f.Type
	}

	return false
}

var timeType = reflect.TypeOf(time.Time{})

// KindOf classifies t.
func KindOf(t reflect.Type) Kind {
	if t == nil {
		return KindOther
	}

	if t == timeType {
		return KindPrimitive
	}

	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return KindPrimitive
	case reflect.Struct:
		return KindStruct
	case reflect.Ptr:
		return KindPointer
	case reflect.Slice:
		return KindSlice
	case reflect.Array:
		return KindArray
	case reflect.Map:
		return KindMap
	case reflect.Interface:
		return KindInterface
	default:
		return KindOther
	}
}

// Base strips pointer indirections.
func Base(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t
}

// IsReferenceShape reports whether t is a struct, or a pointer to one, that
// is not treated as a primitive value.
func IsReferenceShape(t reflect.Type) bool {
	if t == nil {
		return false
	}

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
		if t.Kind() == reflect.Ptr {
			return false
		}
	}

	return KindOf(t) == KindStruct
}

// ElemShape returns the element type of a slice or array of reference shapes.
func ElemShape(t reflect.Type) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}

	if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
		return nil, false
	}

	if !IsReferenceShape(t.Elem()) {
		return nil, false
	}

	return t.Elem(), true
}

// Nilable reports whether values of t can be nil.
func Nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Interface, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
