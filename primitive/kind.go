package primitive

import (
	"reflect"
	"strconv"
	"time"
)

// KindEnum classifies the value types a primitive conversion can be
// defined for.
type KindEnum int

const (
	KindInvalid KindEnum = iota
	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindPrimitiveEnum // named integer or string type
)

type numberClass int

const (
	notNumber numberClass = iota
	signed
	unsigned
	floating
)

type kindInfo struct {
	name  string
	class numberClass
	bits  int // 0 for the platform sized int and uint
}

var kinds = [...]kindInfo{
	KindInvalid:       {name: "invalid"},
	KindInt:           {name: "int", class: signed},
	KindInt8:          {name: "int8", class: signed, bits: 8},
	KindInt16:         {name: "int16", class: signed, bits: 16},
	KindInt32:         {name: "int32", class: signed, bits: 32},
	KindInt64:         {name: "int64", class: signed, bits: 64},
	KindUint:          {name: "uint", class: unsigned},
	KindUint8:         {name: "uint8", class: unsigned, bits: 8},
	KindUint16:        {name: "uint16", class: unsigned, bits: 16},
	KindUint32:        {name: "uint32", class: unsigned, bits: 32},
	KindUint64:        {name: "uint64", class: unsigned, bits: 64},
	KindFloat32:       {name: "float32", class: floating, bits: 32},
	KindFloat64:       {name: "float64", class: floating, bits: 64},
	KindBool:          {name: "bool"},
	KindString:        {name: "string"},
	KindTime:          {name: "time"},
	KindDuration:      {name: "duration"},
	KindPrimitiveEnum: {name: "enum"},
}

func (k KindEnum) info() kindInfo {
	if k < 0 || int(k) >= len(kinds) {
		return kindInfo{}
	}

	return kinds[k]
}

func (k KindEnum) String() string {
	if name := k.info().name; name != "" {
		return name
	}

	return "KindEnum(" + strconv.Itoa(int(k)) + ")"
}

func (k KindEnum) IsNumber() bool   { return k.info().class != notNumber }
func (k KindEnum) IsInteger() bool  { return k.IsSigned() || k.IsUnsigned() }
func (k KindEnum) IsFloat() bool    { return k.info().class == floating }
func (k KindEnum) IsSigned() bool   { return k.info().class == signed }
func (k KindEnum) IsUnsigned() bool { return k.info().class == unsigned }

// Bits returns the storage size of a number kind on this platform.
func (k KindEnum) Bits() int {
	if k.info().bits == 0 && k.IsNumber() {
		return strconv.IntSize
	}

	return k.info().bits
}

// span returns the widest a value of k can be, and the width k is
// guaranteed to hold on any platform.
func (k KindEnum) span() (widest, guaranteed int) {
	if b := k.info().bits; b != 0 {
		return b, b
	}

	return 64, 32
}

// mantissa is the number of integer bits a float kind holds exactly.
func (k KindEnum) mantissa() int {
	if k == KindFloat32 {
		return 24
	}

	return 53
}

var exactKinds = map[reflect.Type]KindEnum{
	reflect.TypeFor[int]():           KindInt,
	reflect.TypeFor[int8]():          KindInt8,
	reflect.TypeFor[int16]():         KindInt16,
	reflect.TypeFor[int32]():         KindInt32,
	reflect.TypeFor[int64]():         KindInt64,
	reflect.TypeFor[uint]():          KindUint,
	reflect.TypeFor[uint8]():         KindUint8,
	reflect.TypeFor[uint16]():        KindUint16,
	reflect.TypeFor[uint32]():        KindUint32,
	reflect.TypeFor[uint64]():        KindUint64,
	reflect.TypeFor[float32]():       KindFloat32,
	reflect.TypeFor[float64]():       KindFloat64,
	reflect.TypeFor[bool]():          KindBool,
	reflect.TypeFor[string]():        KindString,
	reflect.TypeFor[time.Time]():     KindTime,
	reflect.TypeFor[time.Duration](): KindDuration,
}

// KindOf classifies t. Named integer and string types other than
// time.Duration are enums; anything else without a kind is KindInvalid.
func KindOf(t reflect.Type) KindEnum {
	if t == nil {
		return KindInvalid
	}

	if k, ok := exactKinds[t]; ok {
		return k
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.String:
		return KindPrimitiveEnum
	default:
		return KindInvalid
	}
}
