package primitive_test

import (
	"fmt"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shape-mapper/primitive"
)

func ExampleKindOf() {
	type Level int
	type Status string
	type Empty struct{}

	for _, t := range []reflect.Type{
		reflect.TypeFor[int](),
		reflect.TypeFor[string](),
		reflect.TypeFor[Level](),
		reflect.TypeFor[Status](),
		reflect.TypeFor[time.Duration](),
		reflect.TypeFor[time.Time](),
		reflect.TypeFor[Empty](),
		reflect.TypeFor[float32](),
	} {
		fmt.Println(primitive.KindOf(t))
	}
	// Output:
	// int
	// string
	// enum
	// enum
	// duration
	// time
	// invalid
	// float32
}

func TestKindEnum_Classes(t *testing.T) {
	assert.True(t, primitive.KindInt.IsSigned())
	assert.True(t, primitive.KindUint16.IsUnsigned())
	assert.True(t, primitive.KindFloat64.IsFloat())
	assert.True(t, primitive.KindUint.IsInteger())
	assert.False(t, primitive.KindFloat32.IsInteger())
	assert.False(t, primitive.KindDuration.IsNumber())
	assert.False(t, primitive.KindPrimitiveEnum.IsNumber())

	assert.Equal(t, strconv.IntSize, primitive.KindInt.Bits())
	assert.Equal(t, 16, primitive.KindInt16.Bits())
	assert.Equal(t, 0, primitive.KindString.Bits())
	assert.Equal(t, "KindEnum(99)", primitive.KindEnum(99).String())
}
