package match

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shape-mapper/primitive"
)

type (
	address    struct{ City string }
	addressDTO struct{ City string }
	status     int
	stringer   interface{ String() string }
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name   string
		source reflect.Type
		target reflect.Type
		want   TypeCompatibility
	}{
		{"identical", reflect.TypeFor[int](), reflect.TypeFor[int](), TypeIdentical},
		{"identical time", reflect.TypeFor[time.Time](), reflect.TypeFor[time.Time](), TypeIdentical},
		{"interface", reflect.TypeFor[time.Duration](), reflect.TypeFor[stringer](), TypeAssignable},
		{"widening", reflect.TypeFor[int32](), reflect.TypeFor[int64](), TypeConvertible},
		{"named", reflect.TypeFor[status](), reflect.TypeFor[int](), TypeConvertible},
		{"narrowing", reflect.TypeFor[int64](), reflect.TypeFor[int32](), TypeIncompatible},
		{"dereference", reflect.TypeFor[*int](), reflect.TypeFor[int64](), TypeNeedsTransform},
		{"address", reflect.TypeFor[int](), reflect.TypeFor[*int](), TypeNeedsTransform},
		{"struct", reflect.TypeFor[address](), reflect.TypeFor[addressDTO](), TypeNeedsMapper},
		{"struct pointer", reflect.TypeFor[*address](), reflect.TypeFor[addressDTO](), TypeNeedsMapper},
		{"struct slice", reflect.TypeFor[[]address](), reflect.TypeFor[[]*addressDTO](), TypeNeedsElementMapper},
		{"value slice", reflect.TypeFor[[]int8](), reflect.TypeFor[[]int](), TypeNeedsElementMapper},
		{"struct to value", reflect.TypeFor[address](), reflect.TypeFor[string](), TypeIncompatible},
		{"string to int", reflect.TypeFor[string](), reflect.TypeFor[int](), TypeIncompatible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.source, tt.target, primitive.CategoryDefault)
			assert.Equal(t, tt.want, got.Level, got.Reason)
		})
	}
}

func TestCompare_Categories(t *testing.T) {
	got := Compare(reflect.TypeFor[string](), reflect.TypeFor[int](), primitive.CategoryTextNumber)
	assert.Equal(t, TypeConvertible, got.Level)

	got = Compare(reflect.TypeFor[*string](), reflect.TypeFor[int](), primitive.CategoryTextNumber)
	assert.Equal(t, TypeNeedsTransform, got.Level)
}

func TestTypeCompatibility_String(t *testing.T) {
	assert.Equal(t, "needs_mapper", TypeNeedsMapper.String())
	assert.Equal(t, "unknown", TypeCompatibility(99).String())
	assert.False(t, TypeIncompatible.Compatible())
	assert.True(t, TypeNeedsElementMapper.Compatible())
}
