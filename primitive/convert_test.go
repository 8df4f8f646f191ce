package primitive_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shape-mapper/primitive"
)

type Color string

func (c Color) IsValid() bool { return c == "red" || c == "green" }

type Level int

func (l Level) String() string {
	switch l {
	case 1:
		return "low"
	case 2:
		return "high"
	default:
		return "unknown"
	}
}

type Status int

func convert(t *testing.T, v any, to reflect.Type, allowed primitive.CategoryEnum) (any, error) {
	t.Helper()

	c, ok := primitive.Lookup(reflect.TypeOf(v), to, allowed)
	require.True(t, ok, "no conversion from %T to %s", v, to)

	out, err := c.Fn(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}

	return out.Interface(), nil
}

func TestLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   any
		to      reflect.Type
		allowed primitive.CategoryEnum
		want    any
		native  bool
	}{
		{"widening", int32(7), reflect.TypeFor[int64](), primitive.CategorySafeNumber, int64(7), true},
		{"narrowing", int64(7), reflect.TypeFor[int8](), primitive.CategoryUnsafeNumber, int8(7), true},
		{"named int", Status(3), reflect.TypeFor[int](), primitive.CategoryNone, 3, true},
		{"int to named", 3, reflect.TypeFor[Status](), primitive.CategoryNone, Status(3), true},
		{"text number", 42, reflect.TypeFor[string](), primitive.CategoryTextNumber, "42", false},
		{"parse number", "-12", reflect.TypeFor[int16](), primitive.CategoryTextNumber, int16(-12), false},
		{"parse float", "1.5", reflect.TypeFor[float64](), primitive.CategoryTextNumber, 1.5, false},
		{"numeric bool", 1, reflect.TypeFor[bool](), primitive.CategoryNumericBool, true, false},
		{"bool number", true, reflect.TypeFor[uint8](), primitive.CategoryNumericBool, uint8(1), false},
		{"textual bool", "Yes", reflect.TypeFor[bool](), primitive.CategoryTextualBool, true, false},
		{"duration", "2h45m", reflect.TypeFor[time.Duration](), primitive.CategoryDuration, 2*time.Hour + 45*time.Minute, false},
		{"seconds", 1.5, reflect.TypeFor[time.Duration](), primitive.CategorySeconds, 1500 * time.Millisecond, false},
		{"stringer enum", Level(2), reflect.TypeFor[string](), primitive.CategoryEnumString, "high", false},
		{"string enum", "red", reflect.TypeFor[Color](), primitive.CategoryEnumString, Color("red"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, ok := primitive.Lookup(reflect.TypeOf(tt.value), tt.to, tt.allowed)
			require.True(t, ok)
			assert.Equal(t, tt.native, c.Native)

			got, err := convert(t, tt.value, tt.to, tt.allowed)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookup_Rejected(t *testing.T) {
	t.Parallel()

	_, ok := primitive.Lookup(reflect.TypeFor[int64](), reflect.TypeFor[int8](), primitive.CategorySafeNumber)
	assert.False(t, ok, "narrowing is unsafe")

	_, ok = primitive.Lookup(reflect.TypeFor[int](), reflect.TypeFor[string](), primitive.CategoryDefault)
	assert.False(t, ok, "int to string is not a rune conversion")

	_, ok = primitive.Lookup(reflect.TypeFor[Status](), reflect.TypeFor[string](), primitive.CategoryAll)
	assert.False(t, ok, "integer enum without String method")

	_, ok = primitive.Lookup(reflect.TypeFor[struct{}](), reflect.TypeFor[string](), primitive.CategoryAll)
	assert.False(t, ok)
}

func TestLookup_Failures(t *testing.T) {
	t.Parallel()

	_, err := convert(t, "purple", reflect.TypeFor[Color](), primitive.CategoryEnumString)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid value")

	_, err = convert(t, 2, reflect.TypeFor[bool](), primitive.CategoryNumericBool)
	assert.Error(t, err)

	_, err = convert(t, "x1", reflect.TypeFor[int](), primitive.CategoryTextNumber)
	assert.Error(t, err)

	_, err = convert(t, "300", reflect.TypeFor[int8](), primitive.CategoryTextNumber)
	assert.Error(t, err, "out of range for 8 bits")
}

func TestParseCategories(t *testing.T) {
	t.Parallel()

	c, err := primitive.ParseCategories([]string{"safe_number", " Enum_String "})
	require.NoError(t, err)
	assert.Equal(t, primitive.CategoryDefault, c)
	assert.Equal(t, "safe_number|enum_string", c.String())

	c, err = primitive.ParseCategories([]string{"all"})
	require.NoError(t, err)
	assert.Equal(t, primitive.CategoryEnum(primitive.CategoryAll), c)

	_, err = primitive.ParseCategories([]string{"bogus"})
	assert.Error(t, err)

	assert.Contains(t, primitive.CategoryNames(), "datetime")
}

func TestCategoryOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to primitive.KindEnum
		want     primitive.CategoryEnum
	}{
		{primitive.KindInt, primitive.KindInt, primitive.CategorySafeNumber},
		{primitive.KindInt, primitive.KindInt64, primitive.CategorySafeNumber},
		{primitive.KindInt64, primitive.KindInt, primitive.CategoryUnsafeNumber},
		{primitive.KindInt32, primitive.KindInt, primitive.CategorySafeNumber},
		{primitive.KindInt16, primitive.KindFloat32, primitive.CategorySafeNumber},
		{primitive.KindInt32, primitive.KindFloat32, primitive.CategoryUnsafeNumber},
		{primitive.KindInt32, primitive.KindFloat64, primitive.CategorySafeNumber},
		{primitive.KindInt, primitive.KindFloat64, primitive.CategoryUnsafeNumber},
		{primitive.KindUint8, primitive.KindInt16, primitive.CategorySafeNumber},
		{primitive.KindUint16, primitive.KindInt16, primitive.CategoryUnsafeNumber},
		{primitive.KindUint32, primitive.KindInt64, primitive.CategorySafeNumber},
		{primitive.KindUint32, primitive.KindInt, primitive.CategoryUnsafeNumber},
		{primitive.KindInt8, primitive.KindUint64, primitive.CategoryUnsafeNumber},
		{primitive.KindFloat32, primitive.KindFloat64, primitive.CategorySafeNumber},
		{primitive.KindFloat64, primitive.KindFloat32, primitive.CategoryUnsafeNumber},
		{primitive.KindFloat32, primitive.KindInt64, primitive.CategoryUnsafeNumber},
		{primitive.KindString, primitive.KindUint16, primitive.CategoryTextNumber},
		{primitive.KindBool, primitive.KindInt8, primitive.CategoryNumericBool},
		{primitive.KindBool, primitive.KindString, primitive.CategoryTextualBool},
		{primitive.KindTime, primitive.KindString, primitive.CategoryDatetime},
		{primitive.KindInt64, primitive.KindTime, primitive.CategoryTimestamp},
		{primitive.KindString, primitive.KindDuration, primitive.CategoryDuration},
		{primitive.KindInt64, primitive.KindDuration, primitive.CategoryNanoseconds},
		{primitive.KindUint64, primitive.KindDuration, primitive.CategoryNone},
		{primitive.KindDuration, primitive.KindFloat64, primitive.CategorySeconds},
		{primitive.KindPrimitiveEnum, primitive.KindString, primitive.CategoryEnumString},
		{primitive.KindPrimitiveEnum, primitive.KindPrimitiveEnum, primitive.CategoryEnumString},
		{primitive.KindFloat64, primitive.KindBool, primitive.CategoryNone},
		{primitive.KindTime, primitive.KindDuration, primitive.CategoryNone},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"_to_"+tt.to.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, primitive.CategoryOf(tt.from, tt.to))
		})
	}
}
