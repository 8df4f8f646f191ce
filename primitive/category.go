package primitive

import (
	"fmt"
	"strings"
)

// CategoryEnum is a bit set of conversion categories. A conversion between
// two kinds belongs to at most one category, see CategoryOf.
type CategoryEnum int

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // number to number, every value fits
	CategoryUnsafeNumber                          // number to number, may truncate or overflow
	CategoryTextNumber                            // number <-> decimal text
	CategoryNumericBool                           // integer <-> bool as 0 and 1
	CategoryTextualBool                           // text <-> bool (true/false, yes/no, on/off)
	CategoryDatetime                              // text <-> time.Time in RFC 3339
	CategoryTimestamp                             // integer <-> time.Time as Unix seconds
	CategoryDuration                              // text <-> time.Duration ("2h45m")
	CategoryNanoseconds                           // integer <-> time.Duration
	CategorySeconds                               // float <-> time.Duration in seconds
	CategoryEnumString                            // named enum <-> text or another enum

	CategoryAll  = (1 << iota) - 1
	CategoryNone = 0
)

// CategoryDefault is what a mapper allows when nothing is configured.
const CategoryDefault = CategorySafeNumber | CategoryEnumString

var categoryNames = []struct {
	category CategoryEnum
	name     string
}{
	{CategorySafeNumber, "safe_number"},
	{CategoryUnsafeNumber, "unsafe_number"},
	{CategoryTextNumber, "text_number"},
	{CategoryNumericBool, "numeric_bool"},
	{CategoryTextualBool, "textual_bool"},
	{CategoryDatetime, "datetime"},
	{CategoryTimestamp, "timestamp"},
	{CategoryDuration, "duration"},
	{CategoryNanoseconds, "nanoseconds"},
	{CategorySeconds, "seconds"},
	{CategoryEnumString, "enum_string"},
}

// CategoryNames lists the names accepted by ParseCategories.
func CategoryNames() []string {
	out := make([]string, 0, len(categoryNames)+2)
	for _, c := range categoryNames {
		out = append(out, c.name)
	}

	return append(out, "all", "none")
}

// ParseCategories combines categories given by name.
func ParseCategories(names []string) (CategoryEnum, error) {
	var res CategoryEnum

	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))

		switch name {
		case "all":
			res |= CategoryAll
			continue
		case "none", "":
			continue
		}

		found := false

		for _, c := range categoryNames {
			if c.name == name {
				res |= c.category
				found = true

				break
			}
		}

		if !found {
			return 0, fmt.Errorf("unknown conversion category %q", name)
		}
	}

	return res, nil
}

func (c CategoryEnum) String() string {
	if c == CategoryNone {
		return "none"
	}

	if c == CategoryAll {
		return "all"
	}

	var parts []string

	for _, n := range categoryNames {
		if c&n.category != 0 {
			parts = append(parts, n.name)
		}
	}

	return strings.Join(parts, "|")
}

// CategoryOf returns the categories a conversion from one kind to another
// belongs to, CategoryNone when no category covers it.
func CategoryOf(from, to KindEnum) CategoryEnum {
	switch {
	case from.IsNumber() && to.IsNumber():
		if safeNumber(from, to) {
			return CategorySafeNumber
		}

		return CategoryUnsafeNumber

	case from.IsNumber() && to == KindString, from == KindString && to.IsNumber():
		return CategoryTextNumber

	case from.IsInteger() && to == KindBool, from == KindBool && to.IsInteger():
		return CategoryNumericBool

	case from.IsInteger() && to == KindTime, from == KindTime && to.IsInteger():
		return CategoryTimestamp

	case from.IsInteger() && to == KindDuration, from == KindDuration && to.IsInteger():
		if from == KindUint64 || to == KindUint64 {
			return CategoryNone
		}

		return CategoryNanoseconds

	case from.IsFloat() && to == KindDuration, from == KindDuration && to.IsFloat():
		return CategorySeconds
	}

	switch [2]KindEnum{from, to} {
	case [2]KindEnum{KindString, KindBool}, [2]KindEnum{KindBool, KindString}:
		return CategoryTextualBool
	case [2]KindEnum{KindString, KindTime}, [2]KindEnum{KindTime, KindString}:
		return CategoryDatetime
	case [2]KindEnum{KindString, KindDuration}, [2]KindEnum{KindDuration, KindString}:
		return CategoryDuration
	case [2]KindEnum{KindString, KindPrimitiveEnum},
		[2]KindEnum{KindPrimitiveEnum, KindString},
		[2]KindEnum{KindPrimitiveEnum, KindPrimitiveEnum}:
		return CategoryEnumString
	}

	return CategoryNone
}

// safeNumber reports whether every value of from is exactly representable
// in to on any platform. int and uint are treated as 64 bits wide when read
// and 32 bits wide when written.
func safeNumber(from, to KindEnum) bool {
	if from == to {
		return true
	}

	widest, _ := from.span()
	_, room := to.span()

	switch {
	case from.IsFloat():
		return to.IsFloat() && widest <= room

	case to.IsFloat():
		return widest <= to.mantissa()

	case from.IsSigned() && to.IsUnsigned():
		return false

	case from.IsUnsigned() && to.IsSigned():
		return widest < room

	default:
		return widest <= room
	}
}
