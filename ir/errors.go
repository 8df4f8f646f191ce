package ir

import "errors"

var (
	ErrInvalidPath    = errors.New("invalid member path")
	ErrUnknownMember  = errors.New("unknown member")
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrNilReference   = errors.New("nil reference in member access")
	ErrNotComparable  = errors.New("values are not comparable")
	ErrUntranslatable = errors.New("expression is not translatable by provider")
)
