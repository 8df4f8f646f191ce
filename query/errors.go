package query

import "errors"

var (
	ErrInvalidStage = errors.New("invalid query stage")
	ErrUnordered    = errors.New("then_by without a preceding order_by")
)
