package step

import "errors"

var (
	ErrUnknownOperator      = errors.New("unknown condition operator")
	ErrNonNumericComparison = errors.New("non-numeric value in numeric comparison")
	ErrNotANumber           = errors.New("slot does not contain a number")
	ErrNoPreviousResponse   = errors.New("step requires a previous response but none was carried over")
	ErrUnknownTool          = errors.New("unknown tool referenced by step")
)
