package stats

import "errors"

var (
	ErrLengthMismatch       = errors.New("length mismatch")
	ErrInvalidWeights       = errors.New("invalid weights")
	ErrInvalidTime          = errors.New("invalid time")
	ErrUnknownOutputType    = errors.New("unknown output type")
	ErrProportionOutOfRange = errors.New("proportion outside [0, 1]")
)
