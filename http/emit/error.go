package emit

import "errors"

var (
	ErrDoubleEmission = errors.New("exchange already committed")
	ErrEmission       = errors.New("cannot emit")
	ErrInvalid        = errors.New("invalid")
)
