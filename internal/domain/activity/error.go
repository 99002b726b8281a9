package activity

import "errors"

var (
	ErrNotFound     = errors.New("activity not found")
	ErrInvalidInput = errors.New("invalid input")
)
