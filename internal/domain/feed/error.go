package feed

import "errors"

var (
	ErrNotFound     = errors.New("message not found")
	ErrInvalidInput = errors.New("invalid input")
)
