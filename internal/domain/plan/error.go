package plan

import "errors"

var (
	ErrNotFound         = errors.New("plan item not found")
	ErrAlreadyCompleted = errors.New("already completed")
	ErrInvalidInput     = errors.New("invalid input")
)
