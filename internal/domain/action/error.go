package action

import (
	"errors"
	"fmt"
)

var ErrUnknownAction = errors.New("unknown action")

// UnknownActionError действие с незарегистрированной парой (домен, операция)
type UnknownActionError struct {
	Kind Kind
	Verb Verb
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %s/%s", e.Kind, e.Verb)
}

func (e *UnknownActionError) Unwrap() error {
	return ErrUnknownAction
}
