package console

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEntry 是所有条目校验错误的哨兵值。
	ErrInvalidEntry = errors.New("invalid entry")
	// ErrClosed 在 Close 之后调用 Append 时返回。
	ErrClosed = errors.New("console closed")
)

// ValidationError 描述被拒绝的条目字段。
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid entry: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidEntry
}
