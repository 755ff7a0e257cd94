// Package fault carries the typed business errors shared by all services.
package fault

import (
	"errors"
	"fmt"
)

type Code string

const (
	Validation    Code = "VALIDATION"
	NotFound      Code = "NOT_FOUND"
	OutOfStock    Code = "OUT_OF_STOCK"
	LimitExceeded Code = "LIMIT_EXCEEDED"
	Conflict      Code = "CONFLICT"
	Store         Code = "STORE_FAILURE"
)

type codedError struct {
	code Code
	msg  string
	err  error
}

func (e *codedError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *codedError) Unwrap() error { return e.err }
func (e *codedError) Code() Code    { return e.code }

func New(c Code, msg string) error { return &codedError{code: c, msg: msg} }

func Newf(c Code, format string, args ...any) error {
	return &codedError{code: c, msg: fmt.Sprintf(format, args...)}
}

// Wrap marks an underlying error (usually a driver error) with a code.
func Wrap(c Code, msg string, err error) error {
	return &codedError{code: c, msg: msg, err: err}
}

// CodeOf extracts the business code, or "" for uncoded errors.
func CodeOf(err error) Code {
	var ce interface{ Code() Code }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

func Is(err error, c Code) bool { return CodeOf(err) == c }
