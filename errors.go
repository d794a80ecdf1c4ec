package main

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the fatal errors a documentation run can end with.
type ErrorKind string

const (
	KindResolution        ErrorKind = "resolution"
	KindMessageNotFound   ErrorKind = "message_not_found"
	KindUnsupportedFormat ErrorKind = "unsupported_format"
	KindCatalog           ErrorKind = "catalog"
	KindConfig            ErrorKind = "config"
)

// Error is a classified error. Every Error aborts the run.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newErrorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapErrorf(err error, kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: err}
}

// IsKind reports whether err or anything it wraps is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}
