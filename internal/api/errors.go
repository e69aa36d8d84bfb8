package api

import (
	"errors"
	"fmt"
)

// Kind classifies a failed operation.
type Kind int

const (
	// KindNetwork means no response was received at all.
	KindNetwork Kind = iota
	// KindTimeout means the 15-second request timeout elapsed.
	KindTimeout
	// KindHTTP means the backend answered with a non-2xx HTTP status.
	KindHTTP
	// KindValidation means the request was rejected client-side before
	// dispatch.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindHTTP:
		return "http"
	case KindValidation:
		return "validation"
	default:
		return "network"
	}
}

// Error is the single error type this package returns. Message carries the
// server-supplied message when one was present; callers fall back to their
// own generic message when it is empty.
type Error struct {
	Kind       Kind
	Message    string
	HTTPStatus int
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a request-timeout failure.
func IsTimeout(err error) bool { return isKind(err, KindTimeout) }

// IsValidation reports whether err was raised client-side before dispatch.
func IsValidation(err error) bool { return isKind(err, KindValidation) }

func isKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

func validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}
