package apierror

import (
	"errors"
	"net/http"
)

// Kind is the error category. Every error the domain reports belongs to one.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindPrecondition
	KindRemoteStore
	KindPermission
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPrecondition:
		return "precondition"
	case KindRemoteStore:
		return "remote_store"
	case KindPermission:
		return "permission"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is a classified error. Msg is safe to show to the user; Err keeps the
// underlying cause for logs.
type Error struct {
	Kind   Kind
	Code   string
	Msg    string
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind. An empty Code on the target
// matches any code, so the category sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Code == "" || t.Code == e.Code)
}

// Category sentinels.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrPrecondition = &Error{Kind: KindPrecondition}
	ErrRemoteStore  = &Error{Kind: KindRemoteStore}
	ErrPermission   = &Error{Kind: KindPermission}
	ErrNotFound     = &Error{Kind: KindNotFound}
)

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Code: "invalid", Msg: msg}
}

// ValidationField reports a single offending field.
func ValidationField(field, msg string) *Error {
	return &Error{Kind: KindValidation, Code: "invalid", Msg: msg, Fields: map[string]string{field: msg}}
}

func Precondition(code, msg string) *Error {
	return &Error{Kind: KindPrecondition, Code: code, Msg: msg}
}

// RemoteStore wraps a Product Store failure. The cause is logged, never shown.
func RemoteStore(msg string, cause error) *Error {
	return &Error{Kind: KindRemoteStore, Code: "remote_store", Msg: msg, Err: cause}
}

func Permission(msg string) *Error {
	return &Error{Kind: KindPermission, Code: "forbidden", Msg: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Code: "not_found", Msg: msg}
}

// Status maps an error to its HTTP status code. Unclassified errors are 500.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindPrecondition:
		return http.StatusConflict
	case KindRemoteStore:
		return http.StatusBadGateway
	case KindPermission:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Render returns the status and response body for err.
func Render(err error) (int, any) {
	status := Status(err)
	var e *Error
	if !errors.As(err, &e) {
		return status, New("Error interno del servidor")
	}
	if len(e.Fields) > 0 {
		return status, &ValidationResponse{Detail: e.Msg, Fields: e.Fields}
	}
	return status, &APIError{Detail: e.Msg, Code: e.Code}
}
