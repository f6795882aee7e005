package apperr

import (
	"fmt"
	"net/http"
)

// Kind classifies an operation failure so callers can branch on the
// category instead of parsing messages.
type Kind int

const (
	// KindValidation: missing or malformed input, rejected before any write.
	KindValidation Kind = iota
	// KindConflict: duplicate pending request, self-request, already assigned
	// elsewhere, lost accept race. No partial mutation happened.
	KindConflict
	// KindNotFound: unknown request/team/user/hackathon id.
	KindNotFound
	// KindForbidden: actor lacks the captain/receiver/sender authority for
	// the attempted transition.
	KindForbidden
	// KindState: transition attempted on a non-pending request. CurrentStatus
	// carries the status the request actually has.
	KindState
	// KindInternal: storage failure, nothing category-specific to report.
	KindInternal
)

type Error struct {
	Kind          Kind
	Message       string
	CurrentStatus string
}

func (e *Error) Error() string { return e.Message }

// HTTPStatus maps the error kind to a response status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict, KindState:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// State reports an illegal transition and the status the record holds now.
func State(current string, format string, args ...interface{}) *Error {
	return &Error{Kind: KindState, Message: fmt.Sprintf(format, args...), CurrentStatus: current}
}

func Internal(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}
