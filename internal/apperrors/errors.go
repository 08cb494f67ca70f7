package apperrors

import (
	"errors"
	"strings"
)

type Kind string

const (
	KindTransient  Kind = "transient"
	KindRateLimit  Kind = "rate_limit"
	KindAuth       Kind = "auth"
	KindValidation Kind = "validation"
	KindBadRequest Kind = "bad_request"
	// KindBusy rejects a request because an equivalent operation is already running.
	KindBusy     Kind = "busy"
	KindNotFound Kind = "not_found"
)

type Error struct {
	Kind Kind
	// SafeMessage is intended for user-facing output and logs.
	SafeMessage string
	// Cause keeps the original internal error for troubleshooting.
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.SafeMessage); msg != "" {
		return msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

var safeMessages = map[Kind]string{
	KindTransient:  "Temporary upstream error. Please try again.",
	KindRateLimit:  "Rate limit exceeded. Please try again later.",
	KindAuth:       "Authentication failed. Please verify your API key.",
	KindValidation: "Invalid input.",
	KindBadRequest: "Request rejected by upstream API.",
	KindBusy:       "Another operation is already in progress.",
	KindNotFound:   "Not found.",
}

func defaultSafeMessage(kind Kind) string {
	if msg, ok := safeMessages[kind]; ok {
		return msg
	}
	return "Request failed."
}

func New(kind Kind, safeMessage string, cause error) error {
	msg := strings.TrimSpace(safeMessage)
	if msg == "" {
		msg = defaultSafeMessage(kind)
	}
	return &Error{
		Kind:        kind,
		SafeMessage: msg,
		Cause:       cause,
	}
}

func Transient(err error) error {
	return New(KindTransient, "", err)
}

func RateLimit(err error) error {
	return New(KindRateLimit, "", err)
}

func Auth(err error) error {
	return New(KindAuth, "", err)
}

func Validation(err error) error {
	return New(KindValidation, "", err)
}

func BadRequest(err error) error {
	return New(KindBadRequest, "", err)
}

func Busy(msg string) error {
	return New(KindBusy, msg, nil)
}

func NotFound(msg string) error {
	return New(KindNotFound, msg, nil)
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

// IsUpstream reports whether err came from the classification endpoint
// rather than from local validation or state.
func IsUpstream(err error) bool {
	k, ok := KindOf(err)
	if !ok {
		return false
	}
	switch k {
	case KindTransient, KindRateLimit, KindAuth, KindBadRequest:
		return true
	}
	return false
}
