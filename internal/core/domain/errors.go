package domain

import (
	"errors"
	"runtime"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrUnknownPatronTier = errors.New("unknown patron tier")
	ErrAlertLimitReached = errors.New("alert limit reached")
	ErrAPIKeyExhausted   = errors.New("could not generate a unique api key")
	ErrUserExists        = errors.New("user already exists")
	ErrForbidden         = errors.New("access forbidden")
)

// Kind is a client-facing error category with a default status code and
// message.
type Kind struct {
	Name    string
	Code    int
	Message string
}

var (
	KindInvalidKey = Kind{
		Name:    "InvalidKey",
		Code:    401,
		Message: "Could not find a user for this key, please check your key or remove it.",
	}
	KindCSRFMismatch = Kind{
		Name:    "CsrfMismatch",
		Code:    400,
		Message: "Could not confirm the CSRF token from SSO Provider. Please try again.",
	}
	KindInvalidServerParameter = Kind{
		Name:    "InvalidServerParameter",
		Code:    400,
		Message: "Invalid server provided for request.",
	}
	KindGenericJSONFailure = Kind{
		Name:    "GenericJsonFailure",
		Code:    500,
		Message: "General Json Exception",
	}
	KindNotFound = Kind{
		Name:    "NotFound",
		Code:    404,
		Message: "Not Found",
	}
)

// New builds an Error of this kind. An empty message or a zero code keeps
// the kind's default. The caller's file and line are recorded.
func (k Kind) New(message string, code int) *Error {
	e := &Error{Kind: k, Code: k.Code, Message: k.Message}
	if message != "" {
		e.Message = message
	}
	if code != 0 {
		e.Code = code
	}
	if _, file, line, ok := runtime.Caller(1); ok {
		e.File, e.Line = file, line
	}
	return e
}

// Wrap is New with the default message and code and an underlying cause.
func (k Kind) Wrap(err error) *Error {
	e := k.New("", 0)
	if _, file, line, ok := runtime.Caller(1); ok {
		e.File, e.Line = file, line
	}
	e.Err = err
	return e
}

// Error is a domain failure that maps directly onto an HTTP response.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	File    string
	Line    int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, which lets callers write
// errors.Is(err, domain.KindNotFound.New("", 0)) or use IsKind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind.Name == e.Kind.Name
}

// IsKind reports whether err carries a domain Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind.Name == k.Name
}
