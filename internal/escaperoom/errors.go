package escaperoom

import (
	"errors"
	"fmt"
)

// Kind classifies failures of the escape room operations.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthentication
	KindNotFound
	KindConfiguration
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindConfiguration:
		return "configuration"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrValidation     = &Error{Kind: KindValidation}
	ErrAuthentication = &Error{Kind: KindAuthentication}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrConfiguration  = &Error{Kind: KindConfiguration}
	ErrStore          = &Error{Kind: KindStore}
)

// Error is a classified failure. Message is safe to show to a player.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf returns the player-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "internal error"
}

func validationError(op, format string, args ...any) error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(op, message string) error {
	return &Error{Kind: KindNotFound, Op: op, Message: message}
}

func authenticationError(op string) error {
	return &Error{Kind: KindAuthentication, Op: op, Message: "agent name or password is incorrect"}
}

func storeError(op string, err error) error {
	return &Error{Kind: KindStore, Op: op, Message: "storage is unavailable, try again later", Err: err}
}
