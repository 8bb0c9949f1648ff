package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so handlers can pick a status code without
// inspecting the message.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindBusinessRule
	KindStore
)

// Error is a domain failure carrying a localization key plus the structured
// arguments needed to interpolate it. Handlers never see final text, only
// the key and args.
type Error struct {
	Kind Kind
	Key  string
	Args map[string]string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Key, e.Err)
	}
	return e.Key
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, key string) *Error {
	return &Error{Kind: kind, Key: key}
}

func Newf(kind Kind, key string, args map[string]string) *Error {
	return &Error{Kind: kind, Key: key, Args: args}
}

// Wrap tags an underlying store failure with a generic persistence key.
func Wrap(err error) *Error {
	return &Error{Kind: KindStore, Key: "persistenceError", Err: err}
}

// KindOf extracts the Kind from err, defaulting to KindStore for anything
// that isn't an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStore
}

// KeyOf extracts the localization key, defaulting to the generic
// persistence key.
func KeyOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Key
	}
	return "persistenceError"
}

// ArgsOf extracts interpolation arguments, if any.
func ArgsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Args
	}
	return nil
}
