package common

import "errors"

// MessageError pairs an error kind with a message that is safe to return
// to the client verbatim.
type MessageError struct {
	Kind error
	Msg  string
}

func (e *MessageError) Error() string { return e.Kind.Error() + ": " + e.Msg }

func (e *MessageError) Unwrap() error { return e.Kind }

// WithMessage wraps kind with a client-facing message.
func WithMessage(kind error, msg string) error {
	return &MessageError{Kind: kind, Msg: msg}
}

// PublicMessage returns the client-facing message carried by err, if any.
func PublicMessage(err error) (string, bool) {
	var me *MessageError
	if errors.As(err, &me) {
		return me.Msg, true
	}
	return "", false
}
