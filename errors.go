package fastagi

import (
	"fmt"

	"github.com/pkg/errors"
)

// ParseErrorKind enumerates the wire-level parse failures a connection's
// read path can produce.
type ParseErrorKind int

const (
	ParseNoValue ParseErrorKind = iota
	ParsePriorityUnparsable
	ParseThreadIDUnparsable
	ParseEnhancedUnparsable
	ParseUnknownArg
	ParseCustomArgNumberUnparsable
	ParseDuplicateCustomArg
	ParseVariableMissing
	ParseNoStatusCode
	ParseStatusCodeUnparsable
	ParseNoResult
	ParseResultUnparsable
	ParseStatusDoesNotExist
	ParseNoBytes
	ParseNotUtf8
	ParseNetworkStartAfterOtherMessage
	ParseReadError
)

// ParseError is the error returned by the wire parser and by Connection's
// read path.
type ParseError struct {
	Kind       ParseErrorKind
	Detail     string
	StatusCode uint16
	Err        error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ParseNoValue:
		return fmt.Sprintf("the line %q contained no value", e.Detail)
	case ParsePriorityUnparsable:
		return fmt.Sprintf("the value %q is not parsable as priority", e.Detail)
	case ParseThreadIDUnparsable:
		return fmt.Sprintf("the value %q is not parsable as thread ID", e.Detail)
	case ParseEnhancedUnparsable:
		return fmt.Sprintf("the value %q is not parsable as enhanced status", e.Detail)
	case ParseUnknownArg:
		return fmt.Sprintf("the argument %q is not known", e.Detail)
	case ParseCustomArgNumberUnparsable:
		return fmt.Sprintf("the argument %q has no parsable custom arg number", e.Detail)
	case ParseDuplicateCustomArg:
		return fmt.Sprintf("the argument %q was passed multiple times", e.Detail)
	case ParseVariableMissing:
		return fmt.Sprintf("the argument %q is required but was not passed", e.Detail)
	case ParseNoStatusCode:
		return fmt.Sprintf("the status line %q has no status code", e.Detail)
	case ParseStatusCodeUnparsable:
		return fmt.Sprintf("the status code in status line %q is not parsable", e.Detail)
	case ParseNoResult:
		return fmt.Sprintf("the status line %q has no result", e.Detail)
	case ParseResultUnparsable:
		return fmt.Sprintf("the result in status line %q is not parsable", e.Detail)
	case ParseStatusDoesNotExist:
		return fmt.Sprintf("the status code %d does not exist", e.StatusCode)
	case ParseNoBytes:
		return "there are no bytes to read"
	case ParseNotUtf8:
		return "the input is not utf8"
	case ParseNetworkStartAfterOtherMessage:
		return "a network-start message was produced after another message in the same read"
	case ParseReadError:
		return fmt.Sprintf("read error: %v", e.Err)
	default:
		return "unknown parse error"
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// errNeedMoreBytes signals that the parser's carry-over buffer does not yet
// contain a complete message; it is never returned to callers, only used
// internally by Parser.Feed.
var errNeedMoreBytes = errors.New("fastagi: need more bytes")

// AGIErrorKind enumerates the engine/handler/bootstrap error kinds an
// application interacting with this package can observe.
type AGIErrorKind int

const (
	ErrNotAStatus AGIErrorKind = iota
	ErrAGIStatusUnspecializable
	ErrCannotSendCommand
	ErrParseError
	ErrInnerError
	ErrClientSideError
	ErrNot200
	ErrCannotSpawnListener
)

// AGIError is the engine-level error type returned from SendCommand, Handler
// implementations and Serve.
type AGIError struct {
	Kind       AGIErrorKind
	Message    string
	StatusCode uint16
	Err        error
}

func (e *AGIError) Error() string {
	switch e.Kind {
	case ErrNotAStatus:
		return "sent a command, but the response was not a status"
	case ErrAGIStatusUnspecializable:
		return fmt.Sprintf("unable to specialize the status as a response to %s: %v", e.Message, e.Err)
	case ErrCannotSendCommand:
		return fmt.Sprintf("unable to send an AGI command: %v", e.Err)
	case ErrParseError:
		return fmt.Sprintf("unable to parse packet: %v", e.Err)
	case ErrInnerError:
		return fmt.Sprintf("inner error: %v", e.Err)
	case ErrClientSideError:
		return fmt.Sprintf("error on the client side: %s", e.Message)
	case ErrNot200:
		return fmt.Sprintf("handler expected a 200 response, but got %d", e.StatusCode)
	case ErrCannotSpawnListener:
		return fmt.Sprintf("unable to accept on the listener: %v", e.Err)
	default:
		return "unknown AGI error"
	}
}

func (e *AGIError) Unwrap() error { return e.Err }

// NewClientSideError builds the deliberate, non-noisy error a Handler returns
// to declare that the peer (Asterisk, on behalf of the caller) did something
// semantically wrong.
func NewClientSideError(message string) error {
	return &AGIError{Kind: ErrClientSideError, Message: message}
}

// NewInnerError wraps an opaque handler-side fault that a Handler returns
// when something it depends on failed for reasons the caller had no part
// in — a database timeout, a downstream service error, and so on.
func NewInnerError(err error) error {
	return &AGIError{Kind: ErrInnerError, Err: errors.WithStack(err)}
}

// IsClientSideError reports whether err (or anything it wraps) is a
// ClientSideError, the one handler error the session logs at INFO instead of
// WARN.
func IsClientSideError(err error) bool {
	var agiErr *AGIError
	for err != nil {
		if e, ok := err.(*AGIError); ok {
			agiErr = e
			break
		}
		err = errors.Unwrap(err)
	}
	return agiErr != nil && agiErr.Kind == ErrClientSideError
}
