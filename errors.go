package jsonkit

import (
	"errors"
	"fmt"

	"github.com/reoring/jsonkit/i18n"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidArgumentCount = "invalid_argument_count"
	CodeInvalidArgument      = "invalid_argument"
	CodeWrongShape           = "wrong_shape"
	CodeNonObjectElement     = "non_object_element"
	CodeValidationFailed     = "validation_failed"
	CodeParseError           = "parse_error"
	CodeIOError              = "io_error"
)

// Sentinels for errors.Is. They match any *Error with the same code.
var (
	ErrInvalidArgumentCount = &Error{Code: CodeInvalidArgumentCount}
	ErrInvalidArgument      = &Error{Code: CodeInvalidArgument}
	ErrWrongShape           = &Error{Code: CodeWrongShape}
	ErrNonObjectElement     = &Error{Code: CodeNonObjectElement}
	ErrValidationFailed     = &Error{Code: CodeValidationFailed}
	ErrParse                = &Error{Code: CodeParseError}
	ErrIO                   = &Error{Code: CodeIOError}
)

// Error is a failure carrying a human message and an object of diagnostics
// that can be rendered into the {"status":"nok","error":...} envelope.
type Error struct {
	Code    string
	Message string // may be empty
	Cause   error  // optional underlying error
	data    *Node
}

// NewError builds an Error. An object payload is copied field by field; any
// other non-null payload is kept under "data".
func NewError(code, msg string, data *Node) *Error {
	e := &Error{Code: code, Message: msg, data: NewObject()}
	e.AddExtra(data)
	return e
}

// CopyError returns a logical copy of err: same code, message and cause, and
// its own copy of the diagnostics.
func CopyError(err *Error) *Error {
	if err == nil {
		return nil
	}
	c := &Error{Code: err.Code, Message: err.Message, Cause: err.Cause, data: NewObject()}
	c.AddExtra(err.data)
	return c
}

// WrapError turns cause into an Error of the given code. The message is the
// cause's text; diagnostics are copied when the cause is itself an *Error.
func WrapError(code string, cause error) *Error {
	e := &Error{Code: code, Cause: cause, data: NewObject()}
	if cause != nil {
		e.Message = cause.Error()
	}
	if inner, ok := AsError(cause); ok {
		e.AddExtra(inner.data)
	}
	return e
}

// AsError extracts an *Error from err using errors.As internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// AddExtra merges more diagnostics into the payload; existing keys are only
// overwritten by keys present in extra. Null and Missing extras are ignored.
func (e *Error) AddExtra(extra *Node) *Error {
	if e.data == nil {
		e.data = NewObject()
	}
	switch extra.Kind() {
	case KindMissing, KindNull:
	case KindObject:
		e.data.SetAll(extra)
	default:
		e.data.Set("data", extra)
	}
	return e
}

// Data returns a shallow copy of the diagnostics object.
func (e *Error) Data() *Node {
	out := NewObject()
	if e.data != nil {
		out.SetAll(e.data)
	}
	return out
}

// Envelope renders the error as {"status":"nok","error":message,...data}.
// The status and error entries always come first and are never replaced by a
// diagnostic of the same name.
func (e *Error) Envelope() *Node {
	env := NewObject().
		Set("status", String("nok")).
		Set("error", String(e.Message))
	if e.data != nil {
		for _, f := range e.data.fields {
			if env.Has(f.key) {
				continue
			}
			env.Set(f.key, f.value)
		}
	}
	return env
}

// Error returns the message, falling back to the cause and then to the
// localized label of the code.
func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Cause)
	}
	return i18n.T(e.Code, nil)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches sentinels: a target without message and payload matches any
// error of the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message != "" || t.data.Len() != 0 {
		return false
	}
	return t.Code == e.Code
}

// MarshalJSON renders the envelope.
func (e *Error) MarshalJSON() ([]byte, error) { return e.Envelope().MarshalJSON() }

func wrongShape(msg string, n *Node) *Error {
	return NewError(CodeWrongShape, msg, ObjectOf(KV("json", n)))
}

func nonObjectElement(msg string, index int, el, in *Node) *Error {
	return NewError(CodeNonObjectElement, msg, ObjectOf(
		KV("type", el.Kind().String()),
		KV("index", index),
		KV("element", el),
		KV("json", in),
	))
}
