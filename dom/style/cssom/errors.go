package cssom

import (
	"fmt"
	"strings"
)

// ErrorKind classifies errors of stylesheet operations.
type ErrorKind int8

// Kinds of errors.
const (
	NoError          ErrorKind = iota
	ParseFailure     // malformed CSS text
	NotReady         // query before load completion
	IndexOutOfRange  // insert/delete at an invalid position
	AlreadySet       // second load of a sheet; a caller contract violation
	LoadFailure      // loader could not obtain the sheet text
	HierarchyRequest // rule not allowed at this position, or foreign group
)

var kindNames = [...]string{
	NoError:          "no error",
	ParseFailure:     "syntax error",
	NotReady:         "not ready",
	IndexOutOfRange:  "index out of range",
	AlreadySet:       "already set",
	LoadFailure:      "load failed",
	HierarchyRequest: "hierarchy request",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
	return kindNames[k]
}

// Error is the error type of package cssom. Style engines are expected to
// report errors of this type as well.
//
// The message format is
//
//     cssom: <op>: <kind>: <detail>
//
// where op and detail are omitted if empty.
type Error struct {
	Kind   ErrorKind
	Op     string // operation, e.g. "insert-rule"
	Detail string // human readable detail
	Err    error  // underlying cause, if any
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("cssom: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind. Use it with the Err… sentinels:
//
//     if errors.Is(err, cssom.ErrNotReady) { … }
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrParse           = &Error{Kind: ParseFailure}
	ErrNotReady        = &Error{Kind: NotReady}
	ErrIndexOutOfRange = &Error{Kind: IndexOutOfRange}
	ErrAlreadySet      = &Error{Kind: AlreadySet}
	ErrLoadFailed      = &Error{Kind: LoadFailure}
	ErrHierarchy       = &Error{Kind: HierarchyRequest}
)

// NewError creates an error of kind k for operation op. The detail message
// is formatted fmt.Sprintf-style.
func NewError(k ErrorKind, op string, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// WrapError creates an error of kind k wrapping cause.
func WrapError(k ErrorKind, op string, cause error) *Error {
	return &Error{Kind: k, Op: op, Err: cause}
}

// IndexError reports an invalid index for a rule list of the given length.
func IndexError(op string, index, length int) *Error {
	return NewError(IndexOutOfRange, op, "index %d, length %d", index, length)
}

// ValueError is returned when parsing an enum-like setting fails, e.g. a
// CORS mode from configuration.
type ValueError struct {
	Type  string // logical type, e.g. "CORSMode"
	Value string // offending input
}

func (e *ValueError) Error() string {
	return "cssom: invalid " + e.Type + " value: " + e.Value
}
