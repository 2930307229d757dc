package namelist

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/nml/pkg"
)

// Predefined errors (sentinel values).
//
// The structured error types below match these with [errors.Is], so callers
// that only care about the category need not use [errors.As].
var (
	ErrFormat        = NewError("malformed namelist")
	ErrDuplicateName = NewError("duplicate name")
	ErrNotFound      = NewError("not found")
	ErrReadInput     = NewError("failed to read input")
	ErrWriteOutput   = NewError("failed to write output")
)

// Error is a namelist error with structured logging support.
type Error = pkg.Error

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error { return pkg.NewError(msg) }

// WrapError returns err if it is an [Error], else a new Error wrapping it.
func WrapError(err error) *Error { return pkg.WrapError(err) }

// Target names the kind of object an error refers to.
type Target string

const (
	TargetGroup Target = "group"
	TargetEntry Target = "entry"
)

// FormatError reports malformed namelist text or a malformed user-supplied
// value. Line and Column are 1-based; both are zero when the error has no
// source position (for example an invalid name passed to [Document.AddGroup]).
type FormatError struct {
	Line   int
	Column int
	Token  string // offending token, if any
	Reason string
	Err    error // underlying cause, e.g. a *DuplicateNameError

	source string // the offending source line
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	var buf strings.Builder

	if e.Line > 0 {
		buf.WriteString("line ")
		buf.WriteString(strconv.Itoa(e.Line))
		buf.WriteString(", column ")
		buf.WriteString(strconv.Itoa(e.Column))
		buf.WriteString(": ")
	}

	buf.WriteString(e.Reason)

	if e.Token != "" {
		buf.WriteString(" ")
		buf.WriteString(strconv.Quote(e.Token))
	}

	return buf.String()
}

// Unwrap returns the underlying cause.
func (e *FormatError) Unwrap() error { return e.Err }

// Is matches [ErrFormat].
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// Snippet returns the offending source line with a caret under the error
// column, or the empty string if the source line is unknown.
//
//	  3 |   x = 1.2.3
//	          ^
func (e *FormatError) Snippet() string {
	if e.Line <= 0 || e.source == "" {
		return ""
	}

	var src strings.Builder

	num := strconv.Itoa(e.Line)

	src.WriteString("  ")
	src.WriteString(num)
	src.WriteString(" | ")
	src.WriteString(e.source)
	src.WriteRune('\n')

	// 2 leading spaces + " | "
	padding := strings.Repeat(" ", len(num)+5)
	if e.Column > 0 {
		padding += strings.Repeat(" ", e.Column-1)
	}

	src.WriteString(padding + "^\n")

	return src.String()
}

// LogValue implements slog.LogValuer.
func (e *FormatError) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("reason", e.Reason)}

	if e.Line > 0 {
		attrs = append(attrs, slog.Int("line", e.Line), slog.Int("column", e.Column))
	}

	if e.Token != "" {
		attrs = append(attrs, slog.String("token", e.Token))
	}

	if e.Err != nil {
		attrs = append(attrs, slog.String("cause", e.Err.Error()))
	}

	return slog.GroupValue(attrs...)
}

// DuplicateNameError reports an add operation targeting an existing name.
type DuplicateNameError struct {
	Target Target
	Name   string
	Group  string // enclosing group for TargetEntry
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	msg := string(e.Target) + " " + strconv.Quote(e.Name) + " already exists"
	if e.Target == TargetEntry && e.Group != "" {
		msg += " in group " + strconv.Quote(e.Group)
	}

	return msg
}

// Is matches [ErrDuplicateName].
func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateName
}

// LogValue implements slog.LogValuer.
func (e *DuplicateNameError) LogValue() slog.Value {
	return targetValue("duplicate name", e.Target, e.Name, e.Group)
}

// NotFoundError reports an operation targeting a non-existent group or entry.
type NotFoundError struct {
	Target Target
	Name   string
	Group  string // enclosing group for TargetEntry
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	msg := string(e.Target) + " " + strconv.Quote(e.Name) + " not found"
	if e.Target == TargetEntry && e.Group != "" {
		msg += " in group " + strconv.Quote(e.Group)
	}

	return msg
}

// Is matches [ErrNotFound].
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// LogValue implements slog.LogValuer.
func (e *NotFoundError) LogValue() slog.Value {
	return targetValue("not found", e.Target, e.Name, e.Group)
}

func targetValue(msg string, target Target, name, group string) slog.Value {
	attrs := []slog.Attr{
		slog.String("error", msg),
		slog.String(string(target), name),
	}

	if target == TargetEntry && group != "" {
		attrs = append(attrs, slog.String(string(TargetGroup), group))
	}

	return slog.GroupValue(attrs...)
}
