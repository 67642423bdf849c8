// errors.go: typed engine errors and caret-snippet rendering
//
// Every failure the engine reports is an *Error carrying a Kind, a message and
// the 1-based line / 0-based column of the token responsible for it. Hosts
// test for a kind with errors.Is against the Err* sentinels:
//
//	if errors.Is(err, lx.ErrDivisionByZero) { ... }
//
// WrapErrorWithSource turns an *Error into a Python-style snippet with a caret
// under the offending column:
//
//	NotDefined at 1:11: x
//
//	   1 | let y = 1 in x
//	     |              ^
//
// The snippet shows at most one line of context on either side.
package lx

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an *Error.
type Kind int

const (
	InvalidEncoding Kind = iota + 1
	SyntaxError
	NotDefined
	AlreadyDeclared
	TypeError
	DivisionByZero
	NotCallable
	NotABoolean
	RecursiveBinding
	DepthExceeded
)

var kindNames = map[Kind]string{
	InvalidEncoding:  "InvalidEncoding",
	SyntaxError:      "SyntaxError",
	NotDefined:       "NotDefined",
	AlreadyDeclared:  "AlreadyDeclared",
	TypeError:        "TypeError",
	DivisionByZero:   "DivisionByZero",
	NotCallable:      "NotCallable",
	NotABoolean:      "NotABoolean",
	RecursiveBinding: "RecursiveBinding",
	DepthExceeded:    "DepthExceeded",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the single error type produced by the lexer, parser, environment
// and evaluator. Line is 1-based and Col 0-based; both are zero when the error
// has no source position (e.g. raised by a host calling Env directly).
type Error struct {
	Kind Kind
	Msg  string
	Line int
	Col  int

	// Incomplete marks a syntax error caused by running out of input in
	// interactive parsing, so a REPL can ask for another line.
	Incomplete bool
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Line, e.Col+1, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is matches any *Error of the same Kind, which is what makes the sentinels
// below usable with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInvalidEncoding  = &Error{Kind: InvalidEncoding}
	ErrSyntax           = &Error{Kind: SyntaxError}
	ErrNotDefined       = &Error{Kind: NotDefined}
	ErrAlreadyDeclared  = &Error{Kind: AlreadyDeclared}
	ErrType             = &Error{Kind: TypeError}
	ErrDivisionByZero   = &Error{Kind: DivisionByZero}
	ErrNotCallable      = &Error{Kind: NotCallable}
	ErrNotABoolean      = &Error{Kind: NotABoolean}
	ErrRecursiveBinding = &Error{Kind: RecursiveBinding}
	ErrDepthExceeded    = &Error{Kind: DepthExceeded}
)

// KindOf reports the Kind of err if it wraps an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsIncomplete reports whether err is a syntax error caused by premature end
// of input during interactive parsing.
func IsIncomplete(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Incomplete
}

// ExitError is returned by the exit native. It is not an engine failure: the
// driver is expected to stop and exit the process with Code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("exit %d", e.Code) }

// at attaches the position of tok to a fresh *Error.
func at(tok Token, kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Line: tok.Line, Col: tok.Col}
}

// positioned fills in a missing position from tok. Env errors are raised
// without one because the environment knows nothing about tokens.
func positioned(err error, tok Token) error {
	var e *Error
	if errors.As(err, &e) && e.Line == 0 {
		cp := *e
		cp.Line, cp.Col = tok.Line, tok.Col
		return &cp
	}
	return err
}

/* ===========================
   PUBLIC API: rendering
   =========================== */

// WrapErrorWithSource returns an error whose message is a caret-annotated
// snippet of src. Errors that are not positioned *Errors are returned as-is.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name (a file path or
// "<repl>") shown in the header. The returned error still unwraps to err.
func WrapErrorWithName(err error, srcName string, src string) error {
	var e *Error
	if !errors.As(err, &e) || e.Line == 0 {
		return err
	}
	return &snippetError{err: e, text: prettyErrorStringLabeled(src, e.Kind.String(), srcName, e.Line, e.Col+1, e.Msg)}
}

type snippetError struct {
	err  *Error
	text string
}

func (s *snippetError) Error() string { return s.text }
func (s *snippetError) Unwrap() error { return s.err }

/* ===========================
   PRIVATE: rendering
   =========================== */

// prettyErrorStringLabeled builds a snippet with a header and a caret.
// Coordinates are 1-based and clamped to the source bounds; col counts runes.
func prettyErrorStringLabeled(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
