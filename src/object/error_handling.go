// object/error_handling.go
package object

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/javanhut/Lox/src/token"
)

// ErrorType tags a runtime failure. The taxonomy is flat: nothing in the
// language catches errors, so the kind only matters for reporting and tests.
type ErrorType string

const (
	OperandsMustBeNumbers        ErrorType = "NumberOperandError"
	OperandsMustBeNumberOrString ErrorType = "AddOperandError"
	UnaryOperandMustBeNumber     ErrorType = "UnaryOperandError"
	DivisionByZeroErr            ErrorType = "DivisionByZeroError"
	NameError                    ErrorType = "NameError"
	NotCallableError             ErrorType = "NotCallableError"
	NotAClassError               ErrorType = "NotAClassError"
	NotAnInstanceError           ErrorType = "NotAnInstanceError"
	MissingArgumentsError        ErrorType = "MissingArgumentsError"
	ArityError                   ErrorType = "ArityError"
	AttributeError               ErrorType = "AttributeError"
	IndexError                   ErrorType = "IndexError"
	ArgumentTypeError            ErrorType = "ArgumentTypeError"
	IOError                      ErrorType = "IOError"
	InternalError                ErrorType = "InternalError"
)

// StackTraceEntry represents a single entry in the stack trace
type StackTraceEntry struct {
	Span     token.Span // call site
	Function string
}

// Error is a runtime failure with the span of the node that raised it.
type Error struct {
	ErrorKind   ErrorType
	Message     string
	Span        token.Span
	StackTrace  []StackTraceEntry
	Context     string   // source lines ending at the error line
	Suggestions []string // optional hints
}

// NewError creates a new Error with an optional span.
func NewError(errorType ErrorType, message string, spanOpt ...token.Span) *Error {
	var span token.Span
	if len(spanOpt) > 0 {
		span = spanOpt[0]
	}
	return &Error{
		ErrorKind: errorType,
		Message:   message,
		Span:      span,
	}
}

func (e *Error) Error() string {
	if e.HasSpan() {
		return fmt.Sprintf("%s: %s at %s", e.ErrorKind, e.Message, e.Span)
	}
	return fmt.Sprintf("%s: %s", e.ErrorKind, e.Message)
}

// HasSpan reports whether a source location has been attached.
func (e *Error) HasSpan() bool {
	return e.Span.Start.Line > 0
}

// WithSuggestion adds a suggestion to this error
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithContext adds source code context to this error
func (e *Error) WithContext(context string) *Error {
	e.Context = context
	return e
}

// Inspect renders the error with ANSI colours.
func (e *Error) Inspect() string {
	return e.Render(true)
}

func (e *Error) Render(color bool) string {
	p := painter(color)
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s: %s\n", p.paint(red, string(e.ErrorKind)), e.Message))
	if e.HasSpan() {
		sb.WriteString(fmt.Sprintf("  at %s\n", p.location(e.Span.Start)))
	}
	if e.Context != "" {
		sb.WriteString("\nCode context:\n")
		writeContext(&sb, p, e.Context, e.Span.Start)
	}

	if len(e.StackTrace) > 0 {
		sb.WriteString("\nStack trace (most recent call last):\n")
		for i := len(e.StackTrace) - 1; i >= 0; i-- {
			entry := e.StackTrace[i]
			funcName := entry.Function
			if funcName == "" {
				funcName = "<script>"
			}
			sb.WriteString(fmt.Sprintf("  at %s in %s\n", p.paint(cyan, funcName), p.location(entry.Span.Start)))
		}
	}

	if len(e.Suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		for _, suggestion := range e.Suggestions {
			sb.WriteString(fmt.Sprintf("  - %s\n", suggestion))
		}
	}

	return sb.String()
}

// ParseError represents a syntax error detected during scanning, parsing or
// resolution.
type ParseError struct {
	Message  string
	Span     token.Span
	Expected string
	Found    string
	Context  string
}

// NewParseError creates a new parse error
func NewParseError(message string, span token.Span) *ParseError {
	return &ParseError{
		Message: message,
		Span:    span,
	}
}

func (pe *ParseError) Error() string {
	return fmt.Sprintf("SyntaxError: %s at %s", pe.Message, pe.Span)
}

// WithExpectation adds expectation information
func (pe *ParseError) WithExpectation(expected, found string) *ParseError {
	pe.Expected = expected
	pe.Found = found
	return pe
}

// WithContext adds source context
func (pe *ParseError) WithContext(context string) *ParseError {
	pe.Context = context
	return pe
}

// String formats the error message
func (pe *ParseError) String() string {
	return pe.Render(true)
}

func (pe *ParseError) Render(color bool) string {
	p := painter(color)
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s: %s\n", p.paint(red, "SyntaxError"), pe.Message))
	sb.WriteString(fmt.Sprintf("  at %s\n", p.location(pe.Span.Start)))

	if pe.Expected != "" || pe.Found != "" {
		if pe.Expected != "" && pe.Found != "" {
			sb.WriteString(fmt.Sprintf("  expected %s, got %s\n", pe.Expected, pe.Found))
		} else if pe.Expected != "" {
			sb.WriteString(fmt.Sprintf("  expected %s\n", pe.Expected))
		} else {
			sb.WriteString(fmt.Sprintf("  got %s\n", pe.Found))
		}
	}

	if pe.Context != "" {
		sb.WriteString("\nCode context:\n")
		writeContext(&sb, p, pe.Context, pe.Span.Start)
	}

	return sb.String()
}

// GetContextFromSource returns up to contextLines lines before the position
// plus the position's own line.
func GetContextFromSource(source string, position token.Position, contextLines int) string {
	if source == "" || position.Line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if position.Line > len(lines) {
		return ""
	}

	startLine := position.Line - 1 - contextLines
	if startLine < 0 {
		startLine = 0
	}
	return strings.Join(lines[startLine:position.Line], "\n")
}

const (
	red    = "31"
	yellow = "33"
	cyan   = "36"
)

type painter bool

func (p painter) paint(code, s string) string {
	if !p {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

func (p painter) location(pos token.Position) string {
	file := pos.File
	if file != "" {
		if rel, err := filepath.Rel(".", file); err == nil && !strings.HasPrefix(rel, "..") {
			file = rel
		}
		return fmt.Sprintf("%s:%s:%s", p.paint(cyan, file),
			p.paint(yellow, fmt.Sprint(pos.Line)), p.paint(yellow, fmt.Sprint(pos.Column)))
	}
	return fmt.Sprintf("line %s, column %s",
		p.paint(yellow, fmt.Sprint(pos.Line)), p.paint(yellow, fmt.Sprint(pos.Column)))
}

// writeContext prints the context lines, highlighting the last one and
// placing a caret under pos.Column. Columns count bytes; the caret offset is
// measured in display cells of the preceding text.
func writeContext(sb *strings.Builder, p painter, context string, pos token.Position) {
	lines := strings.Split(context, "\n")
	for i, line := range lines {
		lineNum := pos.Line - (len(lines) - 1) + i
		if lineNum != pos.Line {
			sb.WriteString(fmt.Sprintf("  %s | %s\n", p.paint(yellow, fmt.Sprintf("%4d", lineNum)), line))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s | %s\n", p.paint(yellow, fmt.Sprintf("%4d", lineNum)), p.paint(red, line)))
		prefix := line
		if col := pos.Column - 1; col >= 0 && col < len(line) {
			prefix = line[:col]
		}
		var pad strings.Builder
		for _, r := range prefix {
			if r == '\t' {
				pad.WriteRune('\t')
				continue
			}
			pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
		sb.WriteString(fmt.Sprintf("       | %s%s\n", pad.String(), p.paint(red, "^")))
	}
}
