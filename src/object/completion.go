package object

import "github.com/javanhut/Lox/src/token"

type CompletionKind int

const (
	// Normal means the statement ran to its end.
	Normal CompletionKind = iota
	// Returned means a `return` is unwinding towards the nearest call boundary.
	Returned
)

// Completion is the non-error outcome of executing a statement. Failures
// travel separately as an error, so a return is never mistaken for one.
type Completion struct {
	Kind  CompletionKind
	Value Object
	Span  token.Span
}

var NormalCompletion = Completion{Kind: Normal}

func ReturnCompletion(value Object, span token.Span) Completion {
	return Completion{Kind: Returned, Value: value, Span: span}
}
