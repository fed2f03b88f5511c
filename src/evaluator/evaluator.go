package evaluator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/javanhut/Lox/src/ast"
	"github.com/javanhut/Lox/src/object"
	"github.com/javanhut/Lox/src/token"
)

// EvalContext tracks the call stack for error reports.
type EvalContext struct {
	callStack []CallFrame
}

// CallFrame represents a function call in the call stack
type CallFrame struct {
	funcName string
	span     token.Span // call site
}

// PushCallFrame adds a new frame to the call stack
func (ctx *EvalContext) PushCallFrame(funcName string, span token.Span) {
	ctx.callStack = append(ctx.callStack, CallFrame{funcName: funcName, span: span})
}

// PopCallFrame removes the most recent frame from the call stack
func (ctx *EvalContext) PopCallFrame() {
	if len(ctx.callStack) > 0 {
		ctx.callStack = ctx.callStack[:len(ctx.callStack)-1]
	}
}

// GetCallStack returns the current call stack, outermost call first.
func (ctx *EvalContext) GetCallStack() []object.StackTraceEntry {
	entries := make([]object.StackTraceEntry, len(ctx.callStack))
	for i, frame := range ctx.callStack {
		entries[i] = object.StackTraceEntry{Function: frame.funcName, Span: frame.span}
	}
	return entries
}

func (ctx *EvalContext) Depth() int {
	return len(ctx.callStack)
}

// Interpreter walks the AST. It is not safe for concurrent use.
type Interpreter struct {
	globals      *object.Environment
	locals       map[ast.Expr]int
	out          io.Writer
	tracer       *slog.Logger
	ctx          *EvalContext
	source       string
	contextLines int
}

type Option func(*Interpreter)

// WithOutput redirects print statements. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

// WithTracer logs every call and return at debug level.
func WithTracer(logger *slog.Logger) Option {
	return func(in *Interpreter) { in.tracer = logger }
}

// WithSource attaches the program text so runtime errors can quote it.
func WithSource(source string, contextLines int) Option {
	return func(in *Interpreter) {
		in.source = source
		in.contextLines = contextLines
	}
}

func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		globals: object.NewEnvironment(),
		locals:  make(map[ast.Expr]int),
		out:     os.Stdout,
		ctx:     &EvalContext{},
	}
	for _, opt := range opts {
		opt(in)
	}
	for name, builtin := range builtins {
		in.globals.Define(name, builtin)
	}
	return in
}

func (in *Interpreter) Globals() *object.Environment {
	return in.globals
}

// Resolve records that expr refers to a binding depth scopes out.
func (in *Interpreter) Resolve(expr ast.Expr, depth int) {
	in.locals[expr] = depth
}

// Interpret runs a whole program, stopping at the first runtime error.
func (in *Interpreter) Interpret(statements []ast.Stmt) error {
	for _, stmt := range statements {
		if _, err := in.Execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs one top-level statement against the globals.
func (in *Interpreter) Execute(stmt ast.Stmt) (object.Completion, error) {
	completion, err := in.execute(stmt, in.globals)
	if err != nil {
		return completion, err
	}
	if completion.Kind == object.Returned {
		// The resolver rejects top-level returns, so reaching this means the
		// program was run without it and is malformed.
		panic(fmt.Sprintf("return outside of a function at %s", completion.Span))
	}
	return completion, nil
}

// Evaluate evaluates one expression against the globals.
func (in *Interpreter) Evaluate(expr ast.Expr) (object.Object, error) {
	return in.evaluate(expr, in.globals)
}

// ExecuteBlock runs statements in env without creating a new scope. Callers
// supply the scope: a fresh child for block statements, the parameter
// environment for calls.
func (in *Interpreter) ExecuteBlock(block *ast.Block, env *object.Environment) (object.Completion, error) {
	for _, stmt := range block.Statements {
		completion, err := in.execute(stmt, env)
		if err != nil {
			return completion, err
		}
		if completion.Kind == object.Returned {
			return completion, nil
		}
	}
	return object.NormalCompletion, nil
}

// decorate fills in the location, call stack and source context of a
// runtime error the first time it passes through a node.
func (in *Interpreter) decorate(err error, node ast.Node) error {
	var rtErr *object.Error
	if !errors.As(err, &rtErr) {
		return err
	}
	if !rtErr.HasSpan() {
		rtErr.Span = node.Span()
	}
	if rtErr.StackTrace == nil {
		rtErr.StackTrace = in.ctx.GetCallStack()
	}
	if rtErr.Context == "" && in.source != "" && in.contextLines >= 0 {
		return rtErr.WithContext(object.GetContextFromSource(in.source, rtErr.Span.Start, in.contextLines))
	}
	return rtErr
}

func (in *Interpreter) trace(msg, function string, attrs ...slog.Attr) {
	if in.tracer == nil {
		return
	}
	attrs = append([]slog.Attr{slog.String("function", function), slog.Int("depth", in.ctx.Depth())}, attrs...)
	in.tracer.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}

func newError(kind object.ErrorType, format string, a ...interface{}) *object.Error {
	return object.NewError(kind, fmt.Sprintf(format, a...))
}
