// Package resolver computes, for each local variable reference, how many
// scopes separate it from the scope that declares it. Globals are left
// unresolved; the interpreter falls back to searching outward for those.
package resolver

import (
	"github.com/javanhut/Lox/src/ast"
	"github.com/javanhut/Lox/src/object"
	"github.com/javanhut/Lox/src/token"
)

// Locals receives the scope distance of each resolved expression.
type Locals interface {
	Resolve(expr ast.Expr, depth int)
}

type functionType int

const (
	noFunction functionType = iota
	inFunction
	inMethod
)

type classType int

const (
	noClass classType = iota
	inClass
	inSubclass
)

type Resolver struct {
	locals          Locals
	scopes          []map[string]bool
	currentFunction functionType
	currentClass    classType
	errors          []*object.ParseError
}

func New(locals Locals) *Resolver {
	return &Resolver{locals: locals}
}

// Resolve walks the program and returns static errors: `return` outside a
// function, `this`/`super` outside a class, and self inheritance.
func (r *Resolver) Resolve(statements []ast.Stmt) []*object.ParseError {
	r.resolveStmts(statements)
	return r.errors
}

func (r *Resolver) resolveStmts(statements []ast.Stmt) {
	for _, stmt := range statements {
		r.resolveStmt(stmt)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()
	case *ast.Let:
		// The initializer is resolved before the name exists, matching the
		// runtime: `let a = a;` reads the enclosing a.
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)
	case *ast.Function:
		r.define(s.Name)
		r.resolveFunction(s, inFunction)
	case *ast.Class:
		r.resolveClass(s)
	case *ast.Expression:
		r.resolveExpr(s.Expression)
	case *ast.If:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStmt(s.ElseBranch)
		}
	case *ast.Print:
		r.resolveExpr(s.Expression)
	case *ast.Return:
		if r.currentFunction == noFunction {
			r.error(s.Keyword, "can't return from top-level code")
		}
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}
	case *ast.While:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)
	}
}

func (r *Resolver) resolveClass(class *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = inClass
	defer func() { r.currentClass = enclosingClass }()

	r.define(class.Name)

	if class.Superclass != nil {
		if class.Superclass.Name.Lexeme == class.Name.Lexeme {
			r.error(class.Superclass.Name, "a class can't inherit from itself")
		}
		r.currentClass = inSubclass
		r.resolveExpr(class.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
		defer r.endScope()
	}

	// Methods are bound by wrapping their closure in a scope holding `this`.
	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true
	for _, method := range class.Methods {
		r.resolveFunction(method, inMethod)
	}
	r.endScope()
}

// resolveFunction opens a single scope for parameters and body, mirroring the
// one environment a call creates.
func (r *Resolver) resolveFunction(fn *ast.Function, kind functionType) {
	enclosing := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.define(param)
	}
	r.resolveStmts(fn.Body.Statements)
	r.endScope()

	r.currentFunction = enclosing
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Variable:
		r.resolveLocal(e, e.Name.Lexeme)
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name.Lexeme)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Unary:
		r.resolveExpr(e.Right)
	case *ast.Grouping:
		r.resolveExpr(e.Expression)
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpr(arg)
		}
	case *ast.ArrayLiteral:
		for _, el := range e.Elements {
			r.resolveExpr(el)
		}
	case *ast.Index:
		r.resolveExpr(e.Object)
		r.resolveExpr(e.Index)
	case *ast.SetIndex:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
		r.resolveExpr(e.Index)
	case *ast.Get:
		r.resolveExpr(e.Object)
	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ast.This:
		if r.currentClass == noClass {
			r.error(e.Keyword, "can't use 'this' outside of a class")
			return
		}
		r.resolveLocal(e, "this")
	case *ast.Super:
		switch r.currentClass {
		case noClass:
			r.error(e.Keyword, "can't use 'super' outside of a class")
			return
		case inClass:
			r.error(e.Keyword, "can't use 'super' in a class with no superclass")
			return
		}
		r.resolveLocal(e, "super")
	case *ast.Literal:
	}
}

func (r *Resolver) resolveLocal(expr ast.Expr, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if r.scopes[i][name] {
			r.locals.Resolve(expr, len(r.scopes)-1-i)
			return
		}
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, map[string]bool{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) error(tok token.Token, msg string) {
	r.errors = append(r.errors, object.NewParseError(msg, tok.Span))
}
