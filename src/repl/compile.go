package repl

import (
	"github.com/javanhut/Lox/src/ast"
	"github.com/javanhut/Lox/src/lexer"
	"github.com/javanhut/Lox/src/object"
	"github.com/javanhut/Lox/src/parser"
	"github.com/javanhut/Lox/src/resolver"
)

// Compile runs the front end over source: scanning, parsing and scope
// resolution into locals. Lexical and syntax errors are reported together;
// resolution only runs on a program that parsed cleanly.
func Compile(source, fileName string, locals resolver.Locals) ([]ast.Stmt, []*object.ParseError) {
	tokens, errs := lexer.New(source, fileName).Tokenize()
	statements, parseErrs := parser.New(tokens).Parse()
	errs = append(errs, parseErrs...)
	if len(errs) > 0 {
		return nil, errs
	}
	if errs := resolver.New(locals).Resolve(statements); len(errs) > 0 {
		return nil, errs
	}
	return statements, nil
}

// AttachContext quotes the offending source lines in each error.
func AttachContext(errs []*object.ParseError, source string, contextLines int) {
	for _, err := range errs {
		if err.Context == "" {
			err.WithContext(object.GetContextFromSource(source, err.Span.Start, contextLines))
		}
	}
}
