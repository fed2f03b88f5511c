package resolver

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/javanhut/Lox/src/ast"
	"github.com/javanhut/Lox/src/lexer"
	"github.com/javanhut/Lox/src/object"
	"github.com/javanhut/Lox/src/parser"
)

type recorder map[string][]int

func (r recorder) Resolve(expr ast.Expr, depth int) {
	r[expr.String()] = append(r[expr.String()], depth)
}

func resolve(t *testing.T, input string) (recorder, []*object.ParseError) {
	t.Helper()
	tokens, lexErrs := lexer.New(input).Tokenize()
	if len(lexErrs) != 0 {
		t.Fatalf("lexer errors: %v", lexErrs)
	}
	stmts, parseErrs := parser.New(tokens).Parse()
	if len(parseErrs) != 0 {
		t.Fatalf("parse errors: %v", parseErrs)
	}
	locals := recorder{}
	return locals, New(locals).Resolve(stmts)
}

func messages(errs []*object.ParseError) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Message
	}
	return out
}

func TestResolveDistances(t *testing.T) {
	locals, errs := resolve(t, `
let g = 1;
fn outer(a) {
  let b = a;
  {
    print b;
    print g;
  }
  fn inner() { return a; }
}
`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", messages(errs))
	}
	want := recorder{
		"a": {0, 1},
		"b": {1},
	}
	if diff := cmp.Diff(want, locals); diff != "" {
		t.Fatalf("distances mismatch (-want +got):\n%s", diff)
	}
}

func TestInitializerSeesEnclosingBinding(t *testing.T) {
	locals, errs := resolve(t, `
fn f() {
  let a = 1;
  {
    let a = a;
  }
}
`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", messages(errs))
	}
	if diff := cmp.Diff(recorder{"a": {1}}, locals); diff != "" {
		t.Fatalf("distances mismatch (-want +got):\n%s", diff)
	}
}

func TestThisAndSuperDistances(t *testing.T) {
	locals, errs := resolve(t, `
class A { fn get() { return 1; } }
class B extends A {
  fn get() { return super.get() + this.x; }
}
`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", messages(errs))
	}
	want := recorder{
		"super.get": {2},
		"this":      {1},
	}
	if diff := cmp.Diff(want, locals); diff != "" {
		t.Fatalf("distances mismatch (-want +got):\n%s", diff)
	}
}

func TestStaticErrors(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"return 1;", []string{"can't return from top-level code"}},
		{"print this;", []string{"can't use 'this' outside of a class"}},
		{"fn f() { return super.x; }", []string{"can't use 'super' outside of a class"}},
		{"class A { fn f() { return super.f(); } }", []string{"can't use 'super' in a class with no superclass"}},
		{"class A extends A {}", []string{"a class can't inherit from itself"}},
		{"let a = 1; let a = 2; { let b = 1; let b = b; }", nil},
	}
	for _, tt := range tests {
		_, errs := resolve(t, tt.input)
		got := messages(errs)
		if len(got) == 0 {
			got = nil
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("%q errors mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}
