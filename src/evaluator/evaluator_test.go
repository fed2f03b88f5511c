package evaluator

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/javanhut/Lox/src/lexer"
	"github.com/javanhut/Lox/src/object"
	"github.com/javanhut/Lox/src/parser"
	"github.com/javanhut/Lox/src/resolver"
)

// run executes source end to end and returns the printed lines.
func run(t *testing.T, source string, opts ...Option) ([]string, error) {
	t.Helper()
	return execute(t, source, true, opts...)
}

// runUnresolved skips the resolver so every name is found by searching
// outward through the environment chain.
func runUnresolved(t *testing.T, source string) ([]string, error) {
	t.Helper()
	return execute(t, source, false)
}

func execute(t *testing.T, source string, resolve bool, opts ...Option) ([]string, error) {
	t.Helper()
	tokens, lexErrs := lexer.New(source).Tokenize()
	if len(lexErrs) != 0 {
		t.Fatalf("lexer errors: %v", lexErrs)
	}
	stmts, parseErrs := parser.New(tokens).Parse()
	if len(parseErrs) != 0 {
		t.Fatalf("parse errors: %v", parseErrs)
	}

	var out bytes.Buffer
	in := New(append([]Option{WithOutput(&out)}, opts...)...)
	if resolve {
		if errs := resolver.New(in).Resolve(stmts); len(errs) != 0 {
			t.Fatalf("resolve errors: %v", errs)
		}
	}
	err := in.Interpret(stmts)

	printed := strings.TrimSuffix(out.String(), "\n")
	if printed == "" {
		return nil, err
	}
	return strings.Split(printed, "\n"), err
}

func expectOutput(t *testing.T, source string, want ...string) {
	t.Helper()
	got, err := run(t, source)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func expectError(t *testing.T, source string, kind object.ErrorType, msg string) *object.Error {
	t.Helper()
	_, err := run(t, source)
	var rtErr *object.Error
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected *object.Error, got %v", err)
	}
	if rtErr.ErrorKind != kind {
		t.Fatalf("kind = %s, want %s (%s)", rtErr.ErrorKind, kind, rtErr.Message)
	}
	if !strings.Contains(rtErr.Message, msg) {
		t.Fatalf("message = %q, want it to contain %q", rtErr.Message, msg)
	}
	return rtErr
}

func TestNumericWidening(t *testing.T) {
	expectOutput(t, `
print 2 + 3;
print 2 - 5;
print 4 * 3;
print 2 + 0.5;
print 1.5 * 2;
print 7 / 2;
print 7.0 / 2;
print type(2 + 3);
print type(2 + 3.0);
`, "5", "-3", "12", "2.5", "3", "3", "3.5", "INTEGER", "DECIMAL")
}

func TestDivisionByZero(t *testing.T) {
	for _, src := range []string{"print 5 / 0;", "print 0 / 5;", "print 0.0 / 1;"} {
		expectError(t, src, object.DivisionByZeroErr, "attempt to divide by zero")
	}
}

func TestPrintAbortsBeforeLaterStatements(t *testing.T) {
	got, err := run(t, "print 1; print 1 / 0; print 2;")
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	if diff := cmp.Diff([]string{"1"}, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestConcatenation(t *testing.T) {
	expectOutput(t, `print "a" + 1; print 1 + "a"; print "x" + nil + true;`, "a1", "1a", "xniltrue")
}

func TestEquality(t *testing.T) {
	expectOutput(t, `
print nil == nil;
print nil == 0;
print 1 == 1.0;
print "x" == "x";
print true == 1;
print 1 != 2;
let a = [1];
let b = [1];
print a == a;
print a == b;
`, "true", "false", "true", "true", "false", "true", "true", "false")
}

func TestTruthiness(t *testing.T) {
	expectOutput(t, `
fn f() {}
if (nil) print "nil"; else print "nil falsy";
if (false) print "false"; else print "false falsy";
if (0) print "0 truthy";
if ("") print "empty truthy";
if ([]) print "array truthy";
if (f) print "fn truthy";
if (clock) print "native truthy";
`, "nil falsy", "false falsy", "0 truthy", "empty truthy", "array truthy", "fn truthy", "native truthy")
}

func TestLogicalReturnsOperand(t *testing.T) {
	expectOutput(t, `
print nil or "default";
print "first" or "second";
print nil and boom();
print 1 and 2;
`, "default", "first", "nil", "2")
}

func TestScoping(t *testing.T) {
	expectOutput(t, "let a = 1; { let a = 2; print a; } print a;", "2", "1")
}

func TestInnerAssignmentMutatesOuter(t *testing.T) {
	expectOutput(t, "let a = 1; { a = 2; } print a;", "2")
}

func TestAssignUndeclared(t *testing.T) {
	expectError(t, "x = 1;", object.NameError, "undefined variable 'x'")
	expectError(t, "print y;", object.NameError, "undefined variable 'y'")
}

func TestClosureCounter(t *testing.T) {
	expectOutput(t, `
fn make() {
  let x = 0;
  fn inc() { x = x + 1; return x; }
  return inc;
}
let c = make();
print c();
print c();
let d = make();
print d();
`, "1", "2", "1")
}

func TestFunctionArity(t *testing.T) {
	expectOutput(t, "fn add(a, b) { return a + b; } print add(2, 3);", "5")
	expectError(t, "fn add(a, b) { return a + b; } add(1);", object.MissingArgumentsError, "'b' has no value")
	expectError(t, "fn add(a, b) { return a + b; } add(1, 2, 3);", object.ArityError, "expected 2 arguments but got 3")
}

func TestReturnUnwinding(t *testing.T) {
	expectOutput(t, `
fn find(limit) {
  let i = 0;
  while (true) {
    if (i == limit) {
      return i;
    }
    i = i + 1;
  }
  print "unreachable";
}
fn early() {
  for (let i = 0; i < 10; i = i + 1) {
    if (i == 2) return "stopped at " + i;
  }
}
fn none() { print "body"; }
print find(3);
print early();
print none();
`, "3", "stopped at 2", "body", "nil")
}

func TestRecursion(t *testing.T) {
	expectOutput(t, `
fn fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(15);
`, "610")
}

func TestClassesHaveIndependentFields(t *testing.T) {
	expectOutput(t, `
class Point {
  init(x) { this.x = x; }
  fn describe() { return "point " + this.x; }
}
let p = Point(1);
let q = Point(2);
p.x = 10;
print p.describe();
print q.describe();
print p;
print Point;
`, "point 10", "point 2", "<Point instance>", "<class Point>")
}

func TestBoundMethodKeepsThis(t *testing.T) {
	expectOutput(t, `
class Counter {
  init() { this.n = 0; }
  fn bump() { this.n = this.n + 1; return this.n; }
}
let c = Counter();
let bump = c.bump;
bump();
bump();
print c.n;
`, "2")
}

func TestInitResultDiscarded(t *testing.T) {
	expectOutput(t, `
class A {
  init() { this.v = 1; return 42; }
}
let a = A();
print a.v;
print a;
`, "1", "<A instance>")
}

func TestInheritanceAndSuper(t *testing.T) {
	expectOutput(t, `
class Animal {
  init(name) { this.name = name; }
  fn speak() { return this.name + " makes a sound"; }
  fn kind() { return "animal"; }
}
class Dog extends Animal {
  fn speak() { return super.speak() + " and barks"; }
}
class Puppy extends Dog {
  fn speak() { return super.speak() + " softly"; }
}
let d = Puppy("rex");
print d.speak();
print d.kind();
`, "rex makes a sound and barks softly", "animal")
}

func TestFieldsShadowMethods(t *testing.T) {
	expectOutput(t, `
class A { fn m() { return "method"; } }
let a = A();
a.m = "field";
print a.m;
`, "field")
}

func TestClassErrors(t *testing.T) {
	expectError(t, "let NotClass = 1; class A extends NotClass {}", object.NotAClassError, "not a class")
	expectError(t, "class A {} A().missing;", object.AttributeError, "undefined property 'missing'")
	expectError(t, "let x = 1; x.y = 2;", object.NotAnInstanceError, "not an instance")
	expectError(t, `"str"();`, object.NotCallableError, "not callable")
	expectError(t, "class A {} A(1);", object.ArityError, "expected 0 arguments but got 1")
}

func TestOperandErrors(t *testing.T) {
	expectError(t, "print -\"a\";", object.UnaryOperandMustBeNumber, "unary operand must be a number")
	expectError(t, "print 1 < \"a\";", object.OperandsMustBeNumbers, "operands must be numbers")
	expectError(t, "print true + nil;", object.OperandsMustBeNumberOrString, "operands must be number or string")
}

func TestArrays(t *testing.T) {
	expectOutput(t, `
let xs = [1, "two", 3.5];
print xs;
print xs[1];
xs[0] = 10;
xs[0] += 5;
print xs[0];
let ys = xs;
push(ys, nil);
print len(xs);
print pop(xs);
print concat([1], [2, 3]);
print "héllo"[1];
`, `[1, two, 3.5]`, "two", "15", "4", "nil", "[1, 2, 3]", "é")
}

func TestArrayIndexErrors(t *testing.T) {
	expectError(t, "let xs = [1]; print xs[1];", object.IndexError, "index out of range")
	expectError(t, "let xs = [1]; print xs[-1];", object.IndexError, "index out of range")
	expectError(t, `let xs = [1]; print xs["0"];`, object.IndexError, "index must be an integer")
	expectError(t, "print 5[0];", object.IndexError, "not indexable")
	expectError(t, "pop([]);", object.IndexError, "pop from empty array")
}

func TestSelfContainingArray(t *testing.T) {
	expectOutput(t, `
let a = [1];
push(a, a);
print len(a);
print a;
print "x" + a;
let b = [a, a];
print b;
`, "2", "[1, [...]]", "x[1, [...]]", "[[1, [...]], [1, [...]]]")
}

func TestNativeArgumentTypes(t *testing.T) {
	expectError(t, "len(5);", object.ArgumentTypeError, "len: argument of type INTEGER has no length")
	expectError(t, "push(1, 2);", object.ArgumentTypeError, "push expects an array as argument 1, got INTEGER")
	expectError(t, "pop(nil);", object.ArgumentTypeError, "pop expects an array as argument 1")
	expectError(t, `concat([1], "a");`, object.ArgumentTypeError, "concat expects an array as argument 2, got STRING")
}

func TestNatives(t *testing.T) {
	expectOutput(t, `
print str(1.5) + "!";
print type(nil);
print type(clock());
print len("héllo");
print clock;
`, "1.5!", "NIL", "DECIMAL", "5", "<native fn clock>")
	expectError(t, "len();", object.MissingArgumentsError, "len expects 1 arguments but got 0")
}

func TestRuntimeErrorCarriesSpanAndStack(t *testing.T) {
	rtErr := expectError(t, `
fn inner() {
  return 1 / 0;
}
fn outer() { inner(); }
outer();
`, object.DivisionByZeroErr, "attempt to divide by zero")

	if rtErr.Span.Start.Line != 3 || rtErr.Span.Start.Column != 10 {
		t.Fatalf("span = %s, want 3:10", rtErr.Span)
	}
	var names []string
	for _, entry := range rtErr.StackTrace {
		names = append(names, entry.Function)
	}
	if diff := cmp.Diff([]string{"outer", "inner"}, names); diff != "" {
		t.Fatalf("stack mismatch (-want +got):\n%s", diff)
	}
}

func TestWithSourceAddsContext(t *testing.T) {
	source := "let a = 1;\nprint a + nil;"
	_, err := run(t, source, WithSource(source, 1))
	var rtErr *object.Error
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected *object.Error, got %v", err)
	}
	if got, want := rtErr.Context, source; got != want {
		t.Fatalf("context = %q, want %q", got, want)
	}
}

func TestTracerLogsCalls(t *testing.T) {
	var trace bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&trace, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
	_, err := run(t, "fn f(a) { return a; } f(1);", WithTracer(logger))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "level=DEBUG msg=call function=f depth=0 args=1\n" +
		"level=DEBUG msg=return function=f depth=0 value=1\n"
	if diff := cmp.Diff(want, trace.String()); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestCompletionNeverSurfacesAsError(t *testing.T) {
	in := New(WithOutput(&bytes.Buffer{}))
	tokens, _ := lexer.New("fn f() { { while (true) { return 7; } } } let r = f();").Tokenize()
	stmts, _ := parser.New(tokens).Parse()
	if errs := resolver.New(in).Resolve(stmts); len(errs) != 0 {
		t.Fatalf("resolve errors: %v", errs)
	}
	for _, stmt := range stmts {
		completion, err := in.Execute(stmt)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if completion.Kind != object.Normal {
			t.Fatalf("top-level completion = %v, want Normal", completion.Kind)
		}
	}
	if v, _ := in.Globals().Get("r"); v.Inspect() != "7" {
		t.Fatalf("r = %s, want 7", v.Inspect())
	}
}

func TestTopLevelReturnPanics(t *testing.T) {
	tokens, _ := lexer.New("return 1;").Tokenize()
	stmts, _ := parser.New(tokens).Parse()
	in := New(WithOutput(&bytes.Buffer{}))
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for an unresolved top-level return")
		}
	}()
	_ = in.Interpret(stmts)
}

func TestUnresolvedLookupMatchesResolved(t *testing.T) {
	source := `
let a = "global";
{
  let a = "outer";
  {
    let a = "inner";
    print a;
  }
  print a;
  a = "outer again";
  print a;
}
print a;

fn makeCounter() {
  let count = 0;
  fn increment() {
    count = count + 1;
    return count;
  }
  return increment;
}
let counter = makeCounter();
counter();
print counter();

class Animal {
  init(name) { this.name = name; }
  fn speak() { return this.name + " makes a sound"; }
}
class Dog extends Animal {
  fn speak() { return super.speak() + " and barks"; }
  fn greeter() {
    fn greet() { return "hi from " + this.name; }
    return greet;
  }
}
let d = Dog("rex");
print d.speak();
print d.greeter()();
let method = d.speak;
print method();
`
	want := []string{
		"inner", "outer", "outer again", "global",
		"2",
		"rex makes a sound and barks", "hi from rex", "rex makes a sound and barks",
	}

	resolved, err := run(t, source)
	if err != nil {
		t.Fatalf("resolved run: %v", err)
	}
	unresolved, err := runUnresolved(t, source)
	if err != nil {
		t.Fatalf("unresolved run: %v", err)
	}
	if diff := cmp.Diff(want, resolved); diff != "" {
		t.Fatalf("resolved output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(resolved, unresolved); diff != "" {
		t.Fatalf("unresolved output differs (-resolved +unresolved):\n%s", diff)
	}

	_, err = runUnresolved(t, "fn f() { missing = 1; } f();")
	var rtErr *object.Error
	if !errors.As(err, &rtErr) || rtErr.ErrorKind != object.NameError {
		t.Fatalf("unresolved assignment to undeclared name: got %v", err)
	}
}
