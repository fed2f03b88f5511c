package object

import (
	"errors"
	"testing"
)

func integer(v int64) *Integer  { return &Integer{Value: v} }
func decimal(v float64) *Decimal { return &Decimal{Value: v} }
func str(v string) *String       { return &String{Value: v} }

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		value Object
		want  bool
	}{
		{NIL, false},
		{FALSE, false},
		{TRUE, true},
		{integer(0), true},
		{decimal(0), true},
		{str(""), true},
		{&Array{}, true},
	}
	for _, tt := range tests {
		if got := IsTruthy(tt.value); got != tt.want {
			t.Fatalf("IsTruthy(%s) = %v, want %v", tt.value.Inspect(), got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	array := &Array{}
	tests := []struct {
		name        string
		left, right Object
		want        bool
	}{
		{"nil nil", NIL, NIL, true},
		{"nil false", NIL, FALSE, false},
		{"false nil", FALSE, NIL, false},
		{"int int", integer(1), integer(1), true},
		{"int decimal", integer(1), decimal(1.0), true},
		{"decimal int differ", decimal(1.5), integer(1), false},
		{"string by value", str("a"), str("a"), true},
		{"string differ", str("a"), str("b"), false},
		{"number vs string", integer(1), str("1"), false},
		{"bool vs number", TRUE, integer(1), false},
		{"bools", &Boolean{Value: true}, TRUE, true},
		{"same array", array, array, true},
		{"distinct arrays", &Array{}, &Array{}, false},
	}
	for _, tt := range tests {
		if got := Equal(tt.left, tt.right); got != tt.want {
			t.Fatalf("%s: Equal = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestArithmeticPromotion(t *testing.T) {
	tests := []struct {
		name  string
		op    func(a, b Object) (Object, error)
		left  Object
		right Object
		want  string
		typ   ObjectType
	}{
		{"int add", Add, integer(2), integer(3), "5", INTEGER_OBJ},
		{"mixed add", Add, integer(2), decimal(0.5), "2.5", DECIMAL_OBJ},
		{"int sub", Subtract, integer(2), integer(5), "-3", INTEGER_OBJ},
		{"int mul", Multiply, integer(4), integer(3), "12", INTEGER_OBJ},
		{"int div truncates", Divide, integer(7), integer(2), "3", INTEGER_OBJ},
		{"decimal div", Divide, decimal(7), integer(2), "3.5", DECIMAL_OBJ},
		{"concat right number", Add, str("a"), integer(1), "a1", STRING_OBJ},
		{"concat left number", Add, integer(1), str("a"), "1a", STRING_OBJ},
		{"concat nil", Add, str("x"), NIL, "xnil", STRING_OBJ},
	}
	for _, tt := range tests {
		got, err := tt.op(tt.left, tt.right)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tt.name, err)
		}
		if got.Inspect() != tt.want || got.Type() != tt.typ {
			t.Fatalf("%s: got %s (%s), want %s (%s)", tt.name, got.Inspect(), got.Type(), tt.want, tt.typ)
		}
	}
}

func TestDivideByZero(t *testing.T) {
	cases := [][2]Object{
		{integer(1), integer(0)},
		{integer(0), integer(5)},
		{decimal(0.0), integer(1)},
		{decimal(1.5), decimal(0)},
	}
	for _, c := range cases {
		_, err := Divide(c[0], c[1])
		var rtErr *Error
		if !errors.As(err, &rtErr) || rtErr.ErrorKind != DivisionByZeroErr {
			t.Fatalf("%s / %s: expected division by zero, got %v", c[0].Inspect(), c[1].Inspect(), err)
		}
		if rtErr.Message != "attempt to divide by zero" {
			t.Fatalf("unexpected message %q", rtErr.Message)
		}
	}
}

func TestOperandErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorType
		msg  string
	}{
		{"add bools", second(Add(TRUE, integer(1))), OperandsMustBeNumberOrString, "operands must be number or string"},
		{"sub string", second(Subtract(str("a"), integer(1))), OperandsMustBeNumbers, "operands must be numbers"},
		{"less nil", second(Less(NIL, integer(1))), OperandsMustBeNumbers, "operands must be numbers"},
		{"negate string", second(Negate(str("a"))), UnaryOperandMustBeNumber, "unary operand must be a number"},
	}
	for _, tt := range tests {
		var rtErr *Error
		if !errors.As(tt.err, &rtErr) {
			t.Fatalf("%s: expected *Error, got %v", tt.name, tt.err)
		}
		if rtErr.ErrorKind != tt.kind || rtErr.Message != tt.msg {
			t.Fatalf("%s: got %s %q", tt.name, rtErr.ErrorKind, rtErr.Message)
		}
	}
}

func second(_ Object, err error) error { return err }

func TestComparisonsWiden(t *testing.T) {
	got, err := LessEqual(integer(2), decimal(2.0))
	if err != nil || got != TRUE {
		t.Fatalf("2 <= 2.0 = %v, %v", got, err)
	}
	got, err = Greater(decimal(2.5), integer(3))
	if err != nil || got != FALSE {
		t.Fatalf("2.5 > 3 = %v, %v", got, err)
	}
}

func TestNegateKeepsType(t *testing.T) {
	got, err := Negate(integer(3))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.(*Integer); !ok || got.Inspect() != "-3" {
		t.Fatalf("Negate(3) = %s (%T)", got.Inspect(), got)
	}
	if Not(NIL) != TRUE || Not(integer(0)) != FALSE {
		t.Fatal("Not must negate truthiness")
	}
}

func TestArrayInspectCycles(t *testing.T) {
	shared := &Array{Elements: []Object{integer(1)}}
	pair := &Array{Elements: []Object{shared, shared}}
	if got := pair.Inspect(); got != "[[1], [1]]" {
		t.Fatalf("shared element: got %q", got)
	}

	self := &Array{Elements: []Object{integer(1)}}
	self.Elements = append(self.Elements, self)
	if got := self.Inspect(); got != "[1, [...]]" {
		t.Fatalf("self reference: got %q", got)
	}

	outer := &Array{}
	inner := &Array{Elements: []Object{outer}}
	outer.Elements = []Object{inner}
	if got := outer.Inspect(); got != "[[[...]]]" {
		t.Fatalf("mutual reference: got %q", got)
	}

	sum, err := Add(str("x"), self)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := sum.Inspect(); got != "x[1, [...]]" {
		t.Fatalf("concatenation: got %q", got)
	}
}
