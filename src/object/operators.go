package object

// Operator semantics shared by the evaluator and builtins.
//
// Integer arithmetic stays Integer; any Decimal operand promotes the whole
// operation to Decimal. Comparisons and numeric equality always widen to
// float64, so integers beyond 2^53 can compare equal when they differ.

// IsTruthy reports false only for nil and false.
func IsTruthy(obj Object) bool {
	switch obj := obj.(type) {
	case *Nil:
		return false
	case *Boolean:
		return obj.Value
	default:
		return true
	}
}

func isNumber(obj Object) bool {
	switch obj.(type) {
	case *Integer, *Decimal:
		return true
	}
	return false
}

func toFloat(obj Object) float64 {
	switch obj := obj.(type) {
	case *Integer:
		return float64(obj.Value)
	case *Decimal:
		return obj.Value
	}
	return 0
}

// Equal implements `==`. Scalars compare by value, numbers across Integer
// and Decimal, and arrays, instances and callables by identity.
func Equal(left, right Object) bool {
	switch l := left.(type) {
	case *Nil:
		_, ok := right.(*Nil)
		return ok
	case *String:
		r, ok := right.(*String)
		return ok && l.Value == r.Value
	case *Boolean:
		r, ok := right.(*Boolean)
		return ok && l.Value == r.Value
	case *Integer, *Decimal:
		return isNumber(right) && toFloat(left) == toFloat(right)
	}
	return left == right
}

func numberOperandsError() *Error {
	return NewError(OperandsMustBeNumbers, "operands must be numbers")
}

// arithmetic applies intOp or floatOp after the numeric check and promotion.
func arithmetic(left, right Object, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) (Object, error) {
	if !isNumber(left) || !isNumber(right) {
		return nil, numberOperandsError()
	}
	l, lok := left.(*Integer)
	r, rok := right.(*Integer)
	if lok && rok {
		return &Integer{Value: intOp(l.Value, r.Value)}, nil
	}
	return &Decimal{Value: floatOp(toFloat(left), toFloat(right))}, nil
}

// Add implements `+`: numeric addition, or concatenation of the two
// renderings when either side is a string.
func Add(left, right Object) (Object, error) {
	if isNumber(left) && isNumber(right) {
		return arithmetic(left, right,
			func(a, b int64) int64 { return a + b },
			func(a, b float64) float64 { return a + b })
	}
	_, ls := left.(*String)
	_, rs := right.(*String)
	if ls || rs {
		return &String{Value: left.Inspect() + right.Inspect()}, nil
	}
	return nil, NewError(OperandsMustBeNumberOrString, "operands must be number or string")
}

func Subtract(left, right Object) (Object, error) {
	return arithmetic(left, right,
		func(a, b int64) int64 { return a - b },
		func(a, b float64) float64 { return a - b })
}

func Multiply(left, right Object) (Object, error) {
	return arithmetic(left, right,
		func(a, b int64) int64 { return a * b },
		func(a, b float64) float64 { return a * b })
}

// Divide rejects a zero on either side before dividing.
func Divide(left, right Object) (Object, error) {
	if !isNumber(left) || !isNumber(right) {
		return nil, numberOperandsError()
	}
	if toFloat(left) == 0.0 || toFloat(right) == 0.0 {
		return nil, NewError(DivisionByZeroErr, "attempt to divide by zero")
	}
	return arithmetic(left, right,
		func(a, b int64) int64 { return a / b },
		func(a, b float64) float64 { return a / b })
}

// Negate implements unary `-`, keeping the operand's numeric type.
func Negate(operand Object) (Object, error) {
	switch operand := operand.(type) {
	case *Integer:
		return &Integer{Value: -operand.Value}, nil
	case *Decimal:
		return &Decimal{Value: -operand.Value}, nil
	}
	return nil, NewError(UnaryOperandMustBeNumber, "unary operand must be a number")
}

// Not implements unary `!`.
func Not(operand Object) Object {
	return NativeBool(!IsTruthy(operand))
}

func compare(left, right Object, cmp func(a, b float64) bool) (Object, error) {
	if !isNumber(left) || !isNumber(right) {
		return nil, numberOperandsError()
	}
	return NativeBool(cmp(toFloat(left), toFloat(right))), nil
}

func Less(left, right Object) (Object, error) {
	return compare(left, right, func(a, b float64) bool { return a < b })
}

func LessEqual(left, right Object) (Object, error) {
	return compare(left, right, func(a, b float64) bool { return a <= b })
}

func Greater(left, right Object) (Object, error) {
	return compare(left, right, func(a, b float64) bool { return a > b })
}

func GreaterEqual(left, right Object) (Object, error) {
	return compare(left, right, func(a, b float64) bool { return a >= b })
}
