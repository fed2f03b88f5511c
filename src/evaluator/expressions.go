package evaluator

import (
	"log/slog"

	"github.com/javanhut/Lox/src/ast"
	"github.com/javanhut/Lox/src/object"
	"github.com/javanhut/Lox/src/token"
)

func (in *Interpreter) evaluate(expr ast.Expr, env *object.Environment) (object.Object, error) {
	value, err := in.eval(expr, env)
	if err != nil {
		return nil, in.decorate(err, expr)
	}
	return value, nil
}

func (in *Interpreter) eval(expr ast.Expr, env *object.Environment) (object.Object, error) {
	switch node := expr.(type) {
	case *ast.Literal:
		return literalObject(node), nil
	case *ast.Grouping:
		return in.evaluate(node.Expression, env)
	case *ast.Unary:
		return in.evalUnary(node, env)
	case *ast.Binary:
		return in.evalBinary(node, env)
	case *ast.Logical:
		return in.evalLogical(node, env)
	case *ast.Variable:
		return in.lookUpVariable(node.Name.Lexeme, node, env)
	case *ast.Assign:
		return in.evalAssign(node, env)
	case *ast.Call:
		return in.evalCall(node, env)
	case *ast.ArrayLiteral:
		elements, err := in.evalExpressions(node.Elements, env)
		if err != nil {
			return nil, err
		}
		return &object.Array{Elements: elements}, nil
	case *ast.Index:
		return in.evalIndex(node, env)
	case *ast.SetIndex:
		return in.evalSetIndex(node, env)
	case *ast.Get:
		return in.evalGet(node, env)
	case *ast.Set:
		return in.evalSet(node, env)
	case *ast.This:
		return in.lookUpVariable("this", node, env)
	case *ast.Super:
		return in.evalSuper(node, env)
	}
	return nil, newError(object.InternalError, "unknown expression %T", expr)
}

func literalObject(node *ast.Literal) object.Object {
	switch v := node.Value.(type) {
	case bool:
		return object.NativeBool(v)
	case int64:
		return &object.Integer{Value: v}
	case float64:
		return &object.Decimal{Value: v}
	case string:
		return &object.String{Value: v}
	}
	return object.NIL
}

func (in *Interpreter) evalExpressions(exprs []ast.Expr, env *object.Environment) ([]object.Object, error) {
	result := make([]object.Object, 0, len(exprs))
	for _, e := range exprs {
		value, err := in.evaluate(e, env)
		if err != nil {
			return nil, err
		}
		result = append(result, value)
	}
	return result, nil
}

func (in *Interpreter) evalUnary(node *ast.Unary, env *object.Environment) (object.Object, error) {
	right, err := in.evaluate(node.Right, env)
	if err != nil {
		return nil, err
	}
	switch node.Operator.Type {
	case token.BANG:
		return object.Not(right), nil
	case token.MINUS:
		return object.Negate(right)
	}
	return nil, newError(object.InternalError, "unknown unary operator %s", node.Operator.Lexeme)
}

func (in *Interpreter) evalBinary(node *ast.Binary, env *object.Environment) (object.Object, error) {
	left, err := in.evaluate(node.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := in.evaluate(node.Right, env)
	if err != nil {
		return nil, err
	}

	switch node.Operator.Type {
	case token.PLUS:
		return object.Add(left, right)
	case token.MINUS:
		return object.Subtract(left, right)
	case token.ASTERISK:
		return object.Multiply(left, right)
	case token.SLASH:
		return object.Divide(left, right)
	case token.EQ:
		return object.NativeBool(object.Equal(left, right)), nil
	case token.NOT_EQ:
		return object.NativeBool(!object.Equal(left, right)), nil
	case token.LT:
		return object.Less(left, right)
	case token.LT_EQ:
		return object.LessEqual(left, right)
	case token.GT:
		return object.Greater(left, right)
	case token.GT_EQ:
		return object.GreaterEqual(left, right)
	}
	return nil, newError(object.InternalError, "unknown binary operator %s", node.Operator.Lexeme)
}

// evalLogical short-circuits and yields the deciding operand itself.
func (in *Interpreter) evalLogical(node *ast.Logical, env *object.Environment) (object.Object, error) {
	left, err := in.evaluate(node.Left, env)
	if err != nil {
		return nil, err
	}
	if node.Operator.Type == token.OR {
		if object.IsTruthy(left) {
			return left, nil
		}
	} else if !object.IsTruthy(left) {
		return left, nil
	}
	return in.evaluate(node.Right, env)
}

// lookUpVariable uses the resolved distance when there is one and otherwise
// searches outward to the globals.
func (in *Interpreter) lookUpVariable(name string, expr ast.Expr, env *object.Environment) (object.Object, error) {
	var (
		value object.Object
		ok    bool
	)
	if distance, resolved := in.locals[expr]; resolved {
		value, ok = env.GetAt(distance, name)
	} else {
		value, ok = env.Get(name)
	}
	if !ok {
		return nil, newError(object.NameError, "undefined variable '%s'", name)
	}
	return value, nil
}

func (in *Interpreter) evalAssign(node *ast.Assign, env *object.Environment) (object.Object, error) {
	value, err := in.evaluate(node.Value, env)
	if err != nil {
		return nil, err
	}
	var ok bool
	if distance, resolved := in.locals[node]; resolved {
		ok = env.AssignAt(distance, node.Name.Lexeme, value)
	} else {
		ok = env.Assign(node.Name.Lexeme, value)
	}
	if !ok {
		return nil, newError(object.NameError, "undefined variable '%s'", node.Name.Lexeme).
			WithSuggestion("declare it with 'let' before assigning to it")
	}
	return value, nil
}

func (in *Interpreter) evalCall(node *ast.Call, env *object.Environment) (object.Object, error) {
	callee, err := in.evaluate(node.Callee, env)
	if err != nil {
		return nil, err
	}
	args, err := in.evalExpressions(node.Arguments, env)
	if err != nil {
		return nil, err
	}

	fn, ok := callee.(object.Callable)
	if !ok {
		return nil, newError(object.NotCallableError, "not callable: %s is not a function or class",
			callee.Inspect())
	}

	in.trace("call", fn.Name(), slog.Int("args", len(args)))
	in.ctx.PushCallFrame(fn.Name(), node.Span())
	result, err := fn.Call(in, args)
	if err != nil {
		err = in.decorate(err, node)
	}
	in.ctx.PopCallFrame()
	if err != nil {
		return nil, err
	}
	in.trace("return", fn.Name(), slog.String("value", result.Inspect()))
	return result, nil
}

func (in *Interpreter) evalGet(node *ast.Get, env *object.Environment) (object.Object, error) {
	obj, err := in.evaluate(node.Object, env)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*object.Instance)
	if !ok {
		return nil, newError(object.NotAnInstanceError,
			"not an instance: cannot read property '%s' of %s", node.Name.Lexeme, obj.Inspect())
	}
	value, ok := instance.Get(node.Name.Lexeme)
	if !ok {
		return nil, newError(object.AttributeError, "undefined property '%s' on %s",
			node.Name.Lexeme, instance.Inspect())
	}
	return value, nil
}

func (in *Interpreter) evalSet(node *ast.Set, env *object.Environment) (object.Object, error) {
	obj, err := in.evaluate(node.Object, env)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*object.Instance)
	if !ok {
		return nil, newError(object.NotAnInstanceError,
			"not an instance: cannot set property '%s' on %s", node.Name.Lexeme, obj.Inspect())
	}
	value, err := in.evaluate(node.Value, env)
	if err != nil {
		return nil, err
	}
	instance.Set(node.Name.Lexeme, value)
	return value, nil
}

// evalSuper finds the method on the superclass and binds it to the current
// `this`, which always lives one scope inside the scope holding `super`.
func (in *Interpreter) evalSuper(node *ast.Super, env *object.Environment) (object.Object, error) {
	var superObj, thisObj object.Object
	if distance, resolved := in.locals[node]; resolved {
		superObj, _ = env.GetAt(distance, "super")
		thisObj, _ = env.GetAt(distance-1, "this")
	} else {
		superObj, _ = env.Get("super")
		thisObj, _ = env.Get("this")
	}
	superclass, ok := superObj.(*object.Class)
	if !ok {
		return nil, newError(object.NotAClassError, "not a class: 'super' used outside of a subclass")
	}
	instance, ok := thisObj.(*object.Instance)
	if !ok {
		return nil, newError(object.NotAnInstanceError, "not an instance: 'super' used outside of a method")
	}
	method := superclass.FindMethod(node.Method.Lexeme)
	if method == nil {
		return nil, newError(object.AttributeError, "undefined property '%s' on superclass %s",
			node.Method.Lexeme, superclass.ClassName)
	}
	return method.Bind(instance), nil
}

func (in *Interpreter) evalIndex(node *ast.Index, env *object.Environment) (object.Object, error) {
	left, err := in.evaluate(node.Object, env)
	if err != nil {
		return nil, err
	}
	index, err := in.evaluate(node.Index, env)
	if err != nil {
		return nil, err
	}

	switch left := left.(type) {
	case *object.Array:
		i, err := arrayIndex(index, len(left.Elements))
		if err != nil {
			return nil, err
		}
		return left.Elements[i], nil
	case *object.String:
		runes := []rune(left.Value)
		i, err := arrayIndex(index, len(runes))
		if err != nil {
			return nil, err
		}
		return &object.String{Value: string(runes[i])}, nil
	}
	return nil, newError(object.IndexError, "not indexable: %s", left.Type())
}

func (in *Interpreter) evalSetIndex(node *ast.SetIndex, env *object.Environment) (object.Object, error) {
	left, err := in.evaluate(node.Object, env)
	if err != nil {
		return nil, err
	}
	array, ok := left.(*object.Array)
	if !ok {
		return nil, newError(object.IndexError, "cannot assign to an index of %s", left.Type())
	}
	index, err := in.evaluate(node.Index, env)
	if err != nil {
		return nil, err
	}
	value, err := in.evaluate(node.Value, env)
	if err != nil {
		return nil, err
	}
	i, err := arrayIndex(index, len(array.Elements))
	if err != nil {
		return nil, err
	}
	array.Elements[i] = value
	return value, nil
}

func arrayIndex(index object.Object, length int) (int, error) {
	i, ok := index.(*object.Integer)
	if !ok {
		return 0, newError(object.IndexError, "index must be an integer, got %s", index.Type())
	}
	if i.Value < 0 || i.Value >= int64(length) {
		return 0, newError(object.IndexError, "index out of range: %d with length %d", i.Value, length)
	}
	return int(i.Value), nil
}
