package evaluator

import (
	"io"

	"github.com/javanhut/Lox/src/ast"
	"github.com/javanhut/Lox/src/object"
)

// execute runs one statement. A Returned completion unwinds through blocks,
// ifs and loops until Function.Call consumes it.
func (in *Interpreter) execute(stmt ast.Stmt, env *object.Environment) (object.Completion, error) {
	switch s := stmt.(type) {
	case *ast.Expression:
		if _, err := in.evaluate(s.Expression, env); err != nil {
			return object.NormalCompletion, err
		}
	case *ast.Print:
		return in.executePrint(s, env)
	case *ast.Let:
		value := object.Object(object.NIL)
		if s.Initializer != nil {
			v, err := in.evaluate(s.Initializer, env)
			if err != nil {
				return object.NormalCompletion, err
			}
			value = v
		}
		env.Define(s.Name.Lexeme, value)
	case *ast.Block:
		return in.ExecuteBlock(s, object.NewEnclosedEnvironment(env))
	case *ast.If:
		return in.executeIf(s, env)
	case *ast.While:
		return in.executeWhile(s, env)
	case *ast.Function:
		env.Define(s.Name.Lexeme, &object.Function{Declaration: s, Closure: env})
	case *ast.Return:
		value := object.Object(object.NIL)
		if s.Value != nil {
			v, err := in.evaluate(s.Value, env)
			if err != nil {
				return object.NormalCompletion, err
			}
			value = v
		}
		return object.ReturnCompletion(value, s.Span()), nil
	case *ast.Class:
		return object.NormalCompletion, in.executeClass(s, env)
	default:
		return object.NormalCompletion, newError(object.InternalError, "unknown statement %T", stmt)
	}
	return object.NormalCompletion, nil
}

func (in *Interpreter) executePrint(s *ast.Print, env *object.Environment) (object.Completion, error) {
	value, err := in.evaluate(s.Expression, env)
	if err != nil {
		return object.NormalCompletion, err
	}
	if _, err := io.WriteString(in.out, value.Inspect()+"\n"); err != nil {
		return object.NormalCompletion, in.decorate(
			newError(object.IOError, "print failed: %v", err), s)
	}
	return object.NormalCompletion, nil
}

func (in *Interpreter) executeIf(s *ast.If, env *object.Environment) (object.Completion, error) {
	condition, err := in.evaluate(s.Condition, env)
	if err != nil {
		return object.NormalCompletion, err
	}
	if object.IsTruthy(condition) {
		return in.execute(s.ThenBranch, env)
	}
	if s.ElseBranch != nil {
		return in.execute(s.ElseBranch, env)
	}
	return object.NormalCompletion, nil
}

func (in *Interpreter) executeWhile(s *ast.While, env *object.Environment) (object.Completion, error) {
	for {
		condition, err := in.evaluate(s.Condition, env)
		if err != nil {
			return object.NormalCompletion, err
		}
		if !object.IsTruthy(condition) {
			return object.NormalCompletion, nil
		}
		completion, err := in.execute(s.Body, env)
		if err != nil || completion.Kind == object.Returned {
			return completion, err
		}
	}
}

// executeClass binds the name to nil first so methods can close over the
// scope that will hold the class, then overwrites it with the class.
func (in *Interpreter) executeClass(s *ast.Class, env *object.Environment) error {
	env.Define(s.Name.Lexeme, object.NIL)

	var superclass *object.Class
	if s.Superclass != nil {
		value, err := in.evaluate(s.Superclass, env)
		if err != nil {
			return err
		}
		class, ok := value.(*object.Class)
		if !ok {
			return in.decorate(newError(object.NotAClassError,
				"not a class: superclass '%s' is %s", s.Superclass.Name.Lexeme, value.Inspect()), s.Superclass)
		}
		superclass = class
	}

	methodEnv := env
	if superclass != nil {
		methodEnv = object.NewEnclosedEnvironment(env)
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]*object.Function, len(s.Methods))
	for _, method := range s.Methods {
		methods[method.Name.Lexeme] = &object.Function{Declaration: method, Closure: methodEnv}
	}

	env.Define(s.Name.Lexeme, &object.Class{
		ClassName:  s.Name.Lexeme,
		Methods:    methods,
		Superclass: superclass,
	})
	return nil
}
